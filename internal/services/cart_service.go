package services

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	"anynow/internal/storage"
	"anynow/internal/validate"
)

// DefaultDeliveryFee is charged once per non-empty cart.
const DefaultDeliveryFee = 30

type CartService struct {
	Store  *storage.Store
	Bridge *bridge.Bridge
	Fee    decimal.Decimal
}

func NewCartService(store *storage.Store, b *bridge.Bridge, deliveryFee float64) *CartService {
	return &CartService{Store: store, Bridge: b, Fee: decimal.NewFromFloat(deliveryFee)}
}

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"itemCount"`
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Totals
}

// ComputeTotals sums price × quantity and adds the delivery fee when there is
// anything to deliver.
func ComputeTotals(items []domain.CartItem, fee decimal.Decimal) Totals {
	sub := decimal.Zero
	count := 0
	for _, it := range items {
		sub = sub.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}
	delivery := decimal.Zero
	if len(items) > 0 {
		delivery = fee
	}
	return Totals{
		Subtotal:    sub.Round(2).InexactFloat64(),
		DeliveryFee: delivery.Round(2).InexactFloat64(),
		Total:       sub.Add(delivery).Round(2).InexactFloat64(),
		ItemCount:   count,
	}
}

func cartKey(sid string) string { return "cart_" + sid }

func (s *CartService) items(ctx context.Context, sid string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if _, err := s.Store.Load(ctx, cartKey(sid), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

func (s *CartService) save(ctx context.Context, sid string, items []domain.CartItem) error {
	if len(items) == 0 {
		return s.Store.Remove(ctx, cartKey(sid))
	}
	return s.Store.Save(ctx, cartKey(sid), items)
}

func sameLine(corner domain.Corner, productID int64) func(domain.CartItem) bool {
	return func(it domain.CartItem) bool { return it.Corner == corner && it.ProductID == productID }
}

// Add puts qty units of a product in the cart; an existing line is increased
// up to validate.MaxQty. The price is taken from the catalog at the time of adding.
func (s *CartService) Add(ctx context.Context, sid string, corner domain.Corner, productID int64, qty int) error {
	qty = min(max(qty, 1), validate.MaxQty)
	p, err := s.Bridge.Product(corner, productID)
	if err != nil {
		return err
	}
	if !p.InStock {
		return invalid(p.Name + " is out of stock")
	}
	items, err := s.items(ctx, sid)
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(items, sameLine(corner, productID)); i >= 0 {
		items[i].Quantity = min(items[i].Quantity+qty, validate.MaxQty)
		items[i].Price = p.Price
	} else {
		items = append(items, domain.CartItem{
			ProductID: p.ID, Corner: corner, Name: p.Name, Price: p.Price,
			Unit: p.Unit, Image: p.Image, Quantity: qty,
		})
	}
	return s.save(ctx, sid, items)
}

// UpdateQuantity sets the quantity of a line; anything below 1 removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, sid string, corner domain.Corner, productID int64, qty int) error {
	items, err := s.items(ctx, sid)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(items, sameLine(corner, productID))
	if i < 0 {
		return bridge.ErrNotFound
	}
	if qty < 1 {
		items = slices.Delete(items, i, i+1)
	} else {
		items[i].Quantity = min(qty, validate.MaxQty)
	}
	return s.save(ctx, sid, items)
}

func (s *CartService) Remove(ctx context.Context, sid string, corner domain.Corner, productID int64) error {
	items, err := s.items(ctx, sid)
	if err != nil {
		return err
	}
	n := len(items)
	items = slices.DeleteFunc(items, sameLine(corner, productID))
	if len(items) == n {
		return bridge.ErrNotFound
	}
	return s.save(ctx, sid, items)
}

func (s *CartService) Clear(ctx context.Context, sid string) error {
	return s.Store.Remove(ctx, cartKey(sid))
}

func (s *CartService) View(ctx context.Context, sid string) (CartView, error) {
	items, err := s.items(ctx, sid)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Totals: ComputeTotals(items, s.Fee)}, nil
}
