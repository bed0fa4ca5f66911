package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	applog "anynow/internal/log"
	"anynow/internal/validate"
)

// Contact is the checkout form.
type Contact struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Location string `json:"deliveryLocation" form:"deliveryLocation"`
	Payment  string `json:"paymentMethod" form:"paymentMethod"`
}

func (c Contact) normalize() (Contact, error) {
	var ok bool
	if c.Name, ok = validate.Name(c.Name); !ok {
		return c, invalid("enter your name")
	}
	if c.Email, ok = validate.Email(c.Email); !ok {
		return c, invalid("enter a valid email")
	}
	if c.Phone, ok = validate.Phone(c.Phone); !ok {
		return c, invalid("enter a valid phone number")
	}
	c.Location = strings.TrimSpace(c.Location)
	if c.Location == "" || len(c.Location) > 200 {
		return c, invalid("enter a delivery location")
	}
	if c.Payment, ok = validate.PaymentMethod(c.Payment); !ok {
		return c, invalid("choose a payment method")
	}
	return c, nil
}

type OrderService struct {
	Carts  *CartService
	Bridge *bridge.Bridge
}

func NewOrderService(carts *CartService, b *bridge.Bridge) *OrderService {
	return &OrderService{Carts: carts, Bridge: b}
}

// Place turns the session cart into an order. Prices come from the catalog,
// never from the client; a product that disappeared fails the checkout.
func (s *OrderService) Place(ctx context.Context, sid string, customerID int64, contact Contact) (domain.Order, error) {
	contact, err := contact.normalize()
	if err != nil {
		return domain.Order{}, err
	}

	items, err := s.Carts.items(ctx, sid)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, ErrCartEmpty
	}

	priced := make([]domain.CartItem, 0, len(items))
	lines := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		p, err := s.Bridge.Product(it.Corner, it.ProductID)
		if errors.Is(err, bridge.ErrNotFound) {
			return domain.Order{}, invalid(it.Name + " is no longer available")
		}
		if err != nil {
			return domain.Order{}, err
		}
		if !p.InStock {
			return domain.Order{}, invalid(p.Name + " is out of stock")
		}
		it.Price = p.Price
		priced = append(priced, it)
		lines = append(lines, domain.OrderItem{
			ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: it.Quantity, Image: p.Image,
		})
	}

	t := ComputeTotals(priced, s.Carts.Fee)
	o, err := s.Bridge.CreateOrder(ctx, domain.Order{
		CustomerID:       customerID,
		CustomerName:     contact.Name,
		CustomerEmail:    contact.Email,
		CustomerPhone:    contact.Phone,
		DeliveryLocation: contact.Location,
		PaymentMethod:    contact.Payment,
		Items:            lines,
		Subtotal:         t.Subtotal,
		DeliveryFee:      t.DeliveryFee,
		TotalAmount:      t.Total,
		Status:           domain.StatusNew,
	})
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.Carts.Clear(ctx, sid); err != nil {
		applog.Component("checkout").WithError(err).WithField("order_id", o.ID).Warn("checkout.cart_clear.fail")
	}
	return o, nil
}

// TotalsMatch compares a client-side total with the server total to the cent.
func TotalsMatch(client, server float64) bool {
	return decimal.NewFromFloat(client).Round(2).Equal(decimal.NewFromFloat(server).Round(2))
}
