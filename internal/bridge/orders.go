package bridge

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"anynow/internal/domain"
)

func orderID(o domain.Order) int64 { return o.ID }

func newestOrdersFirst(a, b domain.Order) int {
	if c := b.OrderDate.Compare(a.OrderDate); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// Orders returns every order, newest first.
func (b *Bridge) Orders() []domain.Order {
	b.mu.RLock()
	out := slices.Clone(b.orders)
	b.mu.RUnlock()
	slices.SortStableFunc(out, newestOrdersFirst)
	return out
}

func (b *Bridge) Order(id int64) (domain.Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := indexByID(b.orders, id, orderID)
	if i < 0 {
		return domain.Order{}, ErrNotFound
	}
	return b.orders[i], nil
}

// OrdersByCustomer matches the customer id, or the email for orders placed
// before the customer signed up.
func (b *Bridge) OrdersByCustomer(userID int64, email string) []domain.Order {
	out := []domain.Order{}
	for _, o := range b.Orders() {
		if (userID != 0 && o.CustomerID == userID) || (email != "" && strings.EqualFold(o.CustomerEmail, email)) {
			out = append(out, o)
		}
	}
	return out
}

func (b *Bridge) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o.ID = nextID(b.orders, orderID)
	now := b.now()
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	if o.Status == "" {
		o.Status = domain.StatusNew
	}
	o.UpdatedAt = now

	next := append([]domain.Order{o}, b.orders...)
	if err := persist(ctx, b.store, KeyOrders, next); err != nil {
		return domain.Order{}, err
	}
	b.orders = next
	return o, nil
}

// UpdateOrderStatus stores any status label; transitions are not checked.
func (b *Bridge) UpdateOrderStatus(ctx context.Context, id int64, status string) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexByID(b.orders, id, orderID)
	if i < 0 {
		return domain.Order{}, ErrNotFound
	}
	o := b.orders[i]
	o.Status = status
	o.UpdatedAt = b.now()

	next := slices.Clone(b.orders)
	next[i] = o
	if err := persist(ctx, b.store, KeyOrders, next); err != nil {
		return domain.Order{}, err
	}
	b.orders = next
	return o, nil
}

// IsPending reports whether an order still needs handling. Legacy orders use
// "pending", current ones start as "New".
func IsPending(status string) bool {
	return strings.EqualFold(status, "pending") || strings.EqualFold(status, domain.StatusNew)
}

func (b *Bridge) OrderStats() domain.OrderStats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st := domain.OrderStats{TotalOrders: len(b.orders)}
	for _, o := range b.orders {
		st.TotalRevenue += o.TotalAmount
		if IsPending(o.Status) {
			st.PendingOrders++
		}
	}
	return st
}
