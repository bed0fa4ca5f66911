package bridge

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"anynow/internal/domain"
	applog "anynow/internal/log"
	"anynow/internal/storage"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Storage keys, without the store prefix.
const (
	KeyProducts       = "products"
	KeyPanProducts    = "pan_products"
	KeyLiquorProducts = "liquor_products"
	KeyCategories     = "categories"
	KeyOrders         = "orders"
	KeyUsers          = "users"
	KeyTestimonials   = "testimonials"
	KeyAddresses      = "addresses"
)

func ProductKey(c domain.Corner) string {
	switch c {
	case domain.CornerPan:
		return KeyPanProducts
	case domain.CornerLiquor:
		return KeyLiquorProducts
	default:
		return KeyProducts
	}
}

// CollectionKeys lists every key the bridge mirrors.
func CollectionKeys() []string {
	return []string{
		KeyProducts, KeyPanProducts, KeyLiquorProducts, KeyCategories,
		KeyOrders, KeyUsers, KeyTestimonials, KeyAddresses,
	}
}

// CatalogKeys are the keys the storefront renders from.
func CatalogKeys() []string {
	return []string{KeyProducts, KeyPanProducts, KeyLiquorProducts, KeyCategories, KeyTestimonials}
}

// Bridge keeps an in-memory copy of every collection and writes the whole
// collection back on each mutation. The in-memory copy changes only after the
// write succeeded.
type Bridge struct {
	store *storage.Store
	seed  Seed
	now   func() time.Time

	mu           sync.RWMutex
	products     map[domain.Corner][]domain.Product
	categories   []domain.Category
	orders       []domain.Order
	users        []domain.User
	testimonials []domain.Testimonial
	addresses    []domain.Address
}

// New loads every collection from store, writing seed defaults for the ones
// that are missing.
func New(ctx context.Context, store *storage.Store, seed Seed) (*Bridge, error) {
	b := &Bridge{
		store:    store,
		seed:     seed,
		now:      func() time.Time { return time.Now().UTC() },
		products: map[domain.Corner][]domain.Product{},
	}
	if err := b.init(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// SetClock replaces the time source; tests use it for stable timestamps.
func (b *Bridge) SetClock(now func() time.Time) { b.now = now }

func (b *Bridge) Store() *storage.Store { return b.store }

func (b *Bridge) init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range domain.Corners {
		list, err := loadOrDefault(ctx, b.store, ProductKey(c), b.seed.Products[c])
		if err != nil {
			return err
		}
		b.products[c] = list
	}
	var err error
	if b.categories, err = loadOrDefault(ctx, b.store, KeyCategories, b.seed.Categories); err != nil {
		return err
	}
	if b.orders, err = loadOrDefault(ctx, b.store, KeyOrders, b.seed.Orders); err != nil {
		return err
	}
	if b.testimonials, err = loadOrDefault(ctx, b.store, KeyTestimonials, b.seed.Testimonials); err != nil {
		return err
	}
	if b.users, err = loadOrDefault[domain.User](ctx, b.store, KeyUsers, nil); err != nil {
		return err
	}
	if b.addresses, err = loadOrDefault[domain.Address](ctx, b.store, KeyAddresses, nil); err != nil {
		return err
	}
	return nil
}

func loadOrDefault[T any](ctx context.Context, s *storage.Store, key string, def []T) ([]T, error) {
	var out []T
	found, err := s.Load(ctx, key, &out)
	if err != nil {
		return nil, err
	}
	if found {
		return out, nil
	}
	out = slices.Clone(def)
	if out == nil {
		out = []T{}
	}
	if err := s.Save(ctx, key, out); err != nil {
		return nil, err
	}
	applog.Component("bridge").WithField("key", key).WithField("count", len(out)).Info("bridge.seed")
	return out, nil
}

// Reload re-reads every collection from storage, picking up writes made by
// other processes. Missing keys keep their in-memory value.
func (b *Bridge) Reload(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range domain.Corners {
		if err := reload(ctx, b.store, ProductKey(c), func(v []domain.Product) { b.products[c] = v }); err != nil {
			return err
		}
	}
	steps := []error{
		reload(ctx, b.store, KeyCategories, func(v []domain.Category) { b.categories = v }),
		reload(ctx, b.store, KeyOrders, func(v []domain.Order) { b.orders = v }),
		reload(ctx, b.store, KeyUsers, func(v []domain.User) { b.users = v }),
		reload(ctx, b.store, KeyTestimonials, func(v []domain.Testimonial) { b.testimonials = v }),
		reload(ctx, b.store, KeyAddresses, func(v []domain.Address) { b.addresses = v }),
	}
	return errors.Join(steps...)
}

func reload[T any](ctx context.Context, s *storage.Store, key string, set func([]T)) error {
	var out []T
	found, err := s.Load(ctx, key, &out)
	if err != nil {
		return err
	}
	if found {
		if out == nil {
			out = []T{}
		}
		set(out)
	}
	return nil
}

// ClearAll drops the catalog, orders and testimonials and restores the seed.
// Users and addresses are kept.
func (b *Bridge) ClearAll(ctx context.Context) error {
	keys := []string{KeyProducts, KeyPanProducts, KeyLiquorProducts, KeyCategories, KeyOrders, KeyTestimonials}
	for _, k := range keys {
		if err := b.store.Remove(ctx, k); err != nil {
			return err
		}
	}
	return b.init(ctx)
}

// WebsiteData groups the main catalog by category slug.
func (b *Bridge) WebsiteData() domain.WebsiteData {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := domain.WebsiteData{
		Products:   make(map[string][]domain.Product, len(b.categories)),
		Categories: make([]domain.CategoryRef, 0, len(b.categories)),
	}
	for _, c := range b.categories {
		out.Categories = append(out.Categories, domain.CategoryRef{Name: c.Name, Slug: c.Slug})
		list := []domain.Product{}
		for _, p := range b.products[domain.CornerMain] {
			if p.Category == c.Slug {
				list = append(list, p)
			}
		}
		out.Products[c.Slug] = list
	}
	return out
}

func nextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}

func indexByID[T any](items []T, want int64, id func(T) int64) int {
	return slices.IndexFunc(items, func(it T) bool { return id(it) == want })
}

// persist writes next under key; the caller swaps it in on success.
func persist[T any](ctx context.Context, s *storage.Store, key string, next []T) error {
	if next == nil {
		next = []T{}
	}
	return s.Save(ctx, key, next)
}
