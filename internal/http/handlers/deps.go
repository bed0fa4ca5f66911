package handlers

import (
	"context"
	"time"

	"anynow/internal/bridge"
	"anynow/internal/config"
	applog "anynow/internal/log"
	"anynow/internal/services"
	"anynow/internal/storage"
	"anynow/internal/watch"
)

// Services is the business layer shared by both apps.
type Services struct {
	Store        *storage.Store
	Bridge       *bridge.Bridge
	Hub          *watch.Hub
	Catalog      *services.CatalogService
	Cart         *services.CartService
	Orders       *services.OrderService
	Auth         *services.AuthService
	Account      *services.AccountService
	Location     *services.LocationService
	Testimonials *services.TestimonialService
	Admin        *services.AdminAuth
}

func NewServices(store *storage.Store, b *bridge.Bridge, hub *watch.Hub, cfg config.Config) (*Services, error) {
	admin, err := services.NewAdminAuth(cfg.AdminEmail, cfg.AdminPassword, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	cart := services.NewCartService(store, b, cfg.DeliveryFee)
	return &Services{
		Store:        store,
		Bridge:       b,
		Hub:          hub,
		Catalog:      services.NewCatalogService(b),
		Cart:         cart,
		Orders:       services.NewOrderService(cart, b),
		Auth:         services.NewAuthService(store, b),
		Account:      services.NewAccountService(b),
		Location:     services.NewLocationService(store),
		Testimonials: services.NewTestimonialService(b),
		Admin:        admin,
	}, nil
}

// Storefront wires the customer facing handlers.
type Storefront struct {
	Auth         *services.AuthService
	Category     *CategoryHandler
	Product      *ProductHandler
	Search       *SearchHandler
	Inventory    *InventoryHandler
	Cart         *CartHandler
	Order        *OrderHandler
	Account      *AccountHandler
	Location     *LocationHandler
	Testimonials *TestimonialHandler
	AuthHandler  *AuthHandler
	Updates      *UpdatesHandler
}

func NewStorefront(s *Services) *Storefront {
	return &Storefront{
		Auth:         s.Auth,
		Category:     &CategoryHandler{Catalog: s.Catalog, Location: s.Location},
		Product:      &ProductHandler{Catalog: s.Catalog},
		Search:       &SearchHandler{Catalog: s.Catalog},
		Inventory:    &InventoryHandler{Catalog: s.Catalog},
		Cart:         &CartHandler{Cart: s.Cart},
		Order:        &OrderHandler{Cart: s.Cart, Order: s.Orders},
		Account:      &AccountHandler{Account: s.Account, Bridge: s.Bridge},
		Location:     &LocationHandler{Location: s.Location},
		Testimonials: &TestimonialHandler{Testimonials: s.Testimonials},
		AuthHandler:  &AuthHandler{Auth: s.Auth},
		Updates:      &UpdatesHandler{Hub: s.Hub, Keys: bridge.CatalogKeys()},
	}
}

// Admin wires the admin panel handlers.
type Admin struct {
	AdminAuth *services.AdminAuth
	Admin     *AdminHandler
	Catalog   *AdminCatalogHandler
	Updates   *UpdatesHandler
}

func NewAdmin(s *Services) *Admin {
	return &Admin{
		AdminAuth: s.Admin,
		Admin:     &AdminHandler{Bridge: s.Bridge, Auth: s.Admin},
		Catalog:   &AdminCatalogHandler{Bridge: s.Bridge},
		Updates:   &UpdatesHandler{Hub: s.Hub, Keys: bridge.CollectionKeys()},
	}
}

// Sync keeps a process consistent with writes made by other processes: every
// changed collection reloads the bridge, refreshes the storefront cache and
// is announced to update streams. Local writes reach the hub directly.
func (s *Services) Sync(ctx context.Context, interval time.Duration) *watch.Group {
	return watch.WatchKeys(ctx, s.Store, interval, bridge.CollectionKeys(), func(key string) {
		if err := s.Bridge.Reload(ctx); err != nil {
			applog.Component("sync").WithError(err).WithField("key", key).Error("sync.reload.fail")
			return
		}
		s.Catalog.Refresh()
		s.Hub.Publish(storage.Event{Key: key})
	})
}
