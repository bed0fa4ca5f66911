package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	"anynow/internal/services"
	"anynow/internal/storage"
	"anynow/internal/validate"
)

type fixture struct {
	store   *storage.Store
	bridge  *bridge.Bridge
	carts   *services.CartService
	orders  *services.OrderService
	auth    *services.AuthService
	catalog *services.CatalogService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := storage.NewStore(storage.NewMemoryBackend())
	b, err := bridge.New(context.Background(), s, bridge.DefaultSeed())
	require.NoError(t, err)
	carts := services.NewCartService(s, b, services.DefaultDeliveryFee)
	auth := services.NewAuthService(s, b)
	auth.Cost = bcrypt.MinCost
	return fixture{
		store:   s,
		bridge:  b,
		carts:   carts,
		orders:  services.NewOrderService(carts, b),
		auth:    auth,
		catalog: services.NewCatalogService(b),
	}
}

var contact = services.Contact{
	Name: "Test Customer", Email: "test@example.com", Phone: "+91 98765 43210",
	Location: "Mumbai, 400050", Payment: "cod",
}

func TestComputeTotals(t *testing.T) {
	fee := decimal.NewFromInt(30)

	empty := services.ComputeTotals(nil, fee)
	assert.Equal(t, services.Totals{}, empty, "no delivery fee on an empty cart")

	got := services.ComputeTotals([]domain.CartItem{
		{Price: 120, Quantity: 2},
		{Price: 0.1, Quantity: 3},
	}, fee)
	assert.Equal(t, 240.3, got.Subtotal)
	assert.Equal(t, 30.0, got.DeliveryFee)
	assert.Equal(t, 270.3, got.Total)
	assert.Equal(t, 5, got.ItemCount)
}

func TestCartAddUpdateRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sid := "s1"

	require.NoError(t, f.carts.Add(ctx, sid, domain.CornerMain, 1, 0)) // qty < 1 means 1
	require.NoError(t, f.carts.Add(ctx, sid, domain.CornerMain, 1, 2))
	require.NoError(t, f.carts.Add(ctx, sid, domain.CornerPan, 1, 1)) // same id, other corner

	v, err := f.carts.View(ctx, sid)
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.Equal(t, 3, v.Items[0].Quantity)
	assert.Equal(t, 360.0+50.0, v.Subtotal)
	assert.Equal(t, 440.0, v.Total)

	require.NoError(t, f.carts.UpdateQuantity(ctx, sid, domain.CornerMain, 1, 0))
	v, err = f.carts.View(ctx, sid)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, domain.CornerPan, v.Items[0].Corner)

	require.NoError(t, f.carts.Remove(ctx, sid, domain.CornerPan, 1))
	v, err = f.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.Equal(t, 0.0, v.Total)

	assert.ErrorIs(t, f.carts.Remove(ctx, sid, domain.CornerPan, 1), bridge.ErrNotFound)
	assert.ErrorIs(t, f.carts.Add(ctx, sid, domain.CornerMain, 999, 1), bridge.ErrNotFound)
}

func TestCartLineQuantityCapped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sid := "s-cap"

	for i := 0; i < 4; i++ {
		require.NoError(t, f.carts.Add(ctx, sid, domain.CornerMain, 1, 50))
	}
	v, err := f.carts.View(ctx, sid)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, validate.MaxQty, v.Items[0].Quantity)
	assert.Equal(t, 6000.0, v.Subtotal)
	assert.Equal(t, 6030.0, v.Total)

	require.NoError(t, f.carts.UpdateQuantity(ctx, sid, domain.CornerMain, 1, 500))
	v, err = f.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, validate.MaxQty, v.Items[0].Quantity)
}

func TestCartRejectsOutOfStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	zero := 0
	_, err := f.bridge.UpdateProduct(ctx, domain.CornerMain, 2, domain.ProductPatch{Quantity: &zero})
	require.NoError(t, err)

	err = f.carts.Add(ctx, "s1", domain.CornerMain, 2, 1)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestCheckoutUsesCatalogPrices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sid := "s1"
	require.NoError(t, f.carts.Add(ctx, sid, domain.CornerMain, 1, 2))

	price := 100.0
	_, err := f.bridge.UpdateProduct(ctx, domain.CornerMain, 1, domain.ProductPatch{Price: &price})
	require.NoError(t, err)

	o, err := f.orders.Place(ctx, sid, 0, contact)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, o.Status)
	assert.Equal(t, 200.0, o.Subtotal)
	assert.Equal(t, 230.0, o.TotalAmount)
	assert.Equal(t, "cod", o.PaymentMethod)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Fresh Apples", o.Items[0].Name)

	v, err := f.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, v.Items, "cart is cleared after checkout")
	assert.Equal(t, o.ID, f.bridge.Orders()[0].ID)

	assert.True(t, services.TotalsMatch(230.001, o.TotalAmount))
	assert.False(t, services.TotalsMatch(1, o.TotalAmount))
}

func TestCheckoutFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.Place(ctx, "empty", 0, contact)
	assert.ErrorIs(t, err, services.ErrCartEmpty)

	require.NoError(t, f.carts.Add(ctx, "s1", domain.CornerLiquor, 2, 1))

	bad := contact
	bad.Payment = "cheque"
	_, err = f.orders.Place(ctx, "s1", 0, bad)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.EqualError(t, err, "choose a payment method")

	bad = contact
	bad.Email = "nope"
	_, err = f.orders.Place(ctx, "s1", 0, bad)
	assert.ErrorIs(t, err, services.ErrValidation)

	require.NoError(t, f.bridge.DeleteProduct(ctx, domain.CornerLiquor, 2))
	_, err = f.orders.Place(ctx, "s1", 0, contact)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Len(t, f.bridge.Orders(), 2, "no order on failure")
}

func TestSignupLoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	form := services.SignupForm{Name: "Priya", Email: "Priya@Example.com", Password: "secret1", Confirm: "secret1"}
	u, err := f.auth.Signup(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Hash)

	_, err = f.auth.Signup(ctx, form)
	assert.ErrorIs(t, err, bridge.ErrConflict)

	_, err = f.auth.Signup(ctx, services.SignupForm{Name: "X", Email: "x@example.com", Password: "abcdef", Confirm: "abcdeg"})
	assert.EqualError(t, err, "passwords do not match")

	_, _, err = f.auth.Login(ctx, "sid", "priya@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = f.auth.Login(ctx, "sid", "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	logged, sid, err := f.auth.Login(ctx, "sid", "priya@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, logged.LastLogin.IsZero())
	assert.NotEqual(t, "sid", sid)

	cur, err := f.auth.CurrentUser(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)

	require.NoError(t, f.auth.Logout(ctx, sid))
	_, err = f.auth.CurrentUser(ctx, sid)
	assert.ErrorIs(t, err, services.ErrNotLoggedIn)
}

func TestLoginRotatesSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.Signup(ctx, services.SignupForm{Name: "Priya", Email: "priya@example.com", Password: "secret1", Confirm: "secret1"})
	require.NoError(t, err)

	_, first, err := f.auth.Login(ctx, "anon", "priya@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.carts.Add(ctx, first, domain.CornerMain, 1, 2))

	_, second, err := f.auth.Login(ctx, first, "priya@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = f.auth.CurrentUser(ctx, first)
	assert.ErrorIs(t, err, services.ErrNotLoggedIn, "old session id must stop working")
	_, err = f.auth.CurrentUser(ctx, second)
	require.NoError(t, err)

	v, err := f.carts.View(ctx, second)
	require.NoError(t, err)
	require.Len(t, v.Items, 1, "cart follows the new session")
	assert.Equal(t, 2, v.Items[0].Quantity)
	old, err := f.carts.View(ctx, first)
	require.NoError(t, err)
	assert.Empty(t, old.Items)
}

func TestBlockedUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.auth.Signup(ctx, services.SignupForm{Name: "Rahul", Email: "rahul@example.com", Password: "secret1", Confirm: "secret1"})
	require.NoError(t, err)
	_, sid, err := f.auth.Login(ctx, "sid", "rahul@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.bridge.ToggleUserBlocked(ctx, u.ID)
	require.NoError(t, err)

	_, err = f.auth.CurrentUser(ctx, sid)
	assert.ErrorIs(t, err, services.ErrBlocked)
	_, _, err = f.auth.Login(ctx, "sid2", "rahul@example.com", "secret1")
	assert.ErrorIs(t, err, services.ErrBlocked)
}

func TestAccountProfileMatchesOrdersByEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.auth.Signup(ctx, services.SignupForm{Name: "John", Email: "john@example.com", Password: "secret1", Confirm: "secret1"})
	require.NoError(t, err)

	acct := services.NewAccountService(f.bridge)
	p := acct.Profile(u)
	assert.Empty(t, p.User.Hash)
	require.Len(t, p.Orders, 1, "pre-signup order matched by email")
	assert.Equal(t, int64(1), p.Orders[0].ID)

	_, err = acct.AddAddress(ctx, u.ID, domain.Address{Street: "1 Marine Drive", City: "Mumbai", Pincode: "123"})
	assert.ErrorIs(t, err, services.ErrValidation)
	a, err := acct.AddAddress(ctx, u.ID, domain.Address{Street: "1 Marine Drive", City: "Mumbai", Pincode: "400020"})
	require.NoError(t, err)
	assert.Equal(t, "Home", a.Label)
	assert.Len(t, acct.Profile(u).Addresses, 1)
	require.NoError(t, acct.DeleteAddress(ctx, u.ID, a.ID))
}

func TestAdminAuthTokens(t *testing.T) {
	a, err := services.NewAdminAuth("admin@anynow.test", "Passw0rd!", "test-secret")
	require.NoError(t, err)

	_, err = a.Login("admin@anynow.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	tok, err := a.Login(" Admin@anynow.test ", "Passw0rd!")
	require.NoError(t, err)
	claims, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin@anynow.test", claims.Email)

	other, err := services.NewAdminAuth("admin@anynow.test", "Passw0rd!", "other-secret")
	require.NoError(t, err)
	_, err = other.Verify(tok)
	assert.Error(t, err)

	a.TTL = -time.Minute
	expired, err := a.Login("admin@anynow.test", "Passw0rd!")
	require.NoError(t, err)
	_, err = a.Verify(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	loc := services.NewLocationService(f.store)

	assert.Equal(t, services.DefaultLocation, loc.Get(ctx, "sid"))
	assert.Empty(t, loc.Search(""))
	names := []string{}
	for _, c := range loc.Search("PUR") {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Kanpur", "Nagpur", "Jaipur"}, names)

	saved, err := loc.Set(ctx, "sid", domain.Location{City: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, "411001", saved.Area)
	assert.Equal(t, saved, loc.Get(ctx, "sid"))

	_, err = loc.Set(ctx, "sid", domain.Location{})
	assert.ErrorIs(t, err, services.ErrValidation)

	assert.Equal(t, "Delhi", services.Nearest(28.5, 77.1).Name)
}

func TestTestimonialSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := services.NewTestimonialService(f.bridge)

	_, err := svc.Submit(ctx, services.TestimonialForm{Name: "Meera", Rating: 6, Text: "Nice"})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.Submit(ctx, services.TestimonialForm{Name: "Meera", Rating: 4, Text: "  "})
	assert.ErrorIs(t, err, services.ErrValidation)

	published := len(svc.Published())
	tm, err := svc.Submit(ctx, services.TestimonialForm{Name: "Meera", Rating: 4, Text: "Fast delivery"})
	require.NoError(t, err)
	assert.False(t, tm.IsApproved)
	assert.Len(t, svc.Published(), published)
}

func TestCatalogRefreshAndAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.Len(t, f.catalog.ProductsByCategory("dairy-bakery"), 2)
	_, err := f.bridge.CreateProduct(ctx, domain.CornerMain, domain.Product{Name: "Paneer", Category: "dairy-bakery", Price: 90, Quantity: 3})
	require.NoError(t, err)
	assert.Len(t, f.catalog.ProductsByCategory("dairy-bakery"), 2, "served from cache until refreshed")
	f.catalog.Refresh()
	assert.Len(t, f.catalog.ProductsByCategory("dairy-bakery"), 3)
	assert.Empty(t, f.catalog.ProductsByCategory("unknown"))

	pv, err := f.catalog.Product(domain.CornerMain, 6)
	require.NoError(t, err)
	assert.Equal(t, "LOW_STOCK", pv.Availability.Status)
	assert.Equal(t, "IN_STOCK", services.CheckAvailability(5).Status)
	assert.Equal(t, "OUT_OF_STOCK", services.CheckAvailability(0).Status)

	home := f.catalog.Home()
	assert.Len(t, home.Categories, 6)
	assert.Len(t, home.Featured, 4)
	assert.Len(t, home.Testimonials, 1)
}
