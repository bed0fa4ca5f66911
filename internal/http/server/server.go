package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"anynow/internal/http/handlers"
	applog "anynow/internal/log"
	"anynow/web"
)

// Options are the per-app limits. Tests shrink them.
type Options struct {
	GlobalLimit   int // requests per minute per IP
	LoginLimit    int // attempts per 10 minutes per IP
	CheckoutLimit int // orders per minute per IP
	SearchLimit   int // searches per minute per IP
	BodyLimit     int
	UploadLimit   int // admin app body limit, fits a base64 product image
	AccessLog     bool
}

func DefaultOptions() Options {
	return Options{
		GlobalLimit:   120,
		LoginLimit:    5,
		CheckoutLimit: 10,
		SearchLimit:   30,
		BodyLimit:     1 << 20,
		UploadLimit:   8 << 20,
		AccessLog:     true,
	}
}

func Engine() *html.Engine {
	return html.NewFileSystem(http.FS(web.Templates()), ".html")
}

// ErrorHandler shows a friendly message and never leaks err to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
		msg = http.StatusText(code)
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func rateLimit(name string, max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + name
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate."+name+".hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
}

func newApp(name string, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		Views:                 Engine(),
		ErrorHandler:          ErrorHandler,
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{Output: applog.Writer()}))
	}
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        opts.GlobalLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz" || c.Path() == "/api/v1/updates"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	return app
}

func notFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
}

// NewStorefront builds the customer app.
func NewStorefront(d *handlers.Storefront, opts Options) *fiber.App {
	app := newApp("anynow-storefront", opts)

	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
	app.Use(handlers.AttachUser(d.Auth))

	app.Get("/", d.Category.Home)

	api := app.Group("/api/v1")
	api.Get("/catalog", d.Category.Website)
	api.Get("/categories", d.Category.List)
	api.Get("/categories/:slug/products", d.Category.Products)
	api.Get("/products", rateLimit("search", opts.SearchLimit, time.Minute), d.Search.Search)
	api.Get("/products/featured", d.Product.Featured)
	api.Get("/products/:id", d.Product.Detail)
	api.Get("/corners/:corner/products", d.Product.Corner)
	api.Get("/availability", rateLimit("availability", opts.SearchLimit, time.Minute), d.Inventory.Check)

	api.Get("/cart", d.Cart.View)
	api.Delete("/cart", d.Cart.Clear)
	api.Post("/cart/items", d.Cart.Add)
	api.Patch("/cart/items/:id", d.Cart.Update)
	api.Delete("/cart/items/:id", d.Cart.Remove)
	api.Post("/checkout", rateLimit("checkout", opts.CheckoutLimit, time.Minute), d.Order.Place)

	api.Post("/auth/signup", rateLimit("signup", opts.LoginLimit, 10*time.Minute), d.AuthHandler.Signup)
	api.Post("/auth/login", rateLimit("login", opts.LoginLimit, 10*time.Minute), d.AuthHandler.Login)
	api.Post("/auth/logout", d.AuthHandler.Logout)

	acct := api.Group("/account", handlers.RequireUser(d.Auth))
	acct.Get("/", d.Account.Profile)
	acct.Get("/orders/:id", d.Account.Order)
	acct.Get("/addresses", d.Account.Addresses)
	acct.Post("/addresses", d.Account.AddAddress)
	acct.Delete("/addresses/:id", d.Account.DeleteAddress)

	api.Get("/testimonials", d.Testimonials.List)
	api.Post("/testimonials", d.Testimonials.Submit)
	api.Get("/locations", d.Location.Search)
	api.Get("/location", d.Location.Get)
	api.Post("/location", d.Location.Set)
	api.Get("/updates", d.Updates.Stream)

	app.Use(notFound)
	return app
}

// NewAdmin builds the admin panel app. Everything except login sits behind
// RequireAdmin.
func NewAdmin(d *handlers.Admin, opts Options) *fiber.App {
	if opts.UploadLimit > opts.BodyLimit {
		opts.BodyLimit = opts.UploadLimit
	}
	app := newApp("anynow-admin", opts)

	app.Get("/login", d.Admin.LoginPage)
	app.Post("/api/v1/login", rateLimit("admin_login", opts.LoginLimit, 10*time.Minute), d.Admin.Login)
	app.Post("/api/v1/logout", d.Admin.Logout)

	guard := handlers.RequireAdmin(d.AdminAuth)
	app.Get("/", guard, d.Admin.Dashboard)

	api := app.Group("/api/v1", guard)
	api.Get("/products", d.Catalog.Products)
	api.Post("/products", d.Catalog.CreateProduct)
	api.Get("/products/:id", d.Catalog.Product)
	api.Patch("/products/:id", d.Catalog.UpdateProduct)
	api.Put("/products/:id", d.Catalog.UpdateProduct)
	api.Delete("/products/:id", d.Catalog.DeleteProduct)

	api.Get("/categories", d.Catalog.Categories)
	api.Post("/categories", d.Catalog.CreateCategory)
	api.Patch("/categories/:id", d.Catalog.UpdateCategory)
	api.Delete("/categories/:id", d.Catalog.DeleteCategory)

	api.Get("/orders", d.Admin.Orders)
	api.Get("/orders/stats", d.Admin.OrderStats)
	api.Get("/orders/:id", d.Admin.Order)
	api.Patch("/orders/:id/status", d.Admin.UpdateOrderStatus)

	api.Get("/users", d.Admin.Users)
	api.Get("/users/:id", d.Admin.User)
	api.Post("/users/:id/toggle-block", d.Admin.ToggleUserBlocked)

	api.Get("/testimonials", d.Admin.Testimonials)
	api.Post("/testimonials/:id/toggle-approval", d.Admin.ToggleTestimonialApproval)
	api.Delete("/testimonials/:id", d.Admin.DeleteTestimonial)

	api.Post("/reset", d.Admin.Reset)
	api.Get("/updates", d.Updates.Stream)

	app.Use(notFound)
	return app
}
