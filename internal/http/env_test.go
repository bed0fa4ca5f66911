package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"anynow/internal/bridge"
	"anynow/internal/config"
	"anynow/internal/http/handlers"
	"anynow/internal/http/server"
	applog "anynow/internal/log"
	"anynow/internal/storage"
	"anynow/internal/watch"
)

const (
	adminEmail    = "admin@anynow.test"
	adminPassword = "Passw0rd!"
)

type env struct {
	svc        *handlers.Services
	storefront *fiber.App
	admin      *fiber.App
}

func testOptions() server.Options {
	o := server.DefaultOptions()
	o.GlobalLimit = 1000
	o.LoginLimit = 100
	o.CheckoutLimit = 100
	o.SearchLimit = 100
	o.AccessLog = false
	return o
}

func newEnv(t *testing.T, opts server.Options) *env {
	t.Helper()
	store, err := storage.Open(context.Background(), "memory", "", "", "", "")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	b, err := bridge.New(context.Background(), store, bridge.DefaultSeed())
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}
	hub := watch.NewHub(store)
	t.Cleanup(hub.Close)

	cfg := config.Config{
		DeliveryFee:   30,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		JWTSecret:     "test-secret",
	}
	svc, err := handlers.NewServices(store, b, hub, cfg)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	return &env{
		svc:        svc,
		storefront: server.NewStorefront(handlers.NewStorefront(svc), opts),
		admin:      server.NewAdmin(handlers.NewAdmin(svc), opts),
	}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// client carries cookies between requests to one app, like a browser tab.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, cookies: map[string]string{}}
}

// csrf primes the csrf cookie with a safe request.
func (c *client) csrf() string {
	c.t.Helper()
	if tok := c.cookies["csrf_"]; tok != "" {
		return tok
	}
	c.do("GET", "/api/v1/cart", nil)
	tok := c.cookies["csrf_"]
	if tok == "" {
		c.t.Fatal("csrf token missing")
	}
	return tok
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.cookies["csrf_"]; tok != "" && method != "GET" {
		req.Header.Set("X-Csrf-Token", tok)
	}
	for k, v := range c.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	for _, ck := range resp.Cookies() {
		if ck.Value == "" {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck.Value
		}
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d body=%s", want, resp.StatusCode, body)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
	Status int            `json:"status"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs redirects the structured logger while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	old := applog.Writer()
	applog.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	defer applog.SetOutput(old)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
