package handlers_test

import (
	"net/http/httptest"
	"testing"
)

func TestAdminAPIRequiresLogin(t *testing.T) {
	e := newEnv(t, testOptions())
	c := newClient(t, e.admin)

	expectStatus(t, c.do("GET", "/api/v1/orders", nil), 401)

	c.cookies["admin_token"] = "not-a-jwt"
	expectStatus(t, c.do("GET", "/api/v1/orders", nil), 403)
}

func TestAdminDashboardRedirectsBrowsers(t *testing.T) {
	e := newEnv(t, testOptions())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "text/html")
	resp, err := e.admin.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 302 {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestAdminLoginFlow(t *testing.T) {
	e := newEnv(t, testOptions())
	c := newClient(t, e.admin)

	expectStatus(t, c.do("POST", "/api/v1/login", map[string]string{"email": adminEmail, "password": "wrong-one"}), 401)

	resp := c.do("POST", "/api/v1/login", map[string]string{"email": adminEmail, "password": adminPassword})
	expectStatus(t, resp, 200)
	var out struct {
		Token string `json:"token"`
	}
	decode(t, resp, &out)
	if out.Token == "" || c.cookies["admin_token"] == "" {
		t.Fatal("expected token in body and cookie")
	}

	expectStatus(t, c.do("GET", "/api/v1/orders", nil), 200)
	expectStatus(t, c.do("GET", "/api/v1/orders/stats", nil), 200)

	// bearer header works without the cookie
	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	r2, err := e.admin.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if r2.StatusCode != 200 {
		t.Fatalf("expected 200 with bearer token, got %d", r2.StatusCode)
	}

	expectStatus(t, c.do("POST", "/api/v1/logout", nil), 204)
	expectStatus(t, c.do("GET", "/api/v1/orders", nil), 401)
}

func TestAccountRequiresCustomer(t *testing.T) {
	e := newEnv(t, testOptions())
	c := newClient(t, e.storefront)
	expectStatus(t, c.do("GET", "/api/v1/account", nil), 401)
}
