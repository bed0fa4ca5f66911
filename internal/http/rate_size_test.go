package handlers_test

import (
	"bytes"
	"net/http/httptest"
	"testing"
)

func TestLoginRateLimited(t *testing.T) {
	opts := testOptions()
	opts.LoginLimit = 3
	e := newEnv(t, opts)
	c := newClient(t, e.storefront)
	c.csrf()

	creds := map[string]string{"email": "nobody@example.com", "password": "wrong-pass"}
	for i := 0; i < opts.LoginLimit; i++ {
		expectStatus(t, c.do("POST", "/api/v1/auth/login", creds), 401)
	}
	logs := captureLogs(t, func() {
		expectStatus(t, c.do("POST", "/api/v1/auth/login", creds), 429)
	})
	if _, ok := findAction(logs, "rate.login.hit"); !ok {
		t.Fatal("expected rate.login.hit log")
	}
}

func TestAdminLoginRateLimited(t *testing.T) {
	opts := testOptions()
	opts.LoginLimit = 2
	e := newEnv(t, opts)
	c := newClient(t, e.admin)
	creds := map[string]string{"email": adminEmail, "password": "nope"}
	expectStatus(t, c.do("POST", "/api/v1/login", creds), 401)
	expectStatus(t, c.do("POST", "/api/v1/login", creds), 401)
	expectStatus(t, c.do("POST", "/api/v1/login", creds), 429)
}

func TestBodyLimit(t *testing.T) {
	opts := testOptions()
	opts.BodyLimit = 1024
	e := newEnv(t, opts)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(bytes.Repeat([]byte("a"), 4096)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.storefront.Test(req)
	if err != nil {
		// fasthttp may drop the connection before a response is written
		return
	}
	if resp.StatusCode != 413 {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}
