package handlers_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"anynow/internal/domain"
)

func TestSearchRejectsBadQuery(t *testing.T) {
	e := newEnv(t, testOptions())
	c := newClient(t, e.storefront)

	expectStatus(t, c.do("GET", "/api/v1/products?q=%3Cscript%3E", nil), 400)
	expectStatus(t, c.do("GET", "/api/v1/products?category=Not%20A%20Slug", nil), 400)

	resp := c.do("GET", "/api/v1/products?q=apple", nil)
	expectStatus(t, resp, 200)
	var out struct {
		Count int `json:"count"`
	}
	decode(t, resp, &out)
	if out.Count == 0 {
		t.Fatal("expected apples to be found")
	}
}

func TestCheckoutRejectsBadPayment(t *testing.T) {
	e := newEnv(t, testOptions())
	c := newClient(t, e.storefront)
	c.csrf()
	expectStatus(t, c.do("POST", "/api/v1/cart/items", map[string]any{"productId": 1}), 200)

	body := map[string]any{}
	for k, v := range checkoutContact {
		body[k] = v
	}
	body["paymentMethod"] = "cheque"
	resp := c.do("POST", "/api/v1/checkout", body)
	expectStatus(t, resp, 400)
	var out struct {
		Error string `json:"error"`
	}
	decode(t, resp, &out)
	if out.Error != "choose a payment method" {
		t.Fatalf("unexpected error %q", out.Error)
	}
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t, testOptions())
	c := newClient(t, e.storefront)
	c.csrf()

	cases := []map[string]string{
		{"name": "", "email": "a@b.co", "password": "secret1", "confirmPassword": "secret1"},
		{"name": "Priya", "email": "nope", "password": "secret1", "confirmPassword": "secret1"},
		{"name": "Priya", "email": "a@b.co", "password": "secret1", "confirmPassword": "secret2"},
		{"name": "Priya", "email": "a@b.co", "password": "abc", "confirmPassword": "abc"},
	}
	for _, f := range cases {
		expectStatus(t, c.do("POST", "/api/v1/auth/signup", f), 400)
	}

	ok := map[string]string{"name": "Priya", "email": "priya@example.com", "phone": "+91 98765 43210", "password": "secret1", "confirmPassword": "secret1"}
	expectStatus(t, c.do("POST", "/api/v1/auth/signup", ok), 201)
	expectStatus(t, c.do("POST", "/api/v1/auth/signup", ok), 409)
}

func TestCategoryRouteRejectsBadSlug(t *testing.T) {
	e := newEnv(t, testOptions())
	c := newClient(t, e.storefront)
	expectStatus(t, c.do("GET", "/api/v1/categories/Bad_Slug/products", nil), 400)
	expectStatus(t, c.do("GET", "/api/v1/categories/fruits-vegetables/products", nil), 200)
}

func TestHomeEscapesProductNames(t *testing.T) {
	e := newEnv(t, testOptions())
	_, err := e.svc.Bridge.CreateProduct(context.Background(), domain.CornerMain, domain.Product{
		Name:     `<script>alert(1)</script>`,
		Category: "fruits-vegetables",
		Price:    10,
		Quantity: 5,
		Featured: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := e.storefront.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "<script>alert(1)</script>") {
		t.Fatal("product name rendered unescaped")
	}
	if !strings.Contains(string(body), "&lt;script&gt;") {
		t.Fatal("expected escaped product name in page")
	}
}
