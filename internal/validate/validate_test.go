package validate_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"anynow/internal/domain"
	"anynow/internal/validate"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Fruits & Vegetables": "fruits-vegetables",
		"Dairy & Bakery":      "dairy-bakery",
		"  Instant Food  ":    "instant-food",
		"Household":           "household",
		"--Pan__Corner!!":     "pan-corner",
		"Snacks/Beverages 24": "snacks-beverages-24",
		"":                    "",
		"!!!":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, validate.Slug(in), "slug(%q)", in)
	}
	assert.True(t, validate.IsSlug(validate.Slug("Personal Care")))
}

func TestSignup(t *testing.T) {
	assert.NoError(t, validate.Signup("Priya", "priya@example.com", "secret1", "secret1"))
	assert.EqualError(t, validate.Signup("", "priya@example.com", "secret1", "secret1"), "please fill in all fields")
	assert.EqualError(t, validate.Signup("Priya", "not-an-email", "secret1", "secret1"), "enter a valid email")
	assert.EqualError(t, validate.Signup("Priya", "priya@example.com", "secret1", "secret2"), "passwords do not match")
	assert.EqualError(t, validate.Signup("Priya", "priya@example.com", "abc", "abc"), "password must be at least 6 characters")
}

func TestProductForm(t *testing.T) {
	ok := domain.Product{Name: "Fresh Apples", Category: "fruits-vegetables", Price: 120, Quantity: 10, Discount: 10}
	assert.NoError(t, validate.ProductForm(ok))

	bad := ok
	bad.Name = " "
	assert.Error(t, validate.ProductForm(bad))

	bad = ok
	bad.Category = "Fruits & Vegetables"
	assert.Error(t, validate.ProductForm(bad))

	bad = ok
	bad.Price = -1
	assert.Error(t, validate.ProductForm(bad))

	bad = ok
	bad.Quantity = -3
	assert.Error(t, validate.ProductForm(bad))

	bad = ok
	bad.Discount = 101
	assert.Error(t, validate.ProductForm(bad))
}

func TestFieldValidators(t *testing.T) {
	email, ok := validate.Email("  Priya@Example.com ")
	assert.True(t, ok)
	assert.Equal(t, "priya@example.com", email)

	_, ok = validate.Phone("+91 98765 43210")
	assert.True(t, ok)
	_, ok = validate.Phone("call me")
	assert.False(t, ok)

	assert.True(t, validate.Rating(5))
	assert.False(t, validate.Rating(0))
	assert.False(t, validate.Rating(6))

	c, ok := validate.Corner("")
	assert.True(t, ok)
	assert.Equal(t, domain.CornerMain, c)
	c, ok = validate.Corner("Liquor")
	assert.True(t, ok)
	assert.Equal(t, domain.CornerLiquor, c)
	_, ok = validate.Corner("wine")
	assert.False(t, ok)

	pm, ok := validate.PaymentMethod("COD")
	assert.True(t, ok)
	assert.Equal(t, "cod", pm)
	_, ok = validate.PaymentMethod("cheque")
	assert.False(t, ok)

	_, ok = validate.Status("Out for delivery")
	assert.True(t, ok)
	_, ok = validate.Status("   ")
	assert.False(t, ok)

	_, ok = validate.Q("<script>")
	assert.False(t, ok)
	q, ok := validate.Q(" apples ")
	assert.True(t, ok)
	assert.Equal(t, "apples", q)

	assert.Equal(t, 1, validate.Qty("x"))
	assert.Equal(t, 50, validate.Qty("500"))

	id, ok := validate.ID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	_, ok = validate.ID("-1")
	assert.False(t, ok)
}

func TestAddress(t *testing.T) {
	a := domain.Address{Label: "Home", Street: "12 Hill Road", Area: "Bandra", City: "Mumbai", Pincode: "400050"}
	assert.NoError(t, validate.Address(a))

	bad := a
	bad.Pincode = "4000"
	assert.EqualError(t, validate.Address(bad), "enter a valid 6 digit pincode")

	bad = a
	bad.City = ""
	assert.Error(t, validate.Address(bad))

	bad = a
	bad.Phone = "phone"
	assert.Error(t, validate.Address(bad))
}

func TestProductPatch(t *testing.T) {
	neg := -1.0
	empty := ""
	qty := 4
	assert.NoError(t, validate.ProductPatch(domain.ProductPatch{}))
	assert.NoError(t, validate.ProductPatch(domain.ProductPatch{Quantity: &qty}))
	assert.Error(t, validate.ProductPatch(domain.ProductPatch{Price: &neg}))
	assert.Error(t, validate.ProductPatch(domain.ProductPatch{Name: &empty}))
}

func TestImage(t *testing.T) {
	assert.NoError(t, validate.Image(""))
	assert.NoError(t, validate.Image("https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?w=300"))
	assert.NoError(t, validate.Image("/static/apples.png"))
	assert.Error(t, validate.Image("javascript:alert(1)"))
	assert.Error(t, validate.Image("//evil.example/x.png"))

	small := base64.StdEncoding.EncodeToString([]byte("\x89PNG fake image bytes"))
	assert.NoError(t, validate.Image("data:image/png;base64,"+small))
	assert.NoError(t, validate.Image("data:image/webp;base64,"+small))
	assert.EqualError(t, validate.Image("data:image/gif;base64,"+small), "please upload a valid image file (JPG, PNG, or WEBP)")
	assert.Error(t, validate.Image("data:image/png;base64,***"))

	big := base64.StdEncoding.EncodeToString(make([]byte, validate.MaxImageBytes+1))
	assert.EqualError(t, validate.Image("data:image/jpeg;base64,"+big), "image size should be less than 5MB")

	p := domain.Product{Name: "Apples", Category: "fruits-vegetables", Price: 10, Image: "data:image/gif;base64," + small}
	assert.Error(t, validate.ProductForm(p))
	img := "ftp://example.com/a.png"
	assert.Error(t, validate.ProductPatch(domain.ProductPatch{Image: &img}))
}

func TestQTruncatesByRune(t *testing.T) {
	q, ok := validate.Q(strings.Repeat("é", 60))
	assert.True(t, ok)
	assert.Equal(t, 50, len([]rune(q)))
}
