package validate

import (
	"encoding/base64"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"anynow/internal/domain"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone  = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	reQ      = regexp.MustCompile(`^[\p{L}0-9 _'&.,-]{1,50}$`)
	reSlug   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	reNonAln = regexp.MustCompile(`[^a-z0-9]+`)
	rePin    = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	reImgURI = regexp.MustCompile(`^data:image/(jpeg|jpg|png|webp);base64,`)
)

// MaxImageBytes caps an uploaded product image after base64 decoding.
const MaxImageBytes = 5 << 20

var (
	errImageType = errors.New("please upload a valid image file (JPG, PNG, or WEBP)")
	errImageSize = errors.New("image size should be less than 5MB")
	errImageURL  = errors.New("image must be a web address or an uploaded image")
)

// Image accepts an empty value, an http(s) or site-relative URL, or a
// base64 data URL of a JPEG, PNG or WEBP no larger than MaxImageBytes.
func Image(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "data:") {
		m := reImgURI.FindString(s)
		if m == "" {
			return errImageType
		}
		payload := s[len(m):]
		if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+2 {
			return errImageSize
		}
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return errImageType
		}
		if len(b) > MaxImageBytes {
			return errImageSize
		}
		return nil
	}
	if len(s) > 2048 {
		return errImageURL
	}
	u, err := url.Parse(s)
	if err != nil {
		return errImageURL
	}
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return nil
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errImageURL
	}
	return nil
}

// Slug lowercases name and collapses every run of other characters into "-".
// "Fruits & Vegetables" becomes "fruits-vegetables".
func Slug(name string) string {
	s := reNonAln.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func IsSlug(s string) bool { return reSlug.MatchString(s) }

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return strings.ToLower(s), reEmail.MatchString(s)
}

// Name validates a displayable person or product name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Password enforces the signup minimum and the bcrypt input ceiling.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 50 {
		s = strings.TrimSpace(string(r[:50]))
	}
	return s, reQ.MatchString(s)
}

// MaxQty is the most units of one product a cart line can hold.
const MaxQty = 50

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > MaxQty {
		return MaxQty
	}
	return n
}

// ID parses a positive numeric identifier.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil && n > 0
}

func Rating(n int) bool { return n >= 1 && n <= 5 }

// Corner maps "", "main", "pan", "liquor" to a Corner.
func Corner(s string) (domain.Corner, bool) {
	switch c := domain.Corner(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return domain.CornerMain, true
	case domain.CornerMain, domain.CornerPan, domain.CornerLiquor:
		return c, true
	}
	return "", false
}

func PaymentMethod(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "upi", "card", "cod":
		return s, true
	}
	return "", false
}

// Status accepts any non-empty label; order statuses are free text.
func Status(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 30
}

// ProductForm checks the admin product form and returns the first problem.
func ProductForm(p domain.Product) error {
	if _, ok := Name(p.Name); !ok {
		return errors.New("product name is required")
	}
	if !IsSlug(p.Category) {
		return errors.New("category is required")
	}
	if p.Price < 0 {
		return errors.New("price must not be negative")
	}
	if p.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	if p.Discount < 0 || p.Discount > 100 {
		return errors.New("discount must be between 0 and 100")
	}
	return Image(p.Image)
}

// Signup mirrors the storefront signup form checks, in order.
func Signup(name, email, password, confirm string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" || confirm == "" {
		return errors.New("please fill in all fields")
	}
	if _, ok := Name(name); !ok {
		return errors.New("name is too long")
	}
	if _, ok := Email(email); !ok {
		return errors.New("enter a valid email")
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	if !Password(password) {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// Address checks an address book entry.
func Address(a domain.Address) error {
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.City) == "" {
		return errors.New("street and city are required")
	}
	if len(a.Street) > 200 || len(a.Area) > 100 || len(a.City) > 60 || len(a.Label) > 30 {
		return errors.New("address is too long")
	}
	if !rePin.MatchString(strings.TrimSpace(a.Pincode)) {
		return errors.New("enter a valid 6 digit pincode")
	}
	if a.Phone != "" {
		if _, ok := Phone(a.Phone); !ok {
			return errors.New("enter a valid phone number")
		}
	}
	return nil
}

// ProductPatch checks only the fields an admin edit actually sets.
func ProductPatch(p domain.ProductPatch) error {
	if p.Name != nil {
		if _, ok := Name(*p.Name); !ok {
			return errors.New("product name is required")
		}
	}
	if p.Category != nil && !IsSlug(*p.Category) {
		return errors.New("category is required")
	}
	if p.Price != nil && *p.Price < 0 {
		return errors.New("price must not be negative")
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	if p.Discount != nil && (*p.Discount < 0 || *p.Discount > 100) {
		return errors.New("discount must be between 0 and 100")
	}
	if p.Image != nil {
		return Image(*p.Image)
	}
	return nil
}
