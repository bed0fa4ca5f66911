package services

import (
	"context"
	"strings"

	"anynow/internal/bridge"
	"anynow/internal/domain"
	"anynow/internal/validate"
)

type TestimonialForm struct {
	Name        string `json:"customerName" form:"customerName"`
	Email       string `json:"customerEmail" form:"customerEmail"`
	Phone       string `json:"customerPhone" form:"customerPhone"`
	ProductName string `json:"productName" form:"productName"`
	Rating      int    `json:"rating" form:"rating"`
	Text        string `json:"testimonial" form:"testimonial"`
}

type TestimonialService struct {
	Bridge *bridge.Bridge
}

func NewTestimonialService(b *bridge.Bridge) *TestimonialService {
	return &TestimonialService{Bridge: b}
}

// Submit stores a customer testimonial for moderation.
func (s *TestimonialService) Submit(ctx context.Context, f TestimonialForm) (domain.Testimonial, error) {
	name, ok := validate.Name(f.Name)
	if !ok {
		return domain.Testimonial{}, invalid("enter your name")
	}
	text := strings.TrimSpace(f.Text)
	if text == "" || len(text) > 1000 {
		return domain.Testimonial{}, invalid("write a testimonial of up to 1000 characters")
	}
	if !validate.Rating(f.Rating) {
		return domain.Testimonial{}, invalid("rating must be between 1 and 5")
	}
	email := ""
	if strings.TrimSpace(f.Email) != "" {
		if email, ok = validate.Email(f.Email); !ok {
			return domain.Testimonial{}, invalid("enter a valid email")
		}
	}
	return s.Bridge.CreateTestimonial(ctx, domain.Testimonial{
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: strings.TrimSpace(f.Phone),
		ProductName:   strings.TrimSpace(f.ProductName),
		Rating:        f.Rating,
		Text:          text,
	})
}

// Published returns the testimonials shown on the storefront.
func (s *TestimonialService) Published() []domain.Testimonial {
	return s.Bridge.ApprovedTestimonials()
}
