package bridge

import (
	"context"
	"slices"
	"strings"

	"anynow/internal/domain"
)

func testimonialID(t domain.Testimonial) int64 { return t.ID }

// Testimonials returns every testimonial, newest first.
func (b *Bridge) Testimonials() []domain.Testimonial {
	b.mu.RLock()
	out := slices.Clone(b.testimonials)
	b.mu.RUnlock()
	slices.SortStableFunc(out, func(x, y domain.Testimonial) int { return y.CreatedAt.Compare(x.CreatedAt) })
	return out
}

func (b *Bridge) ApprovedTestimonials() []domain.Testimonial {
	out := []domain.Testimonial{}
	for _, t := range b.Testimonials() {
		if t.IsApproved {
			out = append(out, t)
		}
	}
	return out
}

// SearchTestimonials matches q against customer name, email and product name.
func (b *Bridge) SearchTestimonials(q string) []domain.Testimonial {
	q = strings.ToLower(strings.TrimSpace(q))
	all := b.Testimonials()
	if q == "" {
		return all
	}
	out := []domain.Testimonial{}
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.CustomerName), q) ||
			strings.Contains(strings.ToLower(t.CustomerEmail), q) ||
			strings.Contains(strings.ToLower(t.ProductName), q) {
			out = append(out, t)
		}
	}
	return out
}

// CreateTestimonial stores a new, unapproved testimonial.
func (b *Bridge) CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	t.ID = nextID(b.testimonials, testimonialID)
	t.IsApproved = false
	t.CreatedAt = now
	t.UpdatedAt = now

	next := append([]domain.Testimonial{t}, b.testimonials...)
	if err := persist(ctx, b.store, KeyTestimonials, next); err != nil {
		return domain.Testimonial{}, err
	}
	b.testimonials = next
	return t, nil
}

func (b *Bridge) ToggleTestimonialApproval(ctx context.Context, id int64) (domain.Testimonial, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexByID(b.testimonials, id, testimonialID)
	if i < 0 {
		return domain.Testimonial{}, ErrNotFound
	}
	t := b.testimonials[i]
	t.IsApproved = !t.IsApproved
	t.UpdatedAt = b.now()

	next := slices.Clone(b.testimonials)
	next[i] = t
	if err := persist(ctx, b.store, KeyTestimonials, next); err != nil {
		return domain.Testimonial{}, err
	}
	b.testimonials = next
	return t, nil
}

func (b *Bridge) DeleteTestimonial(ctx context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexByID(b.testimonials, id, testimonialID)
	if i < 0 {
		return ErrNotFound
	}
	next := slices.Delete(slices.Clone(b.testimonials), i, i+1)
	if err := persist(ctx, b.store, KeyTestimonials, next); err != nil {
		return err
	}
	b.testimonials = next
	return nil
}
