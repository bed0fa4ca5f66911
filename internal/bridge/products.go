package bridge

import (
	"context"
	"slices"
	"strings"

	"anynow/internal/domain"
)

func productID(p domain.Product) int64 { return p.ID }

func (b *Bridge) Products(corner domain.Corner) []domain.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.products[corner])
}

func (b *Bridge) Product(corner domain.Corner, id int64) (domain.Product, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	list := b.products[corner]
	i := indexByID(list, id, productID)
	if i < 0 {
		return domain.Product{}, ErrNotFound
	}
	return list[i], nil
}

func (b *Bridge) ProductsByCategory(slug string) []domain.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range b.products[domain.CornerMain] {
		if p.Category == slug {
			out = append(out, p)
		}
	}
	return out
}

// FeaturedProducts returns featured products from every corner.
func (b *Bridge) FeaturedProducts() []domain.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []domain.Product{}
	for _, c := range domain.Corners {
		for _, p := range b.products[c] {
			if p.Featured {
				out = append(out, p)
			}
		}
	}
	return out
}

// SearchProducts matches q against name and description of the main catalog,
// optionally restricted to one category.
func (b *Bridge) SearchProducts(q, slug string) []domain.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range b.products[domain.CornerMain] {
		if slug != "" && p.Category != slug {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (b *Bridge) CreateProduct(ctx context.Context, corner domain.Corner, p domain.Product) (domain.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.products[corner]
	p.ID = nextID(list, productID)
	p.InStock = p.Quantity > 0
	p.UpdatedAt = b.now()

	next := append(slices.Clone(list), p)
	if err := persist(ctx, b.store, ProductKey(corner), next); err != nil {
		return domain.Product{}, err
	}
	b.products[corner] = next
	return p, nil
}

// UpdateProduct merges patch into the stored product; inStock follows quantity.
func (b *Bridge) UpdateProduct(ctx context.Context, corner domain.Corner, id int64, patch domain.ProductPatch) (domain.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.products[corner]
	i := indexByID(list, id, productID)
	if i < 0 {
		return domain.Product{}, ErrNotFound
	}
	p := applyPatch(list[i], patch)
	p.InStock = p.Quantity > 0
	p.UpdatedAt = b.now()

	next := slices.Clone(list)
	next[i] = p
	if err := persist(ctx, b.store, ProductKey(corner), next); err != nil {
		return domain.Product{}, err
	}
	b.products[corner] = next
	return p, nil
}

func applyPatch(p domain.Product, patch domain.ProductPatch) domain.Product {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Discount != nil {
		p.Discount = *patch.Discount
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	return p
}

func (b *Bridge) DeleteProduct(ctx context.Context, corner domain.Corner, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.products[corner]
	i := indexByID(list, id, productID)
	if i < 0 {
		return ErrNotFound
	}
	next := slices.Delete(slices.Clone(list), i, i+1)
	if err := persist(ctx, b.store, ProductKey(corner), next); err != nil {
		return err
	}
	b.products[corner] = next
	return nil
}
