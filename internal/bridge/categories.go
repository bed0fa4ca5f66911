package bridge

import (
	"context"
	"slices"
	"strings"

	"anynow/internal/domain"
	applog "anynow/internal/log"
	"anynow/internal/validate"
)

func categoryID(c domain.Category) int64 { return c.ID }

func (b *Bridge) Categories() []domain.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.categories)
}

func (b *Bridge) CategoryBySlug(slug string) (domain.Category, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return domain.Category{}, ErrNotFound
}

// CreateCategory derives the slug from the name when none is given.
// A slug that is already taken is a conflict.
func (b *Bridge) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Slug == "" {
		c.Slug = validate.Slug(c.Name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if slices.ContainsFunc(b.categories, func(x domain.Category) bool { return x.Slug == c.Slug }) {
		return domain.Category{}, ErrConflict
	}
	c.ID = nextID(b.categories, categoryID)
	next := append(slices.Clone(b.categories), c)
	if err := persist(ctx, b.store, KeyCategories, next); err != nil {
		return domain.Category{}, err
	}
	b.categories = next
	return c, nil
}

// UpdateCategory renames a category. Products keep pointing at the old slug
// unless the slug is left unchanged; there is no cascade on rename.
func (b *Bridge) UpdateCategory(ctx context.Context, id int64, name, slug string) (domain.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexByID(b.categories, id, categoryID)
	if i < 0 {
		return domain.Category{}, ErrNotFound
	}
	c := b.categories[i]
	if name = strings.TrimSpace(name); name != "" {
		c.Name = name
	}
	if slug != "" && slug != c.Slug {
		if slices.ContainsFunc(b.categories, func(x domain.Category) bool { return x.Slug == slug }) {
			return domain.Category{}, ErrConflict
		}
		c.Slug = slug
	}
	next := slices.Clone(b.categories)
	next[i] = c
	if err := persist(ctx, b.store, KeyCategories, next); err != nil {
		return domain.Category{}, err
	}
	b.categories = next
	return c, nil
}

// DeleteCategory removes the category and then every main-catalog product
// whose category equals its slug. The two writes are independent; if the
// second fails the category is gone and its products remain.
func (b *Bridge) DeleteCategory(ctx context.Context, id int64) (removed int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexByID(b.categories, id, categoryID)
	if i < 0 {
		return 0, ErrNotFound
	}
	slug := b.categories[i].Slug
	nextCats := slices.Delete(slices.Clone(b.categories), i, i+1)
	if err := persist(ctx, b.store, KeyCategories, nextCats); err != nil {
		return 0, err
	}
	b.categories = nextCats

	prods := b.products[domain.CornerMain]
	nextProds := slices.DeleteFunc(slices.Clone(prods), func(p domain.Product) bool { return p.Category == slug })
	if err := persist(ctx, b.store, KeyProducts, nextProds); err != nil {
		applog.Component("bridge").WithError(err).WithField("slug", slug).Error("bridge.category.cascade.fail")
		return 0, err
	}
	b.products[domain.CornerMain] = nextProds
	return len(prods) - len(nextProds), nil
}
