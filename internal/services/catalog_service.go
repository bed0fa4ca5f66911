package services

import (
	"sync"

	"anynow/internal/bridge"
	"anynow/internal/domain"
)

// CatalogService serves the storefront from a cached website view that is
// rebuilt whenever the watcher reports a catalog change.
type CatalogService struct {
	Bridge *bridge.Bridge

	mu   sync.RWMutex
	site domain.WebsiteData
}

func NewCatalogService(b *bridge.Bridge) *CatalogService {
	s := &CatalogService{Bridge: b}
	s.Refresh()
	return s
}

// Refresh rebuilds the cached website view from the bridge.
func (s *CatalogService) Refresh() domain.WebsiteData {
	site := s.Bridge.WebsiteData()
	s.mu.Lock()
	s.site = site
	s.mu.Unlock()
	return site
}

func (s *CatalogService) Website() domain.WebsiteData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

func (s *CatalogService) Categories() []domain.CategoryRef {
	return s.Website().Categories
}

// ProductsByCategory reads from the cached view; unknown slugs give an empty list.
func (s *CatalogService) ProductsByCategory(slug string) []domain.Product {
	if list, ok := s.Website().Products[slug]; ok {
		return list
	}
	return []domain.Product{}
}

func (s *CatalogService) Search(q, category string) []domain.Product {
	return s.Bridge.SearchProducts(q, category)
}

func (s *CatalogService) Featured() []domain.Product {
	return s.Bridge.FeaturedProducts()
}

func (s *CatalogService) Corner(c domain.Corner) []domain.Product {
	return s.Bridge.Products(c)
}

type ProductView struct {
	domain.Product
	Availability domain.Availability `json:"availability"`
}

func (s *CatalogService) Product(c domain.Corner, id int64) (ProductView, error) {
	p, err := s.Bridge.Product(c, id)
	if err != nil {
		return ProductView{}, err
	}
	return ProductView{Product: p, Availability: CheckAvailability(p.Quantity)}, nil
}

// CheckAvailability converts a quantity to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func CheckAvailability(qty int) domain.Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}
}

// HomeView is everything the storefront landing page renders.
type HomeView struct {
	Categories   []domain.CategoryRef `json:"categories"`
	Featured     []domain.Product     `json:"featured"`
	Pan          []domain.Product     `json:"pan"`
	Liquor       []domain.Product     `json:"liquor"`
	Testimonials []domain.Testimonial `json:"testimonials"`
}

func (s *CatalogService) Home() HomeView {
	return HomeView{
		Categories:   s.Categories(),
		Featured:     s.Featured(),
		Pan:          s.Corner(domain.CornerPan),
		Liquor:       s.Corner(domain.CornerLiquor),
		Testimonials: s.Bridge.ApprovedTestimonials(),
	}
}
