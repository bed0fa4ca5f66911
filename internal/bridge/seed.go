package bridge

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"anynow/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the data a fresh store starts with.
type Seed struct {
	Categories   []domain.Category                  `yaml:"categories"`
	Products     map[domain.Corner][]domain.Product `yaml:"products"`
	Orders       []domain.Order                     `yaml:"orders"`
	Testimonials []domain.Testimonial               `yaml:"testimonials"`
}

func ParseSeed(b []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if s.Products == nil {
		s.Products = map[domain.Corner][]domain.Product{}
	}
	return s, nil
}

// DefaultSeed returns the embedded demo catalog.
func DefaultSeed() Seed {
	s, err := ParseSeed(seedYAML)
	if err != nil {
		panic(err)
	}
	return s
}
