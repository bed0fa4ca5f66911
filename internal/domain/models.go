package domain

import "time"

// Corner names a product collection. The main catalog and each corner live
// under their own storage key.
type Corner string

const (
	CornerMain   Corner = "main"
	CornerPan    Corner = "pan"
	CornerLiquor Corner = "liquor"
)

var Corners = []Corner{CornerMain, CornerPan, CornerLiquor}

type Category struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

type Product struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Category    string    `json:"category" yaml:"category"` // category slug
	Price       float64   `json:"price" yaml:"price"`
	Quantity    int       `json:"quantity" yaml:"quantity"`
	Unit        string    `json:"unit" yaml:"unit"`
	Image       string    `json:"image" yaml:"image"`
	Description string    `json:"description" yaml:"description"`
	Discount    float64   `json:"discount" yaml:"discount"` // percent
	InStock     bool      `json:"inStock" yaml:"inStock"`
	Featured    bool      `json:"featured" yaml:"featured"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" yaml:"-"`
}

// ProductPatch carries the editable product fields; nil means unchanged.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Unit        *string  `json:"unit"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Discount    *float64 `json:"discount"`
	Featured    *bool    `json:"featured"`
}

// WebsiteData is the storefront view of the catalog.
type WebsiteData struct {
	Products   map[string][]Product `json:"products"`
	Categories []CategoryRef        `json:"categories"`
}

type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Location struct {
	City string `json:"city"`
	Area string `json:"area"`
}

// Availability is the stock label shown on a product page.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
