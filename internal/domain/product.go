package domain

import "time"

// LowStockThreshold is the stock level below which a product is flagged on the
// dashboard as needing replenishment.
const LowStockThreshold = 5

// Product represents a catalog item. Products are read-mostly: the storefront
// only reads them, and the point-of-sale path writes back a decremented stock
// after a local sale.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Sizes       []string  `json:"sizes"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InStock reports whether the product has at least one unit available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasSize reports whether the product is offered in the given size.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// IsLowStock reports whether the product is below the replenishment threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}
