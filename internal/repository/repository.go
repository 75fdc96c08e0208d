package repository

import (
	"context"
	"time"

	"github.com/menstyle/storefront/internal/domain"
)

// ProductFilter defines filter criteria for listing catalog products.
type ProductFilter struct {
	Category    string
	Size        string
	Search      string
	InStockOnly bool
	Page        int
	PerPage     int
}

// ProductStats aggregates catalog figures for the dashboard.
type ProductStats struct {
	Count      int   `json:"count"`
	TotalUnits int64 `json:"total_units"`
	LowStock   int   `json:"low_stock"`
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// List returns products matching the filter, newest first, with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Featured returns the most recently added in-stock products.
	Featured(ctx context.Context, limit int) ([]domain.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *domain.Product) error

	// Update replaces the mutable fields of an existing product.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product by id.
	Delete(ctx context.Context, id string) error

	// UpdateStock writes an absolute stock figure for a product.
	UpdateStock(ctx context.Context, id string, stock int) error

	// UpdatePrice writes a new price (in cents) for a product.
	UpdatePrice(ctx context.Context, id string, price int64) error

	// Categories returns the distinct category names in the catalog.
	Categories(ctx context.Context) ([]string, error)

	// Stats returns aggregate catalog figures for reporting.
	Stats(ctx context.Context) (*ProductStats, error)
}

// BudgetStats aggregates revenue figures for the budget report.
type BudgetStats struct {
	TotalRevenue    int64            `json:"total_revenue"`
	MonthRevenue    int64            `json:"month_revenue"`
	RevenueByType   map[string]int64 `json:"revenue_by_type"`
	AverageOrder    int64            `json:"average_order"`
	OrdersByPayment map[string]int   `json:"orders_by_payment"`
	OrderCount      int              `json:"order_count"`
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and its line items atomically.
	Create(ctx context.Context, o *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders newest first with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Order, int, error)

	// Recent returns the most recent orders up to limit.
	Recent(ctx context.Context, limit int) ([]domain.Order, error)

	// Budget returns revenue aggregates since the given month start.
	Budget(ctx context.Context, monthStart time.Time) (*BudgetStats, error)
}

// AdminUserRepository looks up elevated-privilege users.
type AdminUserRepository interface {
	// IsAdmin reports whether the given user id has an admin row.
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// CartRepository defines the interface for session cart persistence.
type CartRepository interface {
	// Get retrieves the cart for a session id.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a session id.
	Delete(ctx context.Context, sessionID string) error
}

// DraftRepository defines the interface for point-of-sale draft persistence.
type DraftRepository interface {
	// Get retrieves the draft for a register id.
	Get(ctx context.Context, registerID string) (*domain.SaleDraft, error)

	// Save persists a draft, overwriting any existing draft for the register.
	Save(ctx context.Context, draft *domain.SaleDraft) error

	// Delete removes the draft for a register id.
	Delete(ctx context.Context, registerID string) error
}
