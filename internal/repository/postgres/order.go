package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/menstyle/storefront/internal/domain"
	"github.com/menstyle/storefront/internal/repository"
	"github.com/menstyle/storefront/pkg/database"
	apperrors "github.com/menstyle/storefront/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
// Line items are stored as a JSONB snapshot on the order row, matching the
// immutable products payload of the orders collection.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = "id, customer_name, customer_phone, customer_address, products, total, order_type, payment_method, created_at"

// Create inserts a new order with its line-item snapshot.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, customer_name, customer_phone, customer_address, products, total, order_type, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		o.ID,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerAddress,
		itemsJSON,
		o.Total,
		o.Type,
		o.PaymentMethod,
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o         domain.Order
		itemsJSON []byte
	)

	if err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerAddress,
		&itemsJSON,
		&o.Total,
		&o.Type,
		&o.PaymentMethod,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 && string(itemsJSON) != "null" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	} else {
		o.Items = []domain.LineItem{}
	}

	return &o, nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	return o, nil
}

// List returns orders newest first with the total count.
func (r *OrderRepository) List(ctx context.Context, page, perPage int) ([]domain.Order, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, orderColumns)

	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o         domain.Order
			itemsJSON []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.CustomerName,
			&o.CustomerPhone,
			&o.CustomerAddress,
			&itemsJSON,
			&o.Total,
			&o.Type,
			&o.PaymentMethod,
			&o.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if len(itemsJSON) > 0 && string(itemsJSON) != "null" {
			if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
				return nil, 0, fmt.Errorf("unmarshal order items: %w", err)
			}
		} else {
			o.Items = []domain.LineItem{}
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, totalCount, nil
}

// Recent returns the most recent orders up to limit.
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 5
	}

	orders, _, err := r.List(ctx, 1, limit)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Budget returns revenue aggregates since the given month start.
func (r *OrderRepository) Budget(ctx context.Context, monthStart time.Time) (*repository.BudgetStats, error) {
	summaryQuery := `
		SELECT
			count(*),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(total) FILTER (WHERE created_at >= $1), 0),
			COALESCE(AVG(total), 0)::bigint
		FROM orders`

	stats := &repository.BudgetStats{
		RevenueByType:   make(map[string]int64),
		OrdersByPayment: make(map[string]int),
	}

	err := r.pool.QueryRow(ctx, summaryQuery, monthStart).Scan(
		&stats.OrderCount,
		&stats.TotalRevenue,
		&stats.MonthRevenue,
		&stats.AverageOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("order budget summary: %w", err)
	}

	typeQuery := `
		SELECT order_type, COALESCE(SUM(total), 0)
		FROM orders
		GROUP BY order_type`

	rows, err := r.pool.Query(ctx, typeQuery)
	if err != nil {
		return nil, fmt.Errorf("revenue by order type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderType string
			revenue   int64
		)
		if err := rows.Scan(&orderType, &revenue); err != nil {
			return nil, fmt.Errorf("scan revenue by type: %w", err)
		}
		stats.RevenueByType[orderType] = revenue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue by type: %w", err)
	}

	paymentQuery := `
		SELECT payment_method, count(*)
		FROM orders
		WHERE payment_method <> ''
		GROUP BY payment_method`

	payRows, err := r.pool.Query(ctx, paymentQuery)
	if err != nil {
		return nil, fmt.Errorf("orders by payment method: %w", err)
	}
	defer payRows.Close()

	for payRows.Next() {
		var (
			method string
			count  int
		)
		if err := payRows.Scan(&method, &count); err != nil {
			return nil, fmt.Errorf("scan orders by payment: %w", err)
		}
		stats.OrdersByPayment[method] = count
	}
	if err := payRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders by payment: %w", err)
	}

	return stats, nil
}
