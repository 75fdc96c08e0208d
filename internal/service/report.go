package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/menstyle/storefront/internal/domain"
	"github.com/menstyle/storefront/internal/repository"
)

const recentOrdersLimit = 5

// DashboardReport aggregates the figures shown on the admin landing page.
type DashboardReport struct {
	Products     *repository.ProductStats `json:"products"`
	OrderCount   int                      `json:"order_count"`
	TotalRevenue int64                    `json:"total_revenue"`
	MonthRevenue int64                    `json:"month_revenue"`
	RecentOrders []domain.Order           `json:"recent_orders"`
}

// BudgetReport is the revenue breakdown shown on the admin budget page.
type BudgetReport struct {
	*repository.BudgetStats
	MonthStart time.Time `json:"month_start"`
}

// ReportService computes read-only aggregates for the admin area.
type ReportService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	logger   *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(products repository.ProductRepository, orders repository.OrderRepository, logger *slog.Logger) *ReportService {
	return &ReportService{
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// Dashboard returns catalog stats, revenue totals, and the latest orders.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardReport, error) {
	stats, err := s.products.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	budget, err := s.orders.Budget(ctx, monthStart(time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}

	recent, err := s.orders.Recent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	return &DashboardReport{
		Products:     stats,
		OrderCount:   budget.OrderCount,
		TotalRevenue: budget.TotalRevenue,
		MonthRevenue: budget.MonthRevenue,
		RecentOrders: recent,
	}, nil
}

// Budget returns the revenue breakdown for the budget page. Month figures are
// measured from the first day of the current month, UTC.
func (s *ReportService) Budget(ctx context.Context) (*BudgetReport, error) {
	start := monthStart(time.Now().UTC())

	stats, err := s.orders.Budget(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("budget stats: %w", err)
	}

	return &BudgetReport{
		BudgetStats: stats,
		MonthStart:  start,
	}, nil
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
