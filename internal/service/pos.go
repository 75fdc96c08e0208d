package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/menstyle/storefront/internal/domain"
	"github.com/menstyle/storefront/internal/repository"
	apperrors "github.com/menstyle/storefront/pkg/errors"
	"github.com/menstyle/storefront/pkg/validator"
)

// LocalSaleInput holds the operator-entered fields for a point-of-sale
// submission. Phone is optional; an empty value falls back to the walk-in
// sentinel.
type LocalSaleInput struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash debit_card credit_card pix"`
}

// LocalSaleResult is the outcome of a successful point-of-sale submission.
type LocalSaleResult struct {
	Order *domain.Order `json:"order"`
}

// StockSyncError reports a stock decrement sequence that failed after the
// order was already written. The order id is carried so the operator can
// reconcile the remaining decrements by hand; no automatic compensation is
// attempted.
type StockSyncError struct {
	OrderID string
	Err     error
}

func (e *StockSyncError) Error() string {
	return fmt.Sprintf("order %s created but stock update incomplete: %v", e.OrderID, e.Err)
}

func (e *StockSyncError) Unwrap() error { return e.Err }

// POSEventPublisher is the subset of the event producer the point-of-sale
// service uses.
type POSEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishStockUpdated(ctx context.Context, productID string, oldStock, newStock int, orderID string) error
}

// POSService implements the in-store "local sale" flow: a per-register draft
// with stock-capped lines, and a submission that records the order and
// decrements stock against the catalog.
type POSService struct {
	drafts   repository.DraftRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	producer POSEventPublisher
	logger   *slog.Logger
	draftTTL time.Duration
}

// NewPOSService creates a new point-of-sale service.
func NewPOSService(
	drafts repository.DraftRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	producer POSEventPublisher,
	logger *slog.Logger,
	draftTTL time.Duration,
) *POSService {
	return &POSService{
		drafts:   drafts,
		products: products,
		orders:   orders,
		producer: producer,
		logger:   logger,
		draftTTL: draftTTL,
	}
}

// GetDraft retrieves the draft for a register, returning a new empty draft if
// none exists.
func (s *POSService) GetDraft(ctx context.Context, registerID string) (*domain.SaleDraft, error) {
	if registerID == "" {
		return nil, apperrors.InvalidInput("register id is required")
	}

	draft, err := s.drafts.Get(ctx, registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyDraft(registerID), nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	return draft, nil
}

// AddProduct adds one unit of the product in the given size to the register's
// draft. The product is fetched so the line caches the current stock figure as
// its cap.
func (s *POSService) AddProduct(ctx context.Context, registerID, productID, size string) (*domain.SaleDraft, error) {
	if registerID == "" {
		return nil, apperrors.InvalidInput("register id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product for draft: %w", err)
	}

	draft, err := s.GetDraft(ctx, registerID)
	if err != nil {
		return nil, err
	}

	if err := draft.AddProduct(product, size); err != nil {
		return nil, draftError(err)
	}

	if err := s.touchAndSaveDraft(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product added to sale draft",
		slog.String("register_id", registerID),
		slog.String("product_id", productID),
		slog.String("size", size),
	)

	return draft, nil
}

// UpdateQuantity sets the quantity of the draft line at the given index. A
// quantity of zero or below removes the line; a quantity above the cached
// stock cap is rejected with an error naming the maximum.
func (s *POSService) UpdateQuantity(ctx context.Context, registerID string, index, quantity int) (*domain.SaleDraft, error) {
	if registerID == "" {
		return nil, apperrors.InvalidInput("register id is required")
	}

	draft, err := s.GetDraft(ctx, registerID)
	if err != nil {
		return nil, err
	}

	if err := draft.UpdateQuantity(index, quantity); err != nil {
		return nil, draftError(err)
	}

	if err := s.touchAndSaveDraft(ctx, draft); err != nil {
		return nil, err
	}

	return draft, nil
}

// RemoveLine deletes the draft line at the given index.
func (s *POSService) RemoveLine(ctx context.Context, registerID string, index int) (*domain.SaleDraft, error) {
	if registerID == "" {
		return nil, apperrors.InvalidInput("register id is required")
	}

	draft, err := s.GetDraft(ctx, registerID)
	if err != nil {
		return nil, err
	}

	draft.RemoveLine(index)

	if err := s.touchAndSaveDraft(ctx, draft); err != nil {
		return nil, err
	}

	return draft, nil
}

// ClearDraft discards the register's draft.
func (s *POSService) ClearDraft(ctx context.Context, registerID string) error {
	if registerID == "" {
		return apperrors.InvalidInput("register id is required")
	}

	if err := s.drafts.Delete(ctx, registerID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}

	return nil
}

// Change computes the cash change for a tendered amount against the draft's
// total. Display only; a short payment never blocks submission.
func (s *POSService) Change(ctx context.Context, registerID string, tendered int64) (int64, error) {
	draft, err := s.GetDraft(ctx, registerID)
	if err != nil {
		return 0, err
	}
	return domain.ChangeFor(tendered, draft.Total()), nil
}

// Submit records the local sale. Every line's stock is re-read live first; if
// any line exceeds current stock the whole submission fails, naming the first
// offending product. The guard is not atomic: a concurrent sale between the
// check and the write can still oversell. That race is accepted for the
// single-register use case.
//
// After the order is written, stock is decremented per product by re-reading
// then writing stock-quantity, sequentially. A failure mid-sequence leaves
// earlier decrements in place and returns a StockSyncError carrying the order
// id for manual reconciliation.
func (s *POSService) Submit(ctx context.Context, registerID string, input LocalSaleInput) (*LocalSaleResult, error) {
	if registerID == "" {
		return nil, apperrors.InvalidInput("register id is required")
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	draft, err := s.drafts.Get(ctx, registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("sale has no products")
		}
		return nil, fmt.Errorf("load draft for sale: %w", err)
	}
	if len(draft.Lines) == 0 {
		return nil, apperrors.InvalidInput("sale has no products")
	}

	// Live stock check, line by line. Guards against staleness between page
	// load and submission.
	for i := range draft.Lines {
		line := &draft.Lines[i]
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("re-read stock for %s: %w", line.ProductID, err)
		}
		if product.Stock < line.Quantity {
			return nil, apperrors.InsufficientStock(product.Name, product.Stock, line.Quantity)
		}
	}

	phone := input.CustomerPhone
	if phone == "" {
		phone = domain.LocalSalePhone
	}

	order := &domain.Order{
		ID:              uuid.New().String(),
		CustomerName:    input.CustomerName,
		CustomerPhone:   phone,
		CustomerAddress: domain.LocalSaleAddress,
		Items:           draft.Items(),
		Total:           draft.Total(),
		Type:            domain.OrderTypeLocal,
		PaymentMethod:   input.PaymentMethod,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist local sale: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	// Sequential read-then-write decrement per line. Not a transaction:
	// a failure here leaves some products decremented and others not.
	for i := range draft.Lines {
		line := &draft.Lines[i]

		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return &LocalSaleResult{Order: order}, &StockSyncError{OrderID: order.ID, Err: err}
		}

		newStock := product.Stock - line.Quantity
		if err := s.products.UpdateStock(ctx, line.ProductID, newStock); err != nil {
			return &LocalSaleResult{Order: order}, &StockSyncError{OrderID: order.ID, Err: err}
		}

		if err := s.producer.PublishStockUpdated(ctx, line.ProductID, product.Stock, newStock, order.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish stock.updated event",
				slog.String("product_id", line.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.drafts.Delete(ctx, registerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear draft after sale",
			slog.String("register_id", registerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "local sale recorded",
		slog.String("order_id", order.ID),
		slog.Int64("total", order.Total),
		slog.String("payment_method", order.PaymentMethod),
	)

	return &LocalSaleResult{Order: order}, nil
}

func (s *POSService) touchAndSaveDraft(ctx context.Context, draft *domain.SaleDraft) error {
	now := time.Now().UTC()
	draft.UpdatedAt = now
	draft.ExpiresAt = now.Add(s.draftTTL)

	if err := s.drafts.Save(ctx, draft); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *POSService) newEmptyDraft(registerID string) *domain.SaleDraft {
	now := time.Now().UTC()
	return &domain.SaleDraft{
		RegisterID: registerID,
		Lines:      []domain.SaleLine{},
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.draftTTL),
	}
}

// draftError maps domain draft rejections onto API errors.
func draftError(err error) error {
	var capErr *domain.QuantityCapError
	if errors.As(err, &capErr) {
		return apperrors.InvalidInput(capErr.Error())
	}
	if errors.Is(err, domain.ErrSizeRequired) {
		return apperrors.InvalidInput("size is required")
	}
	return apperrors.InvalidInput(err.Error())
}
