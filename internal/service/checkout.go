package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/menstyle/storefront/internal/domain"
	"github.com/menstyle/storefront/internal/repository"
	apperrors "github.com/menstyle/storefront/pkg/errors"
	"github.com/menstyle/storefront/pkg/validator"
)

// CheckoutInput holds the customer-entered fields for an online checkout.
type CheckoutInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// CheckoutResult is the outcome of a successful checkout: the persisted order
// and the messaging hand-off URL the customer is redirected to.
type CheckoutResult struct {
	Order      *domain.Order `json:"order"`
	HandoffURL string        `json:"handoff_url"`
}

// OrderEventPublisher is the subset of the event producer the checkout and
// point-of-sale services use.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

// CheckoutService turns cart contents plus customer fields into a persisted
// order and a WhatsApp hand-off message.
type CheckoutService struct {
	carts     repository.CartRepository
	orders    repository.OrderRepository
	producer  OrderEventPublisher
	logger    *slog.Logger
	recipient string
}

// NewCheckoutService creates a new checkout service. recipient is the phone
// number (country code included, digits only) the hand-off message is sent to.
func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	producer OrderEventPublisher,
	logger *slog.Logger,
	recipient string,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		producer:  producer,
		logger:    logger,
		recipient: recipient,
	}
}

// Submit orchestrates an online checkout: validate fields, snapshot the cart
// into an order, persist it, clear the cart, and build the hand-off URL. This
// is an at-most-one-attempt operation: a persistence failure leaves the cart
// intact and is surfaced to the caller, who decides whether to resubmit.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, input CheckoutInput) (*CheckoutResult, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart for checkout: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	order := &domain.Order{
		ID:              uuid.New().String(),
		CustomerName:    input.Name,
		CustomerPhone:   input.Phone,
		CustomerAddress: input.Address,
		Items:           cart.Snapshot(),
		Total:           cart.Total(),
		Type:            domain.OrderTypeOnline,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	// The order is already written; a failed cart cleanup must not fail the
	// checkout. The cart expires with its TTL either way.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	message := FormatHandoffMessage(input, cart)

	s.logger.InfoContext(ctx, "online order created",
		slog.String("order_id", order.ID),
		slog.Int64("total", order.Total),
		slog.Int("items", len(order.Items)),
	)

	return &CheckoutResult{
		Order:      order,
		HandoffURL: s.HandoffURL(message),
	}, nil
}

// FormatHandoffMessage renders the plain-text order summary sent through the
// messaging channel: customer block, one block per line item with subtotal,
// then the grand total. Pure and side-effect free.
func FormatHandoffMessage(input CheckoutInput, cart *domain.Cart) string {
	var b strings.Builder

	b.WriteString("🛒 *Novo Pedido - MenStyle*\n\n")
	b.WriteString(fmt.Sprintf("👤 *Cliente:* %s\n", input.Name))
	b.WriteString(fmt.Sprintf("📱 *Telefone:* %s\n", input.Phone))
	b.WriteString(fmt.Sprintf("📍 *Endereço:* %s\n\n", input.Address))
	b.WriteString("📦 *Produtos:*\n")

	for i := range cart.Items {
		item := &cart.Items[i]
		b.WriteString(fmt.Sprintf("• %s (%s)\n", item.Name, item.Size))
		b.WriteString(fmt.Sprintf("  Quantidade: %d\n", item.Quantity))
		b.WriteString(fmt.Sprintf("  Preço unitário: %s\n", domain.FormatBRL(item.UnitPrice)))
		b.WriteString(fmt.Sprintf("  Subtotal: %s\n\n", domain.FormatBRL(item.Subtotal())))
	}

	b.WriteString(fmt.Sprintf("💰 *Total: %s*\n\n", domain.FormatBRL(cart.Total())))
	b.WriteString("Obrigado pela preferência! 🙏")

	return b.String()
}

// HandoffURL builds the wa.me deep link with the percent-encoded message.
func (s *CheckoutService) HandoffURL(message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.recipient, encoded)
}
