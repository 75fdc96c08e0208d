package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/menstyle/storefront/internal/domain"
	pkgkafka "github.com/menstyle/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
var (
	TopicOrderCreated = pkgkafka.Topic("order", "created")
	TopicStockUpdated = pkgkafka.Topic("stock", "updated")
	TopicCartCleared  = pkgkafka.Topic("cart", "cleared")
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
	AggregateTypeCart    = "cart"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// OrderCreatedData is the payload for an order.created event (full order snapshot).
type OrderCreatedData struct {
	ID            string            `json:"id"`
	CustomerName  string            `json:"customer_name"`
	Items         []domain.LineItem `json:"items"`
	Total         int64             `json:"total"`
	OrderType     string            `json:"order_type"`
	PaymentMethod string            `json:"payment_method,omitempty"`
}

// StockUpdatedData is the payload for a stock.updated event.
type StockUpdatedData struct {
	ProductID string `json:"product_id"`
	OldStock  int    `json:"old_stock"`
	NewStock  int    `json:"new_stock"`
	OrderID   string `json:"order_id,omitempty"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event with the full order snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		Items:         order.Items,
		Total:         order.Total,
		OrderType:     order.Type,
		PaymentMethod: order.PaymentMethod,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("order_type", order.Type),
	)

	return nil
}

// PublishStockUpdated publishes a stock.updated event after a decrement.
func (p *Producer) PublishStockUpdated(ctx context.Context, productID string, oldStock, newStock int, orderID string) error {
	data := StockUpdatedData{
		ProductID: productID,
		OldStock:  oldStock,
		NewStock:  newStock,
		OrderID:   orderID,
	}

	event, err := pkgkafka.NewEvent(TopicStockUpdated, productID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create stock.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicStockUpdated, event); err != nil {
		return fmt.Errorf("publish stock.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published stock.updated event",
		slog.String("product_id", productID),
		slog.Int("new_stock", newStock),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}
