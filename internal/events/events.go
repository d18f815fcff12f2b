package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderCreatedEventName    = "OrderCreated"
	OrderCreatedEventVersion = 1
	StorefrontProducer       = "storefront"
)

// Envelope wraps every published event with routing metadata.
type Envelope struct {
	EventName    string              `json:"eventName"`
	EventVersion int                 `json:"eventVersion"`
	EventID      string              `json:"eventId"`
	Producer     string              `json:"producer"`
	OccurredAt   time.Time           `json:"occurredAt"`
	Payload      OrderCreatedPayload `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId"`
	Items      []OrderCreatedItem `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	IntentID   string             `json:"intentId"`
}

type OrderCreatedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Publisher emits order lifecycle events to downstream consumers
// (fulfilment, analytics). Publish failures must not fail the order.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, payload OrderCreatedPayload) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(ctx context.Context, payload OrderCreatedPayload) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
