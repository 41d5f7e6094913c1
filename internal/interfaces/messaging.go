package interfaces

import (
	"context"
	"time"

	"github.com/ordersys/tableside/internal/domain"
)

// OrderEvent is published to the order_events fanout exchange when an order
// is accepted and again when its receipt has been printed.
type OrderEvent struct {
	Event       string            `json:"event"`
	OrderID     int64             `json:"order_id"`
	Timestamp   int64             `json:"timestamp"`
	TableNumber int               `json:"table_number"`
	Items       []domain.LineItem `json:"items"`
	TotalPrice  float64           `json:"total_price"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

const (
	EventOrderCreated = "order_created"
	EventOrderPrinted = "order_printed"
)

// MessagePublisher pushes order lifecycle events to subscribers (kitchen
// displays, dashboards). Publishing is best effort everywhere it is used:
// a broker outage never blocks intake or dispatch.
type MessagePublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}
