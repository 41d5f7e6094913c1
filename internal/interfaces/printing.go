package interfaces

import (
	"context"

	"github.com/ordersys/tableside/internal/domain"
)

// PrinterEndpoint wraps one physical or simulated print device.
//
// PrintReceipt renders and sends a receipt for the given items and issues a
// cut. It is not idempotent: calling it twice prints twice, so callers must
// guarantee at most one successful call per (order, endpoint) pair. An empty
// item set is a no-op success. Failures are reported as *domain.PrintError;
// the call never panics.
//
// IsAvailable performs (or reuses a cached result of) a liveness probe.
// Connectivity failures report false, never an error.
type PrinterEndpoint interface {
	Name() string
	IsAvailable() bool
	PrintReceipt(ctx context.Context, tableNumber int, items []domain.LineItem, comment string) error
}
