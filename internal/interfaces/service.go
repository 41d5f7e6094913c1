package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/ordersys/tableside/internal/domain"
)

// Commands accepted by the intake service.
type SubmitOrderCommand struct {
	TableNumber int
	Items       []domain.LineItem
	Comment     string
	Timestamp   int64
	UserAgent   string
	User        *domain.UserInfo
}

// OrderService is the external-facing boundary of the intake and dispatch
// subsystem. Submit is fire-and-forget with respect to printing: the caller
// gets no synchronous confirmation of delivery, only validation errors.
type OrderService interface {
	Submit(ctx context.Context, cmd SubmitOrderCommand) (*domain.Order, error)
	ListPending(category domain.Category) []domain.Order
	Complete(timestamp int64) bool
	QueueStatus() QueueStatus

	Orders(ctx context.Context, tableNumber, limit int) ([]*domain.Order, error)
	OrderDetails(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	SalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error)
	PopularItems(ctx context.Context, limit int) ([]*PopularItem, error)
	ExportCSV(ctx context.Context, w io.Writer, from, to *time.Time) error
}

// QueueStatus is the operational snapshot exposed to the dashboard.
type QueueStatus struct {
	PendingOrders int             `json:"pending_orders"`
	Printers      map[string]bool `json:"printer_status"`
}

// AuthService manages accounts and login sessions.
type AuthService interface {
	Register(ctx context.Context, username, password, email string, role domain.Role) (int64, error)
	Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, *domain.UserInfo, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.UserInfo, error)
}

// MenuService serves the menu loaded from the configured JSON file.
type MenuService interface {
	Items() []MenuItem
}

type MenuItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Category domain.Category `json:"type"`
}
