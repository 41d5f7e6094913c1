package interfaces

import (
	"context"
	"time"

	"github.com/ordersys/tableside/internal/domain"
)

// OrderRepository is the persistence boundary for orders and reporting.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	Recent(ctx context.Context, limit int) ([]*domain.Order, error)
	ByTable(ctx context.Context, tableNumber, limit int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	SalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error)
	PopularItems(ctx context.Context, limit int) ([]*PopularItem, error)
	ExportRows(ctx context.Context, from, to *time.Time) ([]ExportRow, error)
}

type SalesSummary struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	MinOrderValue     float64 `json:"min_order_value"`
	MaxOrderValue     float64 `json:"max_order_value"`
}

type PopularItem struct {
	Name          string  `json:"item_name"`
	Category      string  `json:"item_type"`
	TotalQuantity int     `json:"total_quantity"`
	OrderCount    int     `json:"order_count"`
	AveragePrice  float64 `json:"avg_price"`
}

// ExportRow is one order-item line of the CSV export, orders joined with
// their items.
type ExportRow struct {
	OrderID     int64
	Timestamp   int64
	TableNumber int
	UserAgent   string
	Comment     string
	TotalPrice  float64
	Status      string
	ItemName    string
	ItemType    string
	ItemPrice   float64
	Quantity    int
}

// UserRepository is the persistence boundary for accounts and sessions.
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string, role domain.Role) (int64, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	CreateSession(ctx context.Context, s *Session) error
	FindSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         domain.Role
	IsActive     bool
	CreatedAt    time.Time
}

type Session struct {
	UserID    int64
	Token     string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}
