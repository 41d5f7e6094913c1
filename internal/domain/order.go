package domain

import (
	"errors"
	"time"
)

// Order represents one customer's submitted request, tied to a table.
type Order struct {
	ID          int64
	Timestamp   int64 // unix seconds, assigned at intake; correlation key for queue removal
	TableNumber int
	Items       []LineItem
	Comment     string
	UserAgent   string
	User        *UserInfo
	TotalPrice  float64
	Status      Status
	CreatedAt   time.Time
}

// LineItem is one product entry within an order. Items are owned by the
// order that contains them and never shared across orders.
type LineItem struct {
	ProductID int      `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Category  Category `json:"type"`
	Quantity  int      `json:"quantity"`
}

// UserInfo identifies the submitting user when the order was placed while
// logged in. Anonymous orders carry a nil UserInfo.
type UserInfo struct {
	ID       int64
	Username string
	Role     Role
}

// NewOrder builds an order from intake data, validates it and computes the
// total. The timestamp is assigned here when the client did not supply one.
func NewOrder(tableNumber int, items []LineItem, comment, userAgent string, timestamp int64, user *UserInfo) (*Order, error) {
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	order := &Order{
		Timestamp:   timestamp,
		TableNumber: tableNumber,
		Items:       items,
		Comment:     comment,
		UserAgent:   userAgent,
		User:        user,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.CalculateTotal()

	return order, nil
}

// Validate applies the business rules an order must satisfy before it may
// be persisted or queued.
func (o *Order) Validate() error {
	if o.TableNumber < 1 {
		return errors.New("table number must be a positive integer")
	}

	if len(o.Items) < 1 {
		return errors.New("order must contain at least 1 item")
	}

	for _, item := range o.Items {
		if item.Name == "" {
			return errors.New("item name is required")
		}
		if item.Price < 0 {
			return errors.New("item price must not be negative")
		}
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
		if item.Category == "" {
			return errors.New("item category is required")
		}
	}

	return nil
}

// CalculateTotal recomputes the order total from its items. The total is
// never stored stale once the items are known.
func (o *Order) CalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.TotalPrice = total
}

// ItemsByCategory partitions the order's items, preserving item order
// within each category.
func (o *Order) ItemsByCategory() map[Category][]LineItem {
	parts := make(map[Category][]LineItem)
	for _, item := range o.Items {
		parts[item.Category] = append(parts[item.Category], item)
	}
	return parts
}
