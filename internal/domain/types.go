package domain

// Category classifies a line item for printer routing. The set is open:
// new categories only need an endpoint mapping in the router configuration.
type Category string

const (
	CategoryFood  Category = "food"
	CategoryDrink Category = "drink"
)

// Status tracks the persisted lifecycle of an order. It is a store-only
// track: the dispatch queue has its own notion of pending, and the two are
// deliberately independent (operator completion vs. confirmed print).
type Status string

const (
	StatusPending   Status = "pending"
	StatusPrinted   Status = "printed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// IsStaff reports whether the role grants access to analytics and exports.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleManager || r == RoleAdmin
}
