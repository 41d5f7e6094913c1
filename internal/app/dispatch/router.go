package dispatch

import (
	"context"
	"sort"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

// Router partitions an order's items across the registered printer
// endpoints by category. The category→endpoint mapping is static
// configuration; two categories may share one physical endpoint.
type Router struct {
	endpoints map[domain.Category]interfaces.PrinterEndpoint
	logger    logger.Logger
}

func NewRouter(endpoints map[domain.Category]interfaces.PrinterEndpoint, lg logger.Logger) *Router {
	return &Router{endpoints: endpoints, logger: lg}
}

// AllAvailable reports whether every distinct endpoint is reachable.
// Endpoints shared between categories are probed once, so one category's
// failure is never double-counted against another.
func (r *Router) AllAvailable() bool {
	for _, ep := range r.distinct() {
		if !ep.IsAvailable() {
			return false
		}
	}
	return true
}

// Availability returns the per-endpoint probe results keyed by endpoint
// name, for the operational status query.
func (r *Router) Availability() map[string]bool {
	status := make(map[string]bool)
	for _, ep := range r.distinct() {
		status[ep.Name()] = ep.IsAvailable()
	}
	return status
}

// Dispatch prints each non-empty category subset of the order to its
// endpoint, in a fixed category order, and reports whether every invoked
// print succeeded. On the first failure the remaining categories are not
// attempted and the whole order is treated as undelivered: there is no
// partial delivery tracking, so a retry may reprint subsets that already
// succeeded. That at-least-once duplication is a known, accepted property
// of this design.
func (r *Router) Dispatch(ctx context.Context, order domain.Order) bool {
	parts := order.ItemsByCategory()

	// The category set is open; a category nobody mapped must not drop
	// items invisibly.
	for category, items := range parts {
		if _, ok := r.endpoints[category]; !ok {
			r.logger.Error("unrouted_category", "No endpoint mapped for category, items not printed", "", map[string]interface{}{
				"category":     string(category),
				"item_count":   len(items),
				"table_number": order.TableNumber,
				"timestamp":    order.Timestamp,
			}, nil)
		}
	}

	for _, category := range r.categories() {
		items := parts[category]
		if len(items) == 0 {
			continue
		}

		ep := r.endpoints[category]
		if err := ep.PrintReceipt(ctx, order.TableNumber, items, order.Comment); err != nil {
			r.logger.Error("print_failed", "Failed to print receipt", "", map[string]interface{}{
				"endpoint":     ep.Name(),
				"category":     string(category),
				"table_number": order.TableNumber,
				"timestamp":    order.Timestamp,
			}, err)
			return false
		}
	}

	return true
}

// categoryOrder fixes the print sequence: food receipts go out before
// drinks, any future categories follow alphabetically.
var categoryOrder = []domain.Category{domain.CategoryFood, domain.CategoryDrink}

func (r *Router) categories() []domain.Category {
	cats := make([]domain.Category, 0, len(r.endpoints))
	for _, c := range categoryOrder {
		if _, ok := r.endpoints[c]; ok {
			cats = append(cats, c)
		}
	}

	var rest []domain.Category
	for c := range r.endpoints {
		if c != domain.CategoryFood && c != domain.CategoryDrink {
			rest = append(rest, c)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	return append(cats, rest...)
}

// distinct deduplicates endpoints shared across categories, keyed by name.
func (r *Router) distinct() []interfaces.PrinterEndpoint {
	seen := make(map[string]bool)
	var eps []interfaces.PrinterEndpoint
	for _, c := range r.categories() {
		ep := r.endpoints[c]
		if seen[ep.Name()] {
			continue
		}
		seen[ep.Name()] = true
		eps = append(eps, ep)
	}
	return eps
}
