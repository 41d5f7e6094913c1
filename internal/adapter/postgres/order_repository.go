package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items in one transaction and fills in
// the store-assigned order ID.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx)

	var userID *int64
	if order.User != nil {
		userID = &order.User.ID
	}

	query := `
		INSERT INTO orders (submitted_at, table_number, user_agent, user_id, comment, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.Timestamp, order.TableNumber, order.UserAgent, userID,
		order.Comment, order.TotalPrice, order.Status, order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return &domain.PersistenceError{Op: "insert order", Err: err}
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, category, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery,
			order.ID, item.ProductID, item.Name, item.Category, item.Price, item.Quantity,
		); err != nil {
			return &domain.PersistenceError{Op: "insert order item", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, submitted_at, table_number, user_agent, comment, total_price, status, created_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	var userAgent, comment *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.Timestamp, &order.TableNumber, &userAgent,
		&comment, &order.TotalPrice, &order.Status, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, &domain.PersistenceError{Op: "find order", Err: err}
	}
	if userAgent != nil {
		order.UserAgent = *userAgent
	}
	if comment != nil {
		order.Comment = *comment
	}

	itemsQuery := `
		SELECT product_id, name, category, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load order items", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Category, &item.Price, &item.Quantity); err != nil {
			return nil, &domain.PersistenceError{Op: "scan order item", Err: err}
		}
		order.Items = append(order.Items, item)
	}

	return &order, nil
}

func (r *orderRepository) Recent(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `
		SELECT id, submitted_at, table_number, comment, total_price, status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`
	return r.queryOrders(ctx, query, limit)
}

func (r *orderRepository) ByTable(ctx context.Context, tableNumber, limit int) ([]*domain.Order, error) {
	query := `
		SELECT id, submitted_at, table_number, comment, total_price, status, created_at
		FROM orders
		WHERE table_number = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.queryOrders(ctx, query, tableNumber, limit)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query orders", Err: err}
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		var comment *string
		if err := rows.Scan(
			&order.ID, &order.Timestamp, &order.TableNumber, &comment,
			&order.TotalPrice, &order.Status, &order.CreatedAt,
		); err != nil {
			return nil, &domain.PersistenceError{Op: "scan order", Err: err}
		}
		if comment != nil {
			order.Comment = *comment
		}
		orders = append(orders, &order)
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return &domain.PersistenceError{Op: "update status", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) SalesSummary(ctx context.Context, from, to *time.Time) (*interfaces.SalesSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_price), 0),
		       COALESCE(AVG(total_price), 0),
		       COALESCE(MIN(total_price), 0),
		       COALESCE(MAX(total_price), 0)
		FROM orders
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
	`

	var s interfaces.SalesSummary
	err := r.db.QueryRow(ctx, query, from, to).Scan(
		&s.TotalOrders, &s.TotalRevenue, &s.AverageOrderValue, &s.MinOrderValue, &s.MaxOrderValue,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "sales summary", Err: err}
	}
	return &s, nil
}

func (r *orderRepository) PopularItems(ctx context.Context, limit int) ([]*interfaces.PopularItem, error) {
	query := `
		SELECT name, category, SUM(quantity), COUNT(*), AVG(price)
		FROM order_items
		GROUP BY product_id, name, category
		ORDER BY SUM(quantity) DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "popular items", Err: err}
	}
	defer rows.Close()

	var items []*interfaces.PopularItem
	for rows.Next() {
		var item interfaces.PopularItem
		if err := rows.Scan(&item.Name, &item.Category, &item.TotalQuantity, &item.OrderCount, &item.AveragePrice); err != nil {
			return nil, &domain.PersistenceError{Op: "scan popular item", Err: err}
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *orderRepository) ExportRows(ctx context.Context, from, to *time.Time) ([]interfaces.ExportRow, error) {
	query := `
		SELECT o.id, o.submitted_at, o.table_number,
		       COALESCE(o.user_agent, ''), COALESCE(o.comment, ''),
		       o.total_price, o.status,
		       COALESCE(oi.name, ''), COALESCE(oi.category, ''),
		       COALESCE(oi.price, 0), COALESCE(oi.quantity, 0)
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE ($1::timestamptz IS NULL OR o.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR o.created_at <= $2)
		ORDER BY o.created_at DESC, oi.id
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "export orders", Err: err}
	}
	defer rows.Close()

	var out []interfaces.ExportRow
	for rows.Next() {
		var row interfaces.ExportRow
		if err := rows.Scan(
			&row.OrderID, &row.Timestamp, &row.TableNumber, &row.UserAgent, &row.Comment,
			&row.TotalPrice, &row.Status, &row.ItemName, &row.ItemType, &row.ItemPrice, &row.Quantity,
		); err != nil {
			return nil, &domain.PersistenceError{Op: "scan export row", Err: err}
		}
		out = append(out, row)
	}

	return out, nil
}
