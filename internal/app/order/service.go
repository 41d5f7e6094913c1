package order

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ordersys/tableside/internal/adapter/csvlog"
	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/app/dispatch"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

// Service is the intake boundary: it persists incoming orders, enqueues
// them for printing and serves the history, analytics and dashboard
// queries. It is the only producer for the dispatch queue.
type Service struct {
	repo      interfaces.OrderRepository
	queue     *dispatch.Queue
	router    *dispatch.Router
	fallback  *csvlog.Writer
	publisher interfaces.MessagePublisher // may be nil
	logger    logger.Logger
}

func NewService(
	repo interfaces.OrderRepository,
	queue *dispatch.Queue,
	router *dispatch.Router,
	fallback *csvlog.Writer,
	publisher interfaces.MessagePublisher,
	lg logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		queue:     queue,
		router:    router,
		fallback:  fallback,
		publisher: publisher,
		logger:    lg,
	}
}

// Submit validates the order, persists it and enqueues it for dispatch.
// Persistence failures are logged and degraded to the CSV fallback; they
// never prevent queueing, because delivery to the printers matters more
// than the database record. Only validation failures reach the caller.
func (s *Service) Submit(ctx context.Context, cmd interfaces.SubmitOrderCommand) (*domain.Order, error) {
	order, err := domain.NewOrder(cmd.TableNumber, cmd.Items, cmd.Comment, cmd.UserAgent, cmd.Timestamp, cmd.User)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", "", map[string]interface{}{
			"table_number": cmd.TableNumber,
		}, err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("db_save_failed", "Failed to persist order, continuing to print queue", "", map[string]interface{}{
			"timestamp":    order.Timestamp,
			"table_number": order.TableNumber,
		}, err)
	}

	if s.fallback != nil {
		if err := s.fallback.Append(order); err != nil {
			s.logger.Error("csv_fallback_failed", "Failed to write CSV fallback record", "", map[string]interface{}{
				"timestamp": order.Timestamp,
			}, err)
		}
	}

	// The queue gets its own snapshot; the persisted record and the
	// in-flight entry are independent copies from here on.
	s.queue.Enqueue(*order)

	s.logger.Info("order_received", "Order accepted and enqueued", "", map[string]interface{}{
		"order_id":     order.ID,
		"timestamp":    order.Timestamp,
		"table_number": order.TableNumber,
		"total_price":  order.TotalPrice,
		"queue_depth":  s.queue.Depth(),
	})

	if s.publisher != nil {
		event := interfaces.OrderEvent{
			Event:       interfaces.EventOrderCreated,
			OrderID:     order.ID,
			Timestamp:   order.Timestamp,
			TableNumber: order.TableNumber,
			Items:       order.Items,
			TotalPrice:  order.TotalPrice,
			OccurredAt:  time.Now(),
		}
		if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
			s.logger.Error("publish_failed", "Failed to publish order_created event", "", nil, err)
		}
	}

	return order, nil
}

// ListPending snapshots the queued orders, optionally filtered by category.
func (s *Service) ListPending(category domain.Category) []domain.Order {
	return s.queue.Snapshot(category)
}

// Complete removes a queued order by its intake timestamp. This is the
// operator's out-of-band path and is independent of the dispatcher's own
// removal on confirmed print.
func (s *Service) Complete(timestamp int64) bool {
	removed := s.queue.RemoveByTimestamp(timestamp)
	if removed {
		s.logger.Info("order_completed", "Order removed from queue by operator", "", map[string]interface{}{
			"timestamp":   timestamp,
			"queue_depth": s.queue.Depth(),
		})
	}
	return removed
}

// QueueStatus reports queue depth and per-printer availability.
func (s *Service) QueueStatus() interfaces.QueueStatus {
	return interfaces.QueueStatus{
		PendingOrders: s.queue.Depth(),
		Printers:      s.router.Availability(),
	}
}

func (s *Service) Orders(ctx context.Context, tableNumber, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if tableNumber > 0 {
		return s.repo.ByTable(ctx, tableNumber, limit)
	}
	return s.repo.Recent(ctx, limit)
}

func (s *Service) OrderDetails(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) SalesSummary(ctx context.Context, from, to *time.Time) (*interfaces.SalesSummary, error) {
	return s.repo.SalesSummary(ctx, from, to)
}

func (s *Service) PopularItems(ctx context.Context, limit int) ([]*interfaces.PopularItem, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.PopularItems(ctx, limit)
}

// ExportCSV streams the joined order/item rows as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, from, to *time.Time) error {
	rows, err := s.repo.ExportRows(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{
		"order_id", "timestamp", "table_number", "user_agent", "comment",
		"total_price", "status", "item_name", "item_type", "item_price", "quantity",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.OrderID, 10),
			strconv.FormatInt(row.Timestamp, 10),
			strconv.Itoa(row.TableNumber),
			row.UserAgent,
			row.Comment,
			strconv.FormatFloat(row.TotalPrice, 'f', 2, 64),
			row.Status,
			row.ItemName,
			row.ItemType,
			strconv.FormatFloat(row.ItemPrice, 'f', 2, 64),
			strconv.Itoa(row.Quantity),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
