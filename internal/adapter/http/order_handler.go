package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, lg logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: lg}
}

// PlaceOrderRequest is the order wire shape.
type PlaceOrderRequest struct {
	TableNumber  int                `json:"tableNumber"`
	OrderedItems []OrderItemRequest `json:"orderedItems"`
	Comment      *string            `json:"comment"`
	Timestamp    int64              `json:"timestamp"`
}

type OrderItemRequest struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Type     string  `json:"type"`
	Quantity int     `json:"quantity"`
}

type PlaceOrderResponse struct {
	Message    string  `json:"message"`
	OrderID    int64   `json:"order_id"`
	Timestamp  int64   `json:"timestamp"`
	TotalPrice float64 `json:"total_price"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if validationErrors := validatePlaceOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Order validation failed", "", map[string]interface{}{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}

	cmd := interfaces.SubmitOrderCommand{
		TableNumber: req.TableNumber,
		Items:       convertItems(req.OrderedItems),
		Comment:     comment,
		Timestamp:   req.Timestamp,
		UserAgent:   r.UserAgent(),
		User:        UserFromContext(r.Context()),
	}

	result, err := h.service.Submit(r.Context(), cmd)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	respondJSON(w, http.StatusCreated, PlaceOrderResponse{
		Message:    "Order received!",
		OrderID:    result.ID,
		Timestamp:  result.Timestamp,
		TotalPrice: result.TotalPrice,
	})
}

func validatePlaceOrderRequest(req PlaceOrderRequest) []ValidationError {
	var errs []ValidationError

	if req.TableNumber < 1 {
		errs = append(errs, ValidationError{
			Field:   "tableNumber",
			Message: "table number must be a positive integer",
		})
	}

	if len(req.OrderedItems) < 1 {
		errs = append(errs, ValidationError{
			Field:   "orderedItems",
			Message: "order must contain at least 1 item",
		})
	}

	for i, item := range req.OrderedItems {
		prefix := fmt.Sprintf("orderedItems[%d]", i)

		if item.Name == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: "item name is required",
			})
		}
		if item.Price < 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".price",
				Message: "item price must not be negative",
			})
		}
		if item.Quantity < 1 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".quantity",
				Message: "item quantity must be at least 1",
			})
		}
		if item.Type == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".type",
				Message: "item type is required",
			})
		}
	}

	return errs
}

func convertItems(items []OrderItemRequest) []domain.LineItem {
	result := make([]domain.LineItem, len(items))
	for i, item := range items {
		result[i] = domain.LineItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Category:  domain.Category(item.Type),
			Quantity:  item.Quantity,
		}
	}
	return result
}

func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	tableNumber, _ := strconv.Atoi(r.URL.Query().Get("table"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, err := h.service.Orders(r.Context(), tableNumber, limit)
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": toOrderViews(orders)})
}

func (h *OrderHandler) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	order, err := h.service.OrderDetails(r.Context(), id)
	if err != nil {
		respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	view := toOrderView(order)
	view["items"] = order.Items
	respondJSON(w, http.StatusOK, view)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		respondError(w, "Status is required", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, domain.Status(body.Status)); err != nil {
		respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Status updated successfully"})
}

func (h *OrderHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="orders_export_%s.csv"`, time.Now().Format("20060102_150405")))

	if err := h.service.ExportCSV(r.Context(), w, from, to); err != nil {
		h.logger.Error("export_failed", "Failed to export orders", "", nil, err)
	}
}

func (h *OrderHandler) GetSalesSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	summary, err := h.service.SalesSummary(r.Context(), from, to)
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) GetPopularItems(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.PopularItems(r.Context(), limit)
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"popular_items": items})
}

// parseDateRange reads optional from/to query parameters, accepting either
// a date (2006-01-02) or RFC 3339.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	parse := func(key string) (*time.Time, error) {
		v := r.URL.Query().Get(key)
		if v == "" {
			return nil, nil
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return &t, nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s date", key)
		}
		return &t, nil
	}

	from, err := parse("from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parse("to")
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func toOrderViews(orders []*domain.Order) []map[string]interface{} {
	views := make([]map[string]interface{}, len(orders))
	for i, o := range orders {
		views[i] = toOrderView(o)
	}
	return views
}

func toOrderView(o *domain.Order) map[string]interface{} {
	return map[string]interface{}{
		"id":           o.ID,
		"timestamp":    o.Timestamp,
		"table_number": o.TableNumber,
		"comment":      o.Comment,
		"total_price":  o.TotalPrice,
		"status":       o.Status,
		"created_at":   o.CreatedAt,
	}
}
