package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

// DashboardHandler exposes the operational surface: queue depth, printer
// availability, the pending-order snapshot and manual completion.
type DashboardHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewDashboardHandler(service interfaces.OrderService, lg logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: lg}
}

func (h *DashboardHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.QueueStatus())
}

func (h *DashboardHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(r.URL.Query().Get("category"))

	orders := h.service.ListPending(category)

	views := make([]map[string]interface{}, len(orders))
	for i, o := range orders {
		views[i] = map[string]interface{}{
			"order_id":     o.ID,
			"timestamp":    o.Timestamp,
			"table_number": o.TableNumber,
			"items":        o.Items,
			"comment":      o.Comment,
			"total_price":  o.TotalPrice,
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"pending": views})
}

// CompletePending removes a queued order by its intake timestamp, the
// correlation key independent of the store-assigned order id.
func (h *DashboardHandler) CompletePending(w http.ResponseWriter, r *http.Request) {
	timestamp, err := strconv.ParseInt(mux.Vars(r)["timestamp"], 10, 64)
	if err != nil {
		respondError(w, "Invalid timestamp", http.StatusBadRequest, nil)
		return
	}

	if !h.service.Complete(timestamp) {
		respondError(w, "No pending order with that timestamp", http.StatusNotFound, nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order marked complete"})
}
