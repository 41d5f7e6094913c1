package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/interfaces"
)

// NewRouter wires the full HTTP surface. Printer failures are deliberately
// invisible here: submission is asynchronous and downstream state is only
// observable through the dashboard routes.
func NewRouter(
	orders *OrderHandler,
	dashboard *DashboardHandler,
	menu *MenuHandler,
	authH *AuthHandler,
	authService interfaces.AuthService,
	lg logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/order", orders.PlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", orders.GetOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/pending", dashboard.ListPending).Methods(http.MethodGet)
	r.HandleFunc("/orders/pending/{timestamp:[0-9]+}/complete", dashboard.CompletePending).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id:[0-9]+}", orders.GetOrderDetails).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id:[0-9]+}/status", orders.UpdateOrderStatus).Methods(http.MethodPut)

	r.HandleFunc("/status", dashboard.GetStatus).Methods(http.MethodGet)
	r.HandleFunc("/menu", menu.GetMenu).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", authH.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", authH.Logout).Methods(http.MethodPost)

	r.HandleFunc("/export/orders", RequireStaff(orders.ExportOrders)).Methods(http.MethodGet)
	r.HandleFunc("/analytics/sales", RequireStaff(orders.GetSalesSummary)).Methods(http.MethodGet)
	r.HandleFunc("/analytics/popular-items", RequireStaff(orders.GetPopularItems)).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = SessionMiddleware(authService)(handler)
	handler = LoggingMiddleware(lg)(handler)
	handler = RecoveryMiddleware(lg)(handler)

	return handler
}
