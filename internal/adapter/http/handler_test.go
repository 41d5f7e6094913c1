package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

type fakeOrderService struct {
	submitted []interfaces.SubmitOrderCommand
	submitErr error

	pending   []domain.Order
	completed map[int64]bool

	orders  []*domain.Order
	details *domain.Order
}

func (f *fakeOrderService) Submit(ctx context.Context, cmd interfaces.SubmitOrderCommand) (*domain.Order, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, cmd)
	order, err := domain.NewOrder(cmd.TableNumber, cmd.Items, cmd.Comment, cmd.UserAgent, cmd.Timestamp, cmd.User)
	if err != nil {
		return nil, err
	}
	order.ID = 42
	return order, nil
}

func (f *fakeOrderService) ListPending(category domain.Category) []domain.Order {
	if category == "" {
		return f.pending
	}
	var out []domain.Order
	for _, o := range f.pending {
		for _, item := range o.Items {
			if item.Category == category {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

func (f *fakeOrderService) Complete(timestamp int64) bool {
	return f.completed[timestamp]
}

func (f *fakeOrderService) QueueStatus() interfaces.QueueStatus {
	return interfaces.QueueStatus{
		PendingOrders: len(f.pending),
		Printers:      map[string]bool{"food_printer": true},
	}
}

func (f *fakeOrderService) Orders(ctx context.Context, tableNumber, limit int) ([]*domain.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderService) OrderDetails(ctx context.Context, id int64) (*domain.Order, error) {
	if f.details == nil || f.details.ID != id {
		return nil, domain.ErrOrderNotFound
	}
	return f.details, nil
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if f.details == nil || f.details.ID != id {
		return domain.ErrOrderNotFound
	}
	f.details.Status = status
	return nil
}

func (f *fakeOrderService) SalesSummary(ctx context.Context, from, to *time.Time) (*interfaces.SalesSummary, error) {
	return &interfaces.SalesSummary{TotalOrders: 3, TotalRevenue: 57.5}, nil
}

func (f *fakeOrderService) PopularItems(ctx context.Context, limit int) ([]*interfaces.PopularItem, error) {
	return []*interfaces.PopularItem{{Name: "Burger", TotalQuantity: 12}}, nil
}

func (f *fakeOrderService) ExportCSV(ctx context.Context, w io.Writer, from, to *time.Time) error {
	_, err := io.WriteString(w, "order_id,timestamp\n42,1700000000\n")
	return err
}

type fakeAuthService struct {
	users map[string]*domain.UserInfo // token -> user
}

func (f *fakeAuthService) Register(ctx context.Context, username, password, email string, role domain.Role) (int64, error) {
	return 1, nil
}

func (f *fakeAuthService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, *domain.UserInfo, error) {
	return "", nil, errors.New("not implemented")
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error { return nil }

func (f *fakeAuthService) Authenticate(ctx context.Context, token string) (*domain.UserInfo, error) {
	user, ok := f.users[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return user, nil
}

type fakeMenuService struct{}

func (fakeMenuService) Items() []interfaces.MenuItem {
	return []interfaces.MenuItem{{ID: 1, Name: "Burger", Price: 9.5, Category: domain.CategoryFood}}
}

func newTestServer(orders *fakeOrderService) (*httptest.Server, *fakeAuthService) {
	lg := logger.Nop()
	auth := &fakeAuthService{users: map[string]*domain.UserInfo{
		"staff-token":    {ID: 1, Username: "alice", Role: domain.RoleStaff},
		"customer-token": {ID: 2, Username: "bob", Role: domain.RoleCustomer},
	}}

	handler := NewRouter(
		NewOrderHandler(orders, lg),
		NewDashboardHandler(orders, lg),
		NewMenuHandler(fakeMenuService{}),
		NewAuthHandler(auth, lg),
		auth,
		lg,
	)
	return httptest.NewServer(handler), auth
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestPlaceOrder(t *testing.T) {
	svc := &fakeOrderService{}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/order", `{
		"tableNumber": 4,
		"timestamp": 1700000000,
		"orderedItems": [
			{"id": 1, "name": "Burger", "price": 9.5, "type": "food", "quantity": 2}
		],
		"comment": "no onions"
	}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Order received!", body["message"])
	assert.Equal(t, float64(42), body["order_id"])
	assert.Equal(t, float64(1700000000), body["timestamp"])
	assert.Equal(t, 19.0, body["total_price"])

	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "no onions", svc.submitted[0].Comment)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc := &fakeOrderService{}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/order", `{
		"tableNumber": 0,
		"orderedItems": [
			{"id": 1, "name": "", "price": -1, "type": "", "quantity": 0}
		]
	}`)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	defer resp.Body.Close()

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Validation failed", body.Error)

	fields := make(map[string]bool)
	for _, ve := range body.Errors {
		fields[ve.Field] = true
	}
	assert.True(t, fields["tableNumber"])
	assert.True(t, fields["orderedItems[0].name"])
	assert.True(t, fields["orderedItems[0].price"])
	assert.True(t, fields["orderedItems[0].quantity"])
	assert.True(t, fields["orderedItems[0].type"])

	assert.Empty(t, svc.submitted, "invalid requests never reach the service")
}

func TestPlaceOrderMalformedBody(t *testing.T) {
	ts, _ := newTestServer(&fakeOrderService{})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/order", `{not json`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStatus(t *testing.T) {
	svc := &fakeOrderService{pending: []domain.Order{{Timestamp: 1}}}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["pending_orders"])
	printers := body["printer_status"].(map[string]interface{})
	assert.Equal(t, true, printers["food_printer"])
}

func TestListPendingByCategory(t *testing.T) {
	svc := &fakeOrderService{pending: []domain.Order{
		{Timestamp: 1, Items: []domain.LineItem{{Name: "Burger", Category: domain.CategoryFood, Quantity: 1}}},
		{Timestamp: 2, Items: []domain.LineItem{{Name: "Cola", Category: domain.CategoryDrink, Quantity: 1}}},
	}}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/orders/pending?category=drink")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	pending := body["pending"].([]interface{})
	require.Len(t, pending, 1)
	entry := pending[0].(map[string]interface{})
	assert.Equal(t, float64(2), entry["timestamp"])
}

func TestCompletePending(t *testing.T) {
	svc := &fakeOrderService{completed: map[int64]bool{1700000000: true}}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/orders/pending/1700000000/complete", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/orders/pending/999/complete", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetOrderDetails(t *testing.T) {
	svc := &fakeOrderService{details: &domain.Order{
		ID:          7,
		Timestamp:   1700000000,
		TableNumber: 4,
		Items:       []domain.LineItem{{Name: "Burger", Category: domain.CategoryFood, Quantity: 1}},
	}}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/orders/7")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(7), body["id"])
	assert.Len(t, body["items"].([]interface{}), 1)

	resp, err = http.Get(ts.URL + "/orders/999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := &fakeOrderService{details: &domain.Order{ID: 7}}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/orders/7/status", strings.NewReader(`{"status":"completed"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.StatusCompleted, svc.details.Status)
}

func TestGetMenu(t *testing.T) {
	ts, _ := newTestServer(&fakeOrderService{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/menu")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []interfaces.MenuItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].Name)
}

func staffRequest(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAnalyticsRequireStaff(t *testing.T) {
	ts, _ := newTestServer(&fakeOrderService{})
	defer ts.Close()

	resp := staffRequest(t, ts.URL+"/analytics/sales", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = staffRequest(t, ts.URL+"/analytics/sales", "customer-token")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = staffRequest(t, ts.URL+"/analytics/sales", "staff-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(3), body["total_orders"])
}

func TestExportOrders(t *testing.T) {
	ts, _ := newTestServer(&fakeOrderService{})
	defer ts.Close()

	resp := staffRequest(t, ts.URL+"/export/orders", "staff-token")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order_id,timestamp")
}

func TestSessionCookieAttachesUser(t *testing.T) {
	svc := &fakeOrderService{}
	ts, _ := newTestServer(svc)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/order", strings.NewReader(`{
		"tableNumber": 4,
		"orderedItems": [{"id": 1, "name": "Burger", "price": 9.5, "type": "food", "quantity": 1}]
	}`))
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "customer-token"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Len(t, svc.submitted, 1)
	require.NotNil(t, svc.submitted[0].User)
	assert.Equal(t, "bob", svc.submitted[0].User.Username)
}
