//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myShopHub/domain"
	"myShopHub/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrdersService struct {
	created    []domain.CartItem
	lastStatus string
	orders     map[uint]domain.Order
}

func (f *fakeOrdersService) CreateOrder(_ context.Context, userID uint, cart []domain.CartItem) (domain.Order, error) {
	if len(cart) == 0 {
		return domain.Order{}, domain.ErrNoItems
	}
	f.created = cart
	return domain.Order{ID: 1, UserID: userID, OrderNumber: "ORD-0001", Total: 25}, nil
}

func (f *fakeOrdersService) GetUserOrders(_ context.Context, userID uint) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrdersService) GetAllOrders(_ context.Context, status string) ([]domain.Order, error) {
	if status == "lost" {
		return nil, domain.ErrInvalidStatus
	}
	return nil, nil
}

func (f *fakeOrdersService) UpdateOrderStatus(_ context.Context, id uint, status string) (domain.Order, error) {
	f.lastStatus = status
	if !domain.OrderStatus(status).Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}
	order, ok := f.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

func (f *fakeOrdersService) DeleteOrder(_ context.Context, id uint) error {
	if _, ok := f.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(f.orders, id)
	return nil
}

func withUser(id uint, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextUserID, id)
			c.Set(middleware.ContextRole, role)
			c.Set(middleware.ContextEmail, fmt.Sprintf("user%d@example.com", id))
			return next(c)
		}
	}
}

func request(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ResponseError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestOrdersHandler(t *testing.T) {
	svc := &fakeOrdersService{orders: map[uint]domain.Order{
		3: {ID: 3, UserID: 7, Status: domain.OrderStatusPending, OrderNumber: "ORD-0003"},
	}}
	h := NewOrdersHandler(svc)

	e := echo.New()
	api := e.Group("/api/orders", withUser(7, domain.RoleAdmin))
	api.POST("/create", h.CreateOrder)
	api.GET("/user", h.GetUserOrders)
	api.GET("", h.GetAllOrders)
	api.PUT("/:id/status", h.UpdateOrderStatus)
	api.DELETE("/:id", h.DeleteOrder)

	t.Run("create returns 201 and accepts numeric strings", func(t *testing.T) {
		rec := request(e, http.MethodPost, "/api/orders/create",
			`{"items":[{"name":"Tee","price":"10","quantity":2},{"name":"Cap","price":5,"quantity":1}]}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "ORD-0001")
		require.Len(t, svc.created, 2)
		assert.Equal(t, 10.0, float64(svc.created[0].Price))
	})

	t.Run("empty cart is a 400", func(t *testing.T) {
		rec := request(e, http.MethodPost, "/api/orders/create", `{"items":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, message(t, rec), "no items")
	})

	t.Run("unknown status is a 400", func(t *testing.T) {
		rec := request(e, http.MethodPut, "/api/orders/3/status", `{"status":"teleported"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.OrderStatusPending, svc.orders[3].Status)
	})

	t.Run("missing status is a 400 without reaching the service", func(t *testing.T) {
		svc.lastStatus = "untouched"
		rec := request(e, http.MethodPut, "/api/orders/3/status", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "untouched", svc.lastStatus)
	})

	t.Run("status update on a missing order is a 404", func(t *testing.T) {
		rec := request(e, http.MethodPut, "/api/orders/99/status", `{"status":"shipped"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("status update returns the order", func(t *testing.T) {
		rec := request(e, http.MethodPut, "/api/orders/3/status", `{"status":"shipped"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"shipped"`)
	})

	t.Run("invalid filter is a 400", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/api/orders?status=lost", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("user orders", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/api/orders/user", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ORD-0003")
	})

	t.Run("bad id is a 400", func(t *testing.T) {
		rec := request(e, http.MethodDelete, "/api/orders/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(e, http.MethodDelete, "/api/orders/3", "").Code)
		assert.Equal(t, http.StatusNotFound, request(e, http.MethodDelete, "/api/orders/3", "").Code)
	})
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidTotal, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrNotReviewOwner, http.StatusForbidden},
		{fmt.Errorf("lookup: %w", domain.ErrProductNotFound), http.StatusNotFound},
		{domain.ErrDuplicateReview, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFromError(tt.err), tt.err.Error())
	}
}

func TestErrorResponseHidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, errorResponse(c, fmt.Errorf("pq: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", message(t, rec))
}
