package rest

import (
	"context"
	"myShopHub/domain"
	"myShopHub/internal/middleware"
	"myShopHub/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		CreateOrder(ctx context.Context, userID uint, cart []domain.CartItem) (domain.Order, error)
		GetUserOrders(ctx context.Context, userID uint) ([]domain.Order, error)
		GetAllOrders(ctx context.Context, status string) ([]domain.Order, error)
		UpdateOrderStatus(ctx context.Context, id uint, status string) (domain.Order, error)
		DeleteOrder(ctx context.Context, id uint) error
	}

	OrdersInput struct {
		Items []domain.CartItem `json:"items"`
	}

	StatusInput struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       10 * time.Second,
	}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var request OrdersInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CreateOrder(ctx, userID, request.Items)
	if err != nil {
		logger.Error("Failed to create order", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

func (h *OrdersHandler) GetUserOrders(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.GetUserOrders(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user orders", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.GetAllOrders(ctx, c.QueryParam("status"))
	if err != nil {
		logger.Error("Failed to get all orders", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *OrdersHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var request StatusInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, err.Error())
	}

	if err := h.validate.Struct(&request); err != nil {
		return errorResponse(c, domain.ErrInvalidStatus)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.UpdateOrderStatus(ctx, id, request.Status)
	if err != nil {
		logger.Error("Failed to update order status", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) DeleteOrder(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ordersService.DeleteOrder(ctx, id); err != nil {
		logger.Error("Failed to delete order", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Order deleted successfully"))
}
