package rest

import (
	"context"
	"myShopHub/domain"
	"myShopHub/internal/middleware"
	"myShopHub/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	PaymentsHandler struct {
		paymentsService PaymentsService
		timeout         time.Duration
	}

	PaymentsService interface {
		CreatePayment(ctx context.Context, orderID, userID uint, email string) (domain.PaymentWithLink, error)
		ReceivePaymentWebhook(ctx context.Context, token string, request domain.XenditWebhook) error
	}
)

func NewPaymentsHandler(paymentsService PaymentsService) *PaymentsHandler {
	return &PaymentsHandler{
		paymentsService: paymentsService,
		timeout:         30 * time.Second,
	}
}

// PayOrder opens an invoice for one of the caller's unpaid orders.
func (h *PaymentsHandler) PayOrder(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID, _ := middleware.UserID(c)
	email, _ := c.Get(middleware.ContextEmail).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payment, err := h.paymentsService.CreatePayment(ctx, orderID, userID, email)
	if err != nil {
		logger.Error("Failed to create payment", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(payment))
}
