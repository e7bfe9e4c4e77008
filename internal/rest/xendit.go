package rest

import (
	"context"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

const callbackTokenHeader = "x-callback-token"

type WebhookController struct {
	paymentService PaymentsService
	timeout        time.Duration
}

func NewWebhookController(paymentService PaymentsService) *WebhookController {
	return &WebhookController{
		paymentService: paymentService,
		timeout:        10 * time.Second,
	}
}

func (ctrl *WebhookController) HandleWebhook(c echo.Context) error {
	var request domain.XenditWebhook

	if err := c.Bind(&request); err != nil {
		logger.Error("Failed to bind webhook request", err)
		return badRequest(c, "invalid request")
	}

	logger.Info("Received webhook from Xendit", "external_id", request.ExternalID, "status", request.Status)

	ctx, cancel := context.WithTimeout(c.Request().Context(), ctrl.timeout)
	defer cancel()

	token := c.Request().Header.Get(callbackTokenHeader)
	if err := ctrl.paymentService.ReceivePaymentWebhook(ctx, token, request); err != nil {
		logger.Error("Failed to update payment status", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(http.StatusOK))
}
