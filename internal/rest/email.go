package rest

import (
	"context"
	"myShopHub/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type EmailService interface {
	SendTestEmail(ctx context.Context, to string) error
}

type EmailHandler struct {
	emailService EmailService
	validate     *validator.Validate
	timeout      time.Duration
}

func NewEmailHandler(emailService EmailService) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		validate:     validator.New(),
		timeout:      15 * time.Second,
	}
}

type TestEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *EmailHandler) SendTestEmail(c echo.Context) error {
	var req TestEmailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, "a valid email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.emailService.SendTestEmail(ctx, req.Email); err != nil {
		logger.Error("Failed to send test email", err)
		return c.JSON(http.StatusBadGateway, ResponseError{Message: "failed to send test email"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Test email sent"))
}
