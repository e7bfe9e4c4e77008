package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminService interface {
	GetStats(ctx context.Context) (domain.AdminStats, error)
	ExportOrders(ctx context.Context, w io.Writer) error
}

type AdminHandler struct {
	adminService AdminService
	timeout      time.Duration
	now          func() time.Time
}

func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		timeout:      30 * time.Second,
		now:          time.Now,
	}
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.adminService.GetStats(ctx)
	if err != nil {
		logger.Error("Failed to get admin stats", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}

// ExportOrders streams every order as an xlsx workbook.
func (h *AdminHandler) ExportOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.adminService.ExportOrders(ctx, &buf); err != nil {
		logger.Error("Failed to export orders", err)
		return errorResponse(c, err)
	}

	filename := fmt.Sprintf("orders-%s.xlsx", h.now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
