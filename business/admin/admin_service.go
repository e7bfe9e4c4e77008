package admin

import (
	"context"
	"fmt"
	"io"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"strings"

	"github.com/tealeg/xlsx"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type OrdersRepository interface {
	Counter
	DeliveredRevenue(ctx context.Context) (float64, error)
	GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type adminService struct {
	users    Counter
	products Counter
	orders   OrdersRepository
}

func NewAdminService(users, products Counter, orders OrdersRepository) *adminService {
	return &adminService{
		users:    users,
		products: products,
		orders:   orders,
	}
}

// GetStats queries every figure fresh. Revenue only counts delivered
// orders, whatever their payment status.
func (s *adminService) GetStats(ctx context.Context) (domain.AdminStats, error) {
	var (
		stats domain.AdminStats
		err   error
	)

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		logger.Error("Failed to count users", err)
		return domain.AdminStats{}, err
	}

	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		logger.Error("Failed to count products", err)
		return domain.AdminStats{}, err
	}

	if stats.TotalOrders, err = s.orders.Count(ctx); err != nil {
		logger.Error("Failed to count orders", err)
		return domain.AdminStats{}, err
	}

	if stats.TotalRevenue, err = s.orders.DeliveredRevenue(ctx); err != nil {
		logger.Error("Failed to sum revenue", err)
		return domain.AdminStats{}, err
	}

	return stats, nil
}

var exportHeaders = []string{
	"Order Number", "Customer", "Email", "Items", "Total",
	"Status", "Payment Status", "Created At",
}

// ExportOrders writes every order as an xlsx workbook.
func (s *adminService) ExportOrders(ctx context.Context, w io.Writer) error {
	orders, err := s.orders.GetAllOrders(ctx, domain.OrderFilter{})
	if err != nil {
		logger.Error("Failed to load orders for export", err)
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()

		var name, email string
		if o.User != nil {
			name, email = o.User.Name, o.User.Email
		}

		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, fmt.Sprintf("%s x%g", item.Name, item.Quantity))
		}

		row.AddCell().SetString(o.OrderNumber)
		row.AddCell().SetString(name)
		row.AddCell().SetString(email)
		row.AddCell().SetString(strings.Join(items, ", "))
		row.AddCell().SetFloat(o.Total)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(string(o.PaymentStatus))
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
