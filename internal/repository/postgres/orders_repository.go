package postgres

import (
	"context"
	"errors"
	"fmt"
	"myShopHub/domain"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderNumberSequence = "order_number_seq"

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// CreateOrder assigns the next order number from the sequence and inserts
// the order in the same transaction. Sequence values are never handed out
// twice, so concurrent checkouts cannot collide on the number.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int64
		if err := tx.Raw("SELECT nextval(?)", orderNumberSequence).Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to allocate order number: %w", err)
		}

		order.OrderNumber = domain.FormatOrderNumber(next)
		if err := tx.Create(order).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrOrderNumberTaken
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (r *OrdersRepository) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	var order domain.Order
	err := r.DB.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	orders := []domain.Order{order}
	if err := r.attachOwners(ctx, orders); err != nil {
		return domain.Order{}, err
	}

	return orders[0], nil
}

func (r *OrdersRepository) GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user orders: %w", err)
	}

	return orders, nil
}

func (r *OrdersRepository) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	query := r.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []domain.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	if err := r.attachOwners(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	result := r.DB.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *OrdersRepository) UpdatePaymentStatus(ctx context.Context, id uint, status domain.PaymentStatus) error {
	result := r.DB.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"payment_status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *OrdersRepository) DeleteOrder(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&domain.Order{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *OrdersRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&domain.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return n, nil
}

// DeliveredRevenue sums the totals of delivered orders. Payment status does
// not take part.
func (r *OrdersRepository) DeliveredRevenue(ctx context.Context) (float64, error) {
	var sum decimal.Decimal
	err := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status = ?", domain.OrderStatusDelivered).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return sum.InexactFloat64(), nil
}

// attachOwners fills Order.User. Orders whose owner was deleted keep a nil
// User.
func (r *OrdersRepository) attachOwners(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.UserID)
	}

	owners, err := NewUserRepository(r.DB).FindSummaries(ctx, ids)
	if err != nil {
		return err
	}

	for i := range orders {
		if owner, ok := owners[orders[i].UserID]; ok {
			orders[i].User = &owner
		}
	}

	return nil
}
