package orders

import (
	"context"
	"errors"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/metrics"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const notifyTimeout = 10 * time.Second

type OrdersRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, id uint) error
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// Notifier hands a notification to a transport. Implementations should
// return quickly; delivery itself may happen later.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type OrdersService struct {
	orderRepo OrdersRepository
	users     UserFinder
	notifier  Notifier
	now       func() time.Time
}

func NewOrdersService(orderRepo OrdersRepository, users UserFinder, notifier Notifier) *OrdersService {
	return &OrdersService{
		orderRepo: orderRepo,
		users:     users,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Total sums price x quantity exactly and normalizes every line in place:
// negative values become zero.
func Total(items []domain.OrderItem) float64 {
	sum := decimal.Zero
	for i := range items {
		if items[i].Price < 0 {
			items[i].Price = 0
		}
		if items[i].Quantity < 0 {
			items[i].Quantity = 0
		}
		line := decimal.NewFromFloat(items[i].Price).Mul(decimal.NewFromFloat(items[i].Quantity))
		sum = sum.Add(line)
	}

	return sum.InexactFloat64()
}

// CreateOrder snapshots the cart into a pending order. Client prices are
// taken as is. The confirmation email is best effort.
func (s *OrdersService) CreateOrder(ctx context.Context, userID uint, cart []domain.CartItem) (domain.Order, error) {
	if len(cart) == 0 {
		return domain.Order{}, domain.ErrNoItems
	}

	items := make([]domain.OrderItem, 0, len(cart))
	for _, c := range cart {
		items = append(items, domain.OrderItem{
			ProductID: c.ProductID,
			Name:      c.Name,
			Price:     float64(c.Price),
			Quantity:  float64(c.Quantity),
			Image:     c.Image,
		})
	}

	total := Total(items)
	if total <= 0 {
		return domain.Order{}, domain.ErrInvalidTotal
	}

	order := domain.Order{
		UserID:        userID,
		Items:         items,
		Total:         total,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}

	if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
		logger.Error("Failed to create order", err)
		return domain.Order{}, err
	}

	metrics.OrdersCreated.Inc()
	logger.Info("order created", "order_number", order.OrderNumber, "user_id", userID)

	if owner, ok := s.owner(ctx, userID); ok {
		order.User = owner
		s.notify(ctx, domain.Notification{
			Kind:      domain.NotificationOrderConfirmation,
			Order:     order,
			Recipient: *owner,
		})
	}

	return order, nil
}

// UpdateOrderStatus moves an order to any valid status. An email goes out
// only when the status actually changes.
func (s *OrdersService) UpdateOrderStatus(ctx context.Context, id uint, status string) (domain.Order, error) {
	next := domain.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}

	order, err := s.orderRepo.GetOrder(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("Failed to get order", err)
		}
		return domain.Order{}, err
	}

	previous := order.Status
	if previous == next {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, next); err != nil {
		logger.Error("Failed to update order status", err)
		return domain.Order{}, err
	}

	order.Status = next
	order.UpdatedAt = s.now()
	metrics.OrderStatusTransitions.WithLabelValues(string(previous), string(next)).Inc()

	if order.User != nil && order.User.Email != "" {
		s.notify(ctx, domain.Notification{
			Kind:      domain.NotificationOrderStatusUpdate,
			Order:     order,
			Recipient: *order.User,
			OldStatus: previous,
			NewStatus: next,
		})
	} else {
		logger.Warn("order owner missing, status email skipped", "order_number", order.OrderNumber)
	}

	return order, nil
}

func (s *OrdersService) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	return s.orderRepo.GetOrder(ctx, id)
}

// GetUserOrders lists the caller's orders, newest first.
func (s *OrdersService) GetUserOrders(ctx context.Context, userID uint) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetOrdersByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user orders", err)
		return nil, err
	}

	return orders, nil
}

// GetAllOrders lists every order with its owner. An empty status or "all"
// disables the filter.
func (s *OrdersService) GetAllOrders(ctx context.Context, status string) ([]domain.Order, error) {
	var filter domain.OrderFilter
	if status = strings.TrimSpace(status); status != "" && !strings.EqualFold(status, "all") {
		filter.Status = domain.OrderStatus(status)
		if !filter.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	orders, err := s.orderRepo.GetAllOrders(ctx, filter)
	if err != nil {
		logger.Error("Failed to get all orders", err)
		return nil, err
	}

	return orders, nil
}

func (s *OrdersService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("Failed to delete order", err)
		}
		return err
	}

	return nil
}

func (s *OrdersService) owner(ctx context.Context, userID uint) (*domain.UserSummary, bool) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("order owner lookup failed, confirmation email skipped", err)
		return nil, false
	}

	return user.Summary(), true
}

// notify never fails the caller. The request deadline is detached so a
// finished request does not cancel the hand-off.
func (s *OrdersService) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}

	n.CreatedAt = s.now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, n); err != nil {
		metrics.Notifications.WithLabelValues(string(n.Kind), "rejected").Inc()
		logger.Error("Failed to queue order notification", err, "order_number", n.Order.OrderNumber)
	}
}
