package payments

import (
	"context"
	"crypto/subtle"
	"fmt"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"strconv"
	"strings"
)

type PaymentsRepository interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	GetPayment(ctx context.Context, id uint) (domain.Payment, error)
	UpdatePayment(ctx context.Context, payment *domain.Payment) error
}

type OrdersRepository interface {
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status domain.PaymentStatus) error
}

type InvoiceGateway interface {
	CreateInvoice(ctx context.Context, invoice domain.XenditInvoiceRequest) (domain.XenditResponse, error)
}

type PaymentsService struct {
	paymentRepo  PaymentsRepository
	orderRepo    OrdersRepository
	gateway      InvoiceGateway
	webhookToken string
}

func NewPaymentsService(paymentRepo PaymentsRepository, orderRepo OrdersRepository, gateway InvoiceGateway, webhookToken string) *PaymentsService {
	return &PaymentsService{
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		gateway:      gateway,
		webhookToken: webhookToken,
	}
}

var errAlreadyPaid = fmt.Errorf("order already paid: %w", domain.ErrConflict)

// externalID ties a Xendit invoice back to the payment and order rows.
func externalID(paymentID, orderID uint) string {
	return fmt.Sprintf("%d|%d", paymentID, orderID)
}

func parseExternalID(raw string) (paymentID, orderID uint, err error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed external id %q: %w", raw, domain.ErrValidation)
	}

	p, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed external id %q: %w", raw, domain.ErrValidation)
	}
	o, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed external id %q: %w", raw, domain.ErrValidation)
	}

	return uint(p), uint(o), nil
}

// CreatePayment opens a Xendit invoice for one of the caller's unpaid
// orders.
func (s *PaymentsService) CreatePayment(ctx context.Context, orderID, userID uint, email string) (domain.PaymentWithLink, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.PaymentWithLink{}, err
	}

	if order.UserID != userID {
		return domain.PaymentWithLink{}, domain.ErrNotOrderOwner
	}

	if order.PaymentStatus == domain.PaymentStatusPaid {
		return domain.PaymentWithLink{}, errAlreadyPaid
	}

	payment := domain.Payment{
		OrderID: order.ID,
		UserID:  userID,
		Amount:  order.Total,
		Status:  domain.PaymentStatusPending,
	}
	if err := s.paymentRepo.CreatePayment(ctx, &payment); err != nil {
		logger.Error("Failed to create payment", err)
		return domain.PaymentWithLink{}, err
	}

	items := make([]domain.XenditItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.XenditItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	invoice, err := s.gateway.CreateInvoice(ctx, domain.XenditInvoiceRequest{
		ExternalID:  externalID(payment.ID, order.ID),
		Amount:      order.Total,
		Description: "payment order " + order.OrderNumber,
		Customer:    domain.Customer{Email: email},
		Items:       items,
		Metadata:    domain.Metadata{OrderNumber: order.OrderNumber},
	})
	if err != nil {
		logger.Error("Failed to create xendit invoice", err)
		payment.Status = domain.PaymentStatusFailed
		if uerr := s.paymentRepo.UpdatePayment(ctx, &payment); uerr != nil {
			logger.Error("Failed to mark payment failed", uerr)
		}
		return domain.PaymentWithLink{}, err
	}

	payment.InvoiceID = invoice.ID
	payment.InvoiceURL = invoice.InvoiceURL
	if err := s.paymentRepo.UpdatePayment(ctx, &payment); err != nil {
		logger.Error("Failed to save invoice", err)
		return domain.PaymentWithLink{}, err
	}

	return domain.PaymentWithLink{
		ID:          payment.ID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      payment.Status,
		Amount:      payment.Amount,
		PaymentLink: payment.InvoiceURL,
		CreatedAt:   payment.CreatedAt,
	}, nil
}

// MapXenditStatus translates an invoice status. ok is false for statuses
// that do not settle the payment.
func MapXenditStatus(status string) (domain.PaymentStatus, bool) {
	switch strings.ToUpper(status) {
	case domain.XenditStatusPaid, domain.XenditStatusSettled:
		return domain.PaymentStatusPaid, true
	case domain.XenditStatusExpired, domain.XenditStatusFailed:
		return domain.PaymentStatusFailed, true
	default:
		return "", false
	}
}

// ReceivePaymentWebhook applies an invoice callback after checking the
// callback token.
func (s *PaymentsService) ReceivePaymentWebhook(ctx context.Context, token string, request domain.XenditWebhook) error {
	if s.webhookToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.webhookToken)) != 1 {
		return fmt.Errorf("invalid callback token: %w", domain.ErrUnauthorized)
	}

	status, ok := MapXenditStatus(request.Status)
	if !ok {
		logger.Info("ignoring xendit callback", "status", request.Status, "external_id", request.ExternalID)
		return nil
	}

	paymentID, orderID, err := parseExternalID(request.ExternalID)
	if err != nil {
		return err
	}

	payment, err := s.paymentRepo.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.OrderID != orderID {
		return fmt.Errorf("payment %d does not belong to order %d: %w", paymentID, orderID, domain.ErrValidation)
	}

	payment.Status = status
	if payment.InvoiceID == "" {
		payment.InvoiceID = request.ID
	}
	if err := s.paymentRepo.UpdatePayment(ctx, &payment); err != nil {
		logger.Error("Failed to update payment status", err)
		return err
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		logger.Error("Failed to update order payment status", err)
		return err
	}

	logger.Info("payment settled", "payment_id", paymentID, "order_id", orderID, "status", status)

	return nil
}
