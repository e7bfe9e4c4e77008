//go:build !integration

package payments

import (
	"context"
	"errors"
	"testing"

	"myShopHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	payments map[uint]domain.Payment
	orders   map[uint]domain.Order
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		payments: map[uint]domain.Payment{},
		orders: map[uint]domain.Order{
			1: {ID: 1, UserID: 7, OrderNumber: "ORD-0001", Total: 25, PaymentStatus: domain.PaymentStatusPending,
				Items: []domain.OrderItem{{Name: "A", Price: 10, Quantity: 2}, {Name: "B", Price: 5, Quantity: 1}}},
			2: {ID: 2, UserID: 7, OrderNumber: "ORD-0002", Total: 5, PaymentStatus: domain.PaymentStatusPaid},
		},
	}
}

func (f *fakeRepo) CreatePayment(_ context.Context, p *domain.Payment) error {
	p.ID = uint(len(f.payments) + 1)
	f.payments[p.ID] = *p
	return nil
}

func (f *fakeRepo) GetPayment(_ context.Context, id uint) (domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) UpdatePayment(_ context.Context, p *domain.Payment) error {
	f.payments[p.ID] = *p
	return nil
}

func (f *fakeRepo) GetOrder(_ context.Context, id uint) (domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeRepo) UpdatePaymentStatus(_ context.Context, id uint, status domain.PaymentStatus) error {
	o := f.orders[id]
	o.PaymentStatus = status
	f.orders[id] = o
	return nil
}

type fakeGateway struct {
	last domain.XenditInvoiceRequest
	err  error
}

func (g *fakeGateway) CreateInvoice(_ context.Context, req domain.XenditInvoiceRequest) (domain.XenditResponse, error) {
	g.last = req
	if g.err != nil {
		return domain.XenditResponse{}, g.err
	}
	return domain.XenditResponse{ID: "inv_1", InvoiceURL: "https://checkout.xendit.co/inv_1", Status: domain.XenditStatusPending}, nil
}

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("issues invoice for own unpaid order", func(t *testing.T) {
		repo, gw := newFakeRepo(), &fakeGateway{}
		svc := NewPaymentsService(repo, repo, gw, "secret")

		res, err := svc.CreatePayment(ctx, 1, 7, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.xendit.co/inv_1", res.PaymentLink)
		assert.Equal(t, "1|1", gw.last.ExternalID)
		assert.Equal(t, 25.0, gw.last.Amount)
		assert.Len(t, gw.last.Items, 2)
		assert.Equal(t, "inv_1", repo.payments[res.ID].InvoiceID)
	})

	t.Run("rejects foreign and paid orders", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewPaymentsService(repo, repo, &fakeGateway{}, "secret")

		_, err := svc.CreatePayment(ctx, 1, 8, "bob@example.com")
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.CreatePayment(ctx, 2, 7, "alice@example.com")
		assert.ErrorIs(t, err, domain.ErrConflict)

		_, err = svc.CreatePayment(ctx, 3, 7, "alice@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("gateway failure marks payment failed", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewPaymentsService(repo, repo, &fakeGateway{err: errors.New("timeout")}, "secret")

		_, err := svc.CreatePayment(ctx, 1, 7, "alice@example.com")
		require.Error(t, err)
		assert.Equal(t, domain.PaymentStatusFailed, repo.payments[1].Status)
	})
}

func TestReceivePaymentWebhook(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*PaymentsService, *fakeRepo) {
		repo := newFakeRepo()
		svc := NewPaymentsService(repo, repo, &fakeGateway{}, "secret")
		_, err := svc.CreatePayment(ctx, 1, 7, "alice@example.com")
		require.NoError(t, err)
		return svc, repo
	}

	t.Run("paid settles order", func(t *testing.T) {
		svc, repo := setup(t)

		require.NoError(t, svc.ReceivePaymentWebhook(ctx, "secret", domain.XenditWebhook{ExternalID: "1|1", Status: "PAID"}))
		assert.Equal(t, domain.PaymentStatusPaid, repo.orders[1].PaymentStatus)
		assert.Equal(t, domain.PaymentStatusPaid, repo.payments[1].Status)
	})

	t.Run("expired fails payment", func(t *testing.T) {
		svc, repo := setup(t)

		require.NoError(t, svc.ReceivePaymentWebhook(ctx, "secret", domain.XenditWebhook{ExternalID: "1|1", Status: "EXPIRED"}))
		assert.Equal(t, domain.PaymentStatusFailed, repo.orders[1].PaymentStatus)
	})

	t.Run("wrong token", func(t *testing.T) {
		svc, repo := setup(t)

		err := svc.ReceivePaymentWebhook(ctx, "guess", domain.XenditWebhook{ExternalID: "1|1", Status: "PAID"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, domain.PaymentStatusPending, repo.orders[1].PaymentStatus)
	})

	t.Run("pending is ignored and bad ids rejected", func(t *testing.T) {
		svc, repo := setup(t)

		require.NoError(t, svc.ReceivePaymentWebhook(ctx, "secret", domain.XenditWebhook{ExternalID: "1|1", Status: "PENDING"}))
		assert.Equal(t, domain.PaymentStatusPending, repo.orders[1].PaymentStatus)

		err := svc.ReceivePaymentWebhook(ctx, "secret", domain.XenditWebhook{ExternalID: "garbage", Status: "PAID"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		err = svc.ReceivePaymentWebhook(ctx, "secret", domain.XenditWebhook{ExternalID: "1|2", Status: "PAID"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
