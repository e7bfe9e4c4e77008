package postgres

import (
	"context"
	"errors"
	"fmt"
	"myShopHub/domain"
	"time"

	"gorm.io/gorm"
)

var errPaymentNotFound = fmt.Errorf("payment %w", domain.ErrNotFound)

type PaymentsRepository struct {
	DB *gorm.DB
}

func NewPaymentsRepository(db *gorm.DB) *PaymentsRepository {
	return &PaymentsRepository{
		DB: db,
	}
}

func (r *PaymentsRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if err := r.DB.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *PaymentsRepository) GetPayment(ctx context.Context, id uint) (domain.Payment, error) {
	var payment domain.Payment
	err := r.DB.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, errPaymentNotFound
		}
		return domain.Payment{}, fmt.Errorf("failed to find payment: %w", err)
	}

	return payment, nil
}

func (r *PaymentsRepository) UpdatePayment(ctx context.Context, payment *domain.Payment) error {
	payment.UpdatedAt = time.Now()

	result := r.DB.WithContext(ctx).Model(&domain.Payment{}).Where("id = ?", payment.ID).
		Select("invoice_id", "invoice_url", "status", "updated_at").
		Updates(payment)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errPaymentNotFound
	}

	return nil
}
