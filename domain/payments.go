package domain

import "time"

type (
	// Payment records one Xendit invoice issued for an order.
	Payment struct {
		ID         uint          `gorm:"primaryKey" json:"id"`
		OrderID    uint          `gorm:"column:order_id;not null;index" json:"order_id"`
		UserID     uint          `gorm:"column:user_id;not null;index" json:"user_id"`
		InvoiceID  string        `gorm:"column:invoice_id" json:"invoice_id"`
		InvoiceURL string        `gorm:"column:invoice_url" json:"invoice_url"`
		Amount     float64       `gorm:"column:amount;type:numeric;not null" json:"amount"`
		Status     PaymentStatus `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
		CreatedAt  time.Time     `json:"created_at"`
		UpdatedAt  time.Time     `json:"updated_at"`
	}

	PaymentWithLink struct {
		ID          uint          `json:"id"`
		OrderID     uint          `json:"order_id"`
		OrderNumber string        `json:"order_number"`
		Status      PaymentStatus `json:"status"`
		Amount      float64       `json:"amount"`
		PaymentLink string        `json:"payment_link"`
		CreatedAt   time.Time     `json:"created_at"`
	}
)

func (Payment) TableName() string {
	return "payments"
}
