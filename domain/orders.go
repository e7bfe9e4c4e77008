package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

const OrderNumberPrefix = "ORD"

// FormatOrderNumber renders the nth order number, e.g. 4 -> ORD-0004.
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("%s-%04d", OrderNumberPrefix, n)
}

// OrderItem is the line item snapshot taken at checkout. It is never
// re-joined with the live catalog.
type OrderItem struct {
	ProductID uint    `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

type Order struct {
	ID            uint                           `gorm:"primaryKey" json:"id"`
	UserID        uint                           `gorm:"column:user_id;not null;index" json:"user_id"`
	User          *UserSummary                   `gorm:"-" json:"user,omitempty"`
	Items         datatypes.JSONSlice[OrderItem] `gorm:"column:items;type:jsonb;not null" json:"items"`
	Total         float64                        `gorm:"column:total;type:numeric;not null" json:"total"`
	Status        OrderStatus                    `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	PaymentStatus PaymentStatus                  `gorm:"column:payment_status;type:varchar(20);not null;default:pending" json:"payment_status"`
	OrderNumber   string                         `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	CreatedAt     time.Time                      `json:"created_at"`
	UpdatedAt     time.Time                      `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// CartItem is the checkout input. Price and quantity are lenient numbers.
type CartItem struct {
	ProductID uint          `json:"product_id"`
	Name      string        `json:"name"`
	Price     LenientNumber `json:"price"`
	Quantity  LenientNumber `json:"quantity"`
	Image     string        `json:"image"`
}

// LenientNumber accepts JSON numbers and numeric strings. Anything else,
// including null, booleans and NaN, decodes to zero instead of failing.
type LenientNumber float64

func (n *LenientNumber) UnmarshalJSON(data []byte) error {
	*n = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	*n = LenientNumber(v)
	return nil
}

// OrderFilter narrows admin listings. An empty status matches all.
type OrderFilter struct {
	Status OrderStatus
}
