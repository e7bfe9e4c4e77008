package domain

import "time"

type NotificationKind string

const (
	NotificationOrderConfirmation NotificationKind = "order_confirmation"
	NotificationOrderStatusUpdate NotificationKind = "order_status_update"
)

// Notification is one transactional email about an order. It is also the
// payload published to kafka when the broker transport is enabled.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	Order     Order            `json:"order"`
	Recipient UserSummary      `json:"recipient"`
	OldStatus OrderStatus      `json:"old_status,omitempty"`
	NewStatus OrderStatus      `json:"new_status,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
