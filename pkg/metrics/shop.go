package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Orders persisted by checkout
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	// Admin status changes that actually moved an order
	OrderStatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by previous and new status",
	}, []string{"from", "to"})

	// Notification attempts by kind and result (sent, failed, dropped)
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Order notifications by kind and result",
	}, []string{"kind", "result"})

	ReviewsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews created",
	})

	ChatSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_sessions_active",
		Help: "Currently connected chat sessions",
	})
)

func Init() {
	prometheus.MustRegister(
		OrdersCreated,
		OrderStatusTransitions,
		Notifications,
		ReviewsCreated,
		ChatSessionsActive,
	)
}
