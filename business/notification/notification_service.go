package notification

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/metrics"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer is the outbound email transport.
type Mailer interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, text, html string) error
}

var statusMessages = map[domain.OrderStatus]string{
	domain.OrderStatusConfirmed: "Your order has been confirmed and is being processed.",
	domain.OrderStatusShipped:   "Your order has been shipped! Track your package below.",
	domain.OrderStatusDelivered: "Your order has been delivered! We hope you enjoy your purchase.",
	domain.OrderStatusCancelled: "Your order has been cancelled as requested.",
}

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(2)
	},
	"line": func(price, qty float64) string {
		return decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(qty)).StringFixed(2)
	},
	"qty": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"statusMessage": statusMessage,
}

func statusMessage(status domain.OrderStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "Your order status has been updated."
}

type Service struct {
	mailer  Mailer
	appName string
	tmpl    *template.Template
}

func NewService(mailer Mailer, appName string) *Service {
	return &Service{
		mailer:  mailer,
		appName: appName,
		tmpl:    template.Must(template.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

func (s *Service) Render(n domain.Notification) (Message, error) {
	var (
		name string
		msg  Message
	)

	switch n.Kind {
	case domain.NotificationOrderConfirmation:
		name = "order_confirmation.html"
		msg.Subject = "Order Confirmed - " + n.Order.OrderNumber
		msg.Text = fmt.Sprintf("Hello %s, your order %s is confirmed. Total: $%s.",
			n.Recipient.Name, n.Order.OrderNumber, decimal.NewFromFloat(n.Order.Total).StringFixed(2))
	case domain.NotificationOrderStatusUpdate:
		name = "order_status_update.html"
		msg.Subject = "Order Update - " + n.Order.OrderNumber
		msg.Text = fmt.Sprintf("Hello %s, your order %s moved from %s to %s. %s",
			n.Recipient.Name, n.Order.OrderNumber, n.OldStatus, n.NewStatus, statusMessage(n.NewStatus))
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, n); err != nil {
		return Message{}, fmt.Errorf("failed to render %s: %w", name, err)
	}
	msg.HTML = buf.String()

	return msg, nil
}

// Deliver renders and sends one notification, recording the outcome.
func (s *Service) Deliver(ctx context.Context, n domain.Notification) error {
	if n.Recipient.Email == "" {
		metrics.Notifications.WithLabelValues(string(n.Kind), "skipped").Inc()
		return errors.New("notification has no recipient")
	}

	msg, err := s.Render(n)
	if err != nil {
		metrics.Notifications.WithLabelValues(string(n.Kind), "failed").Inc()
		return err
	}

	if err := s.mailer.SendEmail(ctx, n.Recipient.Name, n.Recipient.Email, msg.Subject, msg.Text, msg.HTML); err != nil {
		metrics.Notifications.WithLabelValues(string(n.Kind), "failed").Inc()
		return fmt.Errorf("failed to send %s email for %s: %w", n.Kind, n.Order.OrderNumber, err)
	}

	metrics.Notifications.WithLabelValues(string(n.Kind), "sent").Inc()
	logger.Info("order email sent", "kind", n.Kind, "order_number", n.Order.OrderNumber, "to", n.Recipient.Email)

	return nil
}

// SendTestEmail checks the mail configuration end to end.
func (s *Service) SendTestEmail(ctx context.Context, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("recipient email is required: %w", domain.ErrValidation)
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "test_email.html", map[string]string{"AppName": s.appName}); err != nil {
		return fmt.Errorf("failed to render test email: %w", err)
	}

	subject := "Test Email from " + s.appName
	text := "This is a test email. If you received this, your email configuration is working correctly!"
	if err := s.mailer.SendEmail(ctx, "", to, subject, text, buf.String()); err != nil {
		logger.Error("Failed to send test email", err)
		return err
	}

	return nil
}
