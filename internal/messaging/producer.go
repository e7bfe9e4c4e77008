package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/metrics"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var producerTracer = otel.Tracer("messaging/producer")

var (
	ErrPublishQueueFull = errors.New("notification publish queue is full")
	ErrProducerClosed   = errors.New("notification producer is closed")
)

const (
	defaultPublishQueue   = 256
	defaultPublishTimeout = 10 * time.Second
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// pendingNotification is a message waiting for the background writer,
// with the span opened when it was queued.
type pendingNotification struct {
	msg  kafka.Message
	kind domain.NotificationKind
	span trace.Span
}

// Producer publishes to one topic. Notify only queues; a single
// background goroutine writes to the broker so a slow broker never holds
// up the caller.
type Producer struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	queue   chan pendingNotification
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewProducer(brokers []string, topic string) *Producer {
	return newProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
	}, topic, defaultPublishQueue, defaultPublishTimeout)
}

func newProducer(writer messageWriter, topic string, queueSize int, timeout time.Duration) *Producer {
	p := &Producer{
		writer:  writer,
		topic:   topic,
		timeout: timeout,
		queue:   make(chan pendingNotification, queueSize),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Notify queues an order notification keyed by order number, so the
// emails of one order keep their order. It never waits on the broker.
func (p *Producer) Notify(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := kafka.Message{Key: []byte(n.Order.OrderNumber), Value: data}
	if len(msg.Key) == 0 {
		msg.Key = []byte(uuid.NewString())
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrProducerClosed
	}

	_, span := p.startSpan(ctx, &msg)

	select {
	case p.queue <- pendingNotification{msg: msg, kind: n.Kind, span: span}:
		return nil
	default:
		span.SetStatus(codes.Error, ErrPublishQueueFull.Error())
		span.End()
		return ErrPublishQueueFull
	}
}

func (p *Producer) run() {
	defer p.wg.Done()

	for pending := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		ctx = trace.ContextWithSpan(ctx, pending.span)

		result := "published"
		if err := p.write(ctx, pending.msg, pending.span); err != nil {
			result = "publish_failed"
			logger.Error("Failed to publish order notification", err, "key", string(pending.msg.Key))
		}
		metrics.Notifications.WithLabelValues(string(pending.kind), result).Inc()

		pending.span.End()
		cancel()
	}
}

func (p *Producer) startSpan(ctx context.Context, msg *kafka.Message) (context.Context, trace.Span) {
	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(string(msg.Key)),
		),
	)

	otel.GetTextMapPropagator().Inject(ctx, NewMessageCarrier(msg))

	return ctx, span
}

func (p *Producer) write(ctx context.Context, msg kafka.Message, span trace.Span) error {
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}

	return nil
}

// Close stops accepting notifications, waits for the queued ones to be
// written or for ctx to expire, then closes the writer.
func (p *Producer) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.writer.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}
