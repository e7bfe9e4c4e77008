package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"myShopHub/domain"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	consumerTracer = otel.Tracer("messaging/consumer")
	consumerMeter  = otel.Meter("messaging/consumer")
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one message payload.
type Handler func(ctx context.Context, payload []byte) error

// ErrorHandler is told about payloads the Handler rejected. The message is
// committed afterwards so one bad message cannot stall the partition.
type ErrorHandler func(ctx context.Context, msg kafka.Message, err error)

type Consumer struct {
	reader    messageReader
	topic     string
	groupID   string
	onError   ErrorHandler
	processed metric.Int64Counter
}

type ConsumerOption func(*kafka.ReaderConfig)

func WithStartOffset(offset int64) ConsumerOption {
	return func(cfg *kafka.ReaderConfig) {
		cfg.StartOffset = offset
	}
}

func NewConsumer(brokers []string, topic, groupID string, onError ErrorHandler, opts ...ConsumerOption) *Consumer {
	cfg := kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return newConsumer(kafka.NewReader(cfg), topic, groupID, onError)
}

func newConsumer(reader messageReader, topic, groupID string, onError ErrorHandler) *Consumer {
	processed, err := consumerMeter.Int64Counter("messaging.process.messages",
		metric.WithDescription("Messages processed by result"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &Consumer{
		reader:    reader,
		topic:     topic,
		groupID:   groupID,
		onError:   onError,
		processed: processed,
	}
}

// Consume runs until ctx is cancelled or the reader fails.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.processMessage(ctx, msg, handler); err != nil {
			if c.onError != nil {
				c.onError(ctx, msg, err)
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message, handler Handler) error {
	parentCtx := otel.GetTextMapPropagator().Extract(ctx, NewMessageCarrier(&msg))

	spanCtx, span := consumerTracer.Start(parentCtx, "process "+c.topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("process"),
			semconv.MessagingOperationTypeDeliver,
			semconv.MessagingDestinationName(c.topic),
			semconv.MessagingKafkaConsumerGroup(c.groupID),
			semconv.MessagingKafkaMessageOffset(int(msg.Offset)),
			semconv.MessagingDestinationPartitionID(strconv.Itoa(msg.Partition)),
			semconv.MessagingKafkaMessageKey(string(msg.Key)),
		),
	)
	defer span.End()

	result := "ok"
	defer func() {
		if c.processed != nil {
			c.processed.Add(ctx, 1, metric.WithAttributes(
				attribute.String("topic", c.topic),
				attribute.String("result", result),
			))
		}
	}()

	if err := handler(spanCtx, msg.Value); err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

var ErrMalformedNotification = errors.New("malformed notification")

// NotificationHandler decodes domain.Notification payloads for deliver.
func NotificationHandler(deliver func(ctx context.Context, n domain.Notification) error) Handler {
	return func(ctx context.Context, payload []byte) error {
		var n domain.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedNotification, err)
		}
		return deliver(ctx, n)
	}
}
