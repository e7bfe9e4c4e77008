//go:build !integration

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"myShopHub/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// stuckWriter blocks every write until the context expires.
type stuckWriter struct {
	attempts chan struct{}
}

func (w *stuckWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	w.attempts <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}

func (w *stuckWriter) Close() error { return nil }

type fakeReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, context.Canceled
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestMessageCarrier(t *testing.T) {
	msg := kafka.Message{}
	carrier := NewMessageCarrier(&msg)

	carrier.Set("traceparent", "a")
	carrier.Set("traceparent", "b")
	carrier.Set("baggage", "k=v")

	assert.Equal(t, "b", carrier.Get("traceparent"))
	assert.Equal(t, "", carrier.Get("missing"))
	assert.ElementsMatch(t, []string{"traceparent", "baggage"}, carrier.Keys())
}

func TestProducerNotify(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, "order-notifications", 4, time.Second)

	n := domain.Notification{
		Kind:      domain.NotificationOrderStatusUpdate,
		Order:     domain.Order{OrderNumber: "ORD-0003", Total: 25},
		Recipient: domain.UserSummary{Name: "Alice", Email: "alice@example.com"},
		OldStatus: domain.OrderStatusPending,
		NewStatus: domain.OrderStatusDelivered,
	}

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "update status")

	otel.SetTextMapPropagator(propagation.TraceContext{})
	require.NoError(t, p.Notify(ctx, n))
	span.End()
	require.NoError(t, p.Close(context.Background()))

	require.Len(t, writer.msgs, 1)
	assert.Equal(t, "ORD-0003", string(writer.msgs[0].Key))

	var decoded domain.Notification
	require.NoError(t, json.Unmarshal(writer.msgs[0].Value, &decoded))
	assert.Equal(t, n.Kind, decoded.Kind)
	assert.Equal(t, n.NewStatus, decoded.NewStatus)
	assert.Equal(t, "alice@example.com", decoded.Recipient.Email)

	carrier := NewMessageCarrier(&writer.msgs[0])
	assert.NotEmpty(t, carrier.Get("traceparent"))
}

func TestProducerNotifyDoesNotWaitForBroker(t *testing.T) {
	writer := &stuckWriter{attempts: make(chan struct{}, 4)}
	p := newProducer(writer, "order-notifications", 1, 200*time.Millisecond)

	n := domain.Notification{Kind: domain.NotificationOrderConfirmation, Order: domain.Order{OrderNumber: "ORD-0001"}}

	start := time.Now()
	require.NoError(t, p.Notify(context.Background(), n))
	<-writer.attempts

	// The writer is stuck on the first message; the second waits in the
	// queue and the third is rejected.
	require.NoError(t, p.Notify(context.Background(), n))
	assert.ErrorIs(t, p.Notify(context.Background(), n), ErrPublishQueueFull)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.NoError(t, p.Close(context.Background()))
	assert.ErrorIs(t, p.Notify(context.Background(), n), ErrProducerClosed)
}

func TestConsumerCommitsFailedMessages(t *testing.T) {
	good, err := json.Marshal(domain.Notification{Kind: domain.NotificationOrderConfirmation, Order: domain.Order{OrderNumber: "ORD-0001"}})
	require.NoError(t, err)

	reader := &fakeReader{msgs: []kafka.Message{
		{Key: []byte("ORD-0001"), Value: good, Offset: 1},
		{Key: []byte("bad"), Value: []byte("{not json"), Offset: 2},
	}}

	var failures []error
	c := newConsumer(reader, "order-notifications", "notify-worker", func(_ context.Context, _ kafka.Message, err error) {
		failures = append(failures, err)
	})

	var delivered []string
	handler := NotificationHandler(func(_ context.Context, n domain.Notification) error {
		delivered = append(delivered, n.Order.OrderNumber)
		return nil
	})

	err = c.Consume(context.Background(), handler)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"ORD-0001"}, delivered)
	require.Len(t, failures, 1)
	assert.True(t, errors.Is(failures[0], ErrMalformedNotification))
	assert.Len(t, reader.committed, 2)
}
