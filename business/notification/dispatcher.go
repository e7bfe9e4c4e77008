package notification

import (
	"context"
	"errors"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"sync"
	"time"
)

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
)

// Deliverer sends a single notification.
type Deliverer interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// Dispatcher is the in-process notification transport: a bounded queue
// drained by a fixed set of workers. Notify never blocks.
type Dispatcher struct {
	deliverer Deliverer
	timeout   time.Duration
	queue     chan domain.Notification
	wg        sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(deliverer Deliverer, queueSize, workers int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	d := &Dispatcher{
		deliverer: deliverer,
		timeout:   timeout,
		queue:     make(chan domain.Notification, queueSize),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}

	return d
}

func (d *Dispatcher) Notify(_ context.Context, n domain.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()

	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.deliverer.Deliver(ctx, n); err != nil {
			logger.Error("Failed to deliver order notification", err, "order_number", n.Order.OrderNumber)
		}
		cancel()
	}
}

// Close stops accepting notifications and waits until the queue is
// drained or ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
