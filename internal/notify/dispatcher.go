package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
)

var (
	ErrQueueFull = errors.New("notification queue full")
	ErrClosed    = errors.New("notification dispatcher closed")
)

type job struct {
	ap models.Appointment
	ev domain.Event
}

// Dispatcher hands committed appointment events to the channel notifiers on
// a background worker. Notify only enqueues.
type Dispatcher struct {
	targets []domain.Notifier
	log     *zap.Logger
	timeout time.Duration
	queue   chan job
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(log *zap.Logger, targets ...domain.Notifier) *Dispatcher {
	d := &Dispatcher{
		targets: targets,
		log:     log,
		timeout: 10 * time.Second,
		queue:   make(chan job, 256),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

// Notify enqueues without blocking. Calls after Close are refused.
func (d *Dispatcher) Notify(_ context.Context, ap models.Appointment, ev domain.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- job{ap: ap, ev: ev}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for j := range d.queue {
		for _, target := range d.targets {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			if err := target.Notify(ctx, j.ap, j.ev); err != nil {
				d.log.Warn("notification failed",
					zap.String("appointment_id", j.ap.ID.String()),
					zap.String("event", string(j.ev)),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Close delivers what is already queued and stops the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

var _ domain.Notifier = (*Dispatcher)(nil)
