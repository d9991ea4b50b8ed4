package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"familyledger/logger"
	"familyledger/models"
)

// ErrAlertQueueFull is returned when the worker is too far behind to accept another alert.
var ErrAlertQueueFull = errors.New("alert queue full")

// ErrAlertQueueClosed is returned for alerts raised after Close.
var ErrAlertQueueClosed = errors.New("alert queue closed")

const (
	DefaultAlertQueueSize = 100
	DefaultAlertTimeout   = 30 * time.Second
)

// QueuedNotifier hands alerts to a single background worker, so a slow SMTP
// server or broker never delays the expense write that raised the alert.
// Each delivery gets its own timeout, detached from the request.
type QueuedNotifier struct {
	next    AlertNotifier
	queue   chan models.BudgetAlert
	timeout time.Duration
	log     *logger.Logger
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewQueuedNotifier starts the worker. Zero size or timeout use the defaults.
func NewQueuedNotifier(next AlertNotifier, size int, timeout time.Duration, log *logger.Logger) *QueuedNotifier {
	if size <= 0 {
		size = DefaultAlertQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultAlertTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	q := &QueuedNotifier{
		next:    next,
		queue:   make(chan models.BudgetAlert, size),
		timeout: timeout,
		log:     log.WithComponent(logger.ComponentNotify),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// NotifyBudgetAlert enqueues alert and returns at once.
func (q *QueuedNotifier) NotifyBudgetAlert(_ context.Context, alert models.BudgetAlert) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrAlertQueueClosed
	}
	select {
	case q.queue <- alert:
		return nil
	default:
		return ErrAlertQueueFull
	}
}

func (q *QueuedNotifier) run() {
	defer close(q.done)
	for alert := range q.queue {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		if err := q.next.NotifyBudgetAlert(ctx, alert); err != nil {
			q.log.Warn("budget alert not delivered",
				logger.FieldBudgetID, alert.BudgetID,
				logger.FieldFamilyID, alert.FamilyID,
				logger.FieldStatus, string(alert.Status),
				logger.FieldError, err)
		}
		cancel()
	}
}

// Close stops accepting alerts and waits until the queued ones are delivered
// or ctx ends.
func (q *QueuedNotifier) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.queue)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
