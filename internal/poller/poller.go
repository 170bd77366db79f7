package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/devbm7/synthgen/internal/logger"
	"github.com/devbm7/synthgen/internal/models"
)

var (
	// ErrMaxAttempts signals that the optional attempt cap was reached
	// before the task settled into a terminal state
	ErrMaxAttempts = errors.New("maximum poll attempts reached")
	// ErrStopped signals an explicit Stop while waiting
	ErrStopped = errors.New("polling stopped")
)

// PollFunc issues one status fetch and returns the mapped status
type PollFunc func() (models.TaskStatus, error)

// Observer is notified after every attempt, successful or not
type Observer func(attempt int, status models.TaskStatus, err error)

// Poller drives a PollFunc on a fixed interval until the task reaches a
// terminal state. Poll errors do not stop the loop; the same request is
// retried on the next tick. A maxAttempts of 0 keeps polling without
// bound, matching the original behavior; cancellation then comes from
// the context or an explicit Stop.
type Poller struct {
	interval    time.Duration
	maxAttempts int

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

// New creates a poller with the given tick interval and attempt cap
func New(interval time.Duration, maxAttempts int) *Poller {
	return &Poller{
		interval:    interval,
		maxAttempts: maxAttempts,
		stop:        make(chan struct{}),
	}
}

// Wait polls until a terminal status, cancellation, Stop, or the
// attempt cap. The first poll fires immediately; subsequent polls fire
// on the ticker.
func (p *Poller) Wait(ctx context.Context, poll PollFunc, observe Observer) (models.TaskStatus, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	attempt := 0
	for {
		attempt++
		status, err := poll()
		if observe != nil {
			observe(attempt, status, err)
		}

		if err != nil {
			logger.Error("Poll attempt %d failed: %v", attempt, err)
		} else if status.Terminal() {
			return status, nil
		}

		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return status, ErrMaxAttempts
		}

		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-p.stop:
			return status, ErrStopped
		case <-ticker.C:
		}
	}
}

// Stop terminates any in-flight Wait. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		close(p.stop)
		p.stopped = true
	}
}
