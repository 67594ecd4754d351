// Package dashboard serializes every state change and view edit onto one
// goroutine, so updates are applied and drawn strictly in delivery order.
package dashboard

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when work is posted to a loop that has exited.
var ErrStopped = errors.New("dashboard loop stopped")

// Loop runs posted closures one at a time in FIFO order.
type Loop struct {
	tasks   chan func()
	stopped chan struct{}
	once    sync.Once
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		tasks:   make(chan func(), capacity),
		stopped: make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and reports false if
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Call queues fn and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		// fn may have been the last task run before stopping.
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Run executes queued work until ctx is cancelled. Work still queued at
// that point is discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}
