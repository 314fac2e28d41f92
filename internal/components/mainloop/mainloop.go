// Package mainloop provides a single goroutine that completion callbacks are
// delivered on, so that they can mutate shared state without extra locking.
package mainloop

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("mainloop: closed")

type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// New creates a loop whose queue holds up to `buffer` pending callbacks
// before Post starts blocking.
func New(buffer int) *Loop {
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post schedules fn to run on the loop goroutine.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted callbacks one at a time until ctx is cancelled or the
// loop is closed. It must only be called from one goroutine.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			l.drain()
			return
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// Close stops accepting callbacks, Run returns after running the ones already queued.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.done)
	})
}
