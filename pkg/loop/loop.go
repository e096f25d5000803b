package loop

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Scheduler defers work to the next scheduling turn.
// Post must be safe to call from any goroutine.
type Scheduler interface {
	Post(fn func())
}

// Loop is a FIFO task queue processed by a single consumer.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool

	logger *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for recovered task panics.
// If unset, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// New creates an empty loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Post queues fn to run on a later turn.
// Tasks posted after Close are discarded.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs queued tasks, including tasks they post, until the queue is
// empty. It returns the number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn := l.next()
		if fn == nil {
			return n
		}
		l.safeExecute(fn)
		n++
	}
}

// RunUntil processes tasks as they arrive until done is closed, then drains
// whatever is left. It returns ctx.Err() if ctx ends first.
func (l *Loop) RunUntil(ctx context.Context, done <-chan struct{}) error {
	for {
		l.Drain()
		select {
		case <-done:
			l.Drain()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Run processes tasks until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		if l.isClosed() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Call runs fn on the loop and waits for it to finish.
// It must not be called from a loop task; the loop must be running.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and wakes Run so it can return.
// Tasks already queued are still drained by Run.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed && len(l.queue) == 0
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// safeExecute runs a task with panic recovery.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	fn()
}
