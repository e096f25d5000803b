package command

import (
	"context"
	"sync"
)

// Result is the handle for one command invocation. It settles exactly once,
// either resolved with a value or rejected with an error.
// Result is safe for concurrent use.
type Result struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	value     any
	err       error
	cancel    func()
	callbacks []func(*Result)
}

// NewResult creates an unsettled result.
func NewResult() *Result {
	return &Result{done: make(chan struct{})}
}

// NewCancellableResult creates an unsettled result whose Cancel calls cancel.
func NewCancellableResult(cancel func()) *Result {
	r := NewResult()
	r.cancel = cancel
	return r
}

// Resolved returns a result already resolved with v.
func Resolved(v any) *Result {
	r := NewResult()
	r.Resolve(v)
	return r
}

// Rejected returns a result already rejected with err.
func Rejected(err error) *Result {
	r := NewResult()
	r.Reject(err)
	return r
}

// Resolve settles r with v. It returns false if r was already settled.
func (r *Result) Resolve(v any) bool {
	return r.settle(v, nil)
}

// Reject settles r with err. It returns false if r was already settled.
func (r *Result) Reject(err error) bool {
	return r.settle(nil, err)
}

func (r *Result) settle(v any, err error) bool {
	r.mu.Lock()
	if r.settled {
		r.mu.Unlock()
		return false
	}
	r.settled = true
	r.value = v
	r.err = err
	callbacks := r.callbacks
	r.callbacks = nil
	r.mu.Unlock()

	// Done closes after callbacks so a waiter sees their effects, such as
	// finalisation already posted to a loop.
	for _, fn := range callbacks {
		fn(r)
	}
	close(r.done)
	return true
}

// Always registers fn to run once r settles. If r has already settled, fn
// runs immediately on the calling goroutine; otherwise it runs on the
// goroutine that settles r.
func (r *Result) Always(fn func(*Result)) {
	r.mu.Lock()
	if !r.settled {
		r.callbacks = append(r.callbacks, fn)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	fn(r)
}

// Forward settles to with r's outcome once r settles.
func (r *Result) Forward(to *Result) {
	r.Always(func(src *Result) {
		to.settle(src.Value(), src.Err())
	})
}

// Done returns a channel closed when r settles.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// IsDone reports whether r has settled.
func (r *Result) IsDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settled
}

// Value returns the resolved value, or nil.
func (r *Result) Value() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Err returns the rejection error, or nil.
func (r *Result) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait blocks until r settles or ctx is done.
func (r *Result) Wait(ctx context.Context) (any, error) {
	select {
	case <-r.done:
		return r.Value(), r.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancellable reports whether r carries a cancel function.
func (r *Result) Cancellable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Cancel requests cancellation of the underlying work. It returns false if
// r is not cancellable or has already settled. Cancellation is a request:
// r settles when the work observes it.
func (r *Result) Cancel() bool {
	r.mu.Lock()
	cancel := r.cancel
	settled := r.settled
	r.mu.Unlock()

	if cancel == nil || settled {
		return false
	}
	cancel()
	return true
}
