package command

import (
	"context"
	"fmt"

	"github.com/vango-dev/datacontext/internal/errors"
)

// Outcome is what an action returns: an immediate value or a pending result.
type Outcome struct {
	value   any
	pending *Result
}

// Immediate wraps a synchronously computed value.
func Immediate(v any) Outcome {
	return Outcome{value: v}
}

// Pending wraps a result that settles later. A nil result is Immediate(nil).
func Pending(r *Result) Outcome {
	return Outcome{pending: r}
}

// IsPending reports whether o carries a result.
func (o Outcome) IsPending() bool {
	return o.pending != nil
}

// Value returns the immediate value (nil for pending outcomes).
func (o Outcome) Value() any {
	return o.value
}

// Result returns the pending result, or a resolved result for immediate
// outcomes.
func (o Outcome) Result() *Result {
	if o.pending != nil {
		return o.pending
	}
	return Resolved(o.value)
}

// Async runs fn on its own goroutine and returns a cancellable pending
// outcome. Cancelling the result cancels the context passed to fn.
func Async(ctx context.Context, fn func(ctx context.Context) (any, error)) Outcome {
	ctx, cancel := context.WithCancel(ctx)
	r := NewCancellableResult(cancel)

	go func() {
		defer cancel()
		defer func() {
			if p := recover(); p != nil {
				r.Reject(errors.New("DC041").WithDetail(fmt.Sprint(p)))
			}
		}()

		v, err := fn(ctx)
		if err != nil {
			r.Reject(err)
			return
		}
		if ctx.Err() != nil {
			r.Reject(errors.New("DC042").Wrap(ErrAborted))
			return
		}
		r.Resolve(v)
	}()

	return Pending(r)
}
