package command

import (
	"context"
	"errors"
	"testing"
	"time"

	dcerrors "github.com/vango-dev/datacontext/internal/errors"
	"github.com/vango-dev/datacontext/pkg/loop"
)

func TestOnce(t *testing.T) {
	l := loop.New()
	calls := 0
	c := newTestCommand(t, l, func(any, ...any) (Outcome, error) {
		calls++
		return Immediate(nil), nil
	}, WithModifiers(Once()))

	if !c.CanExecute() {
		t.Fatal("CanExecute() before first run = false")
	}
	c.Execute()
	l.Drain()

	if c.CanExecute() {
		t.Error("CanExecute() after successful run = true, want false")
	}
	if _, err := c.Execute(); !errors.Is(err, ErrCannotExecute) {
		t.Errorf("second Execute() error = %v, want ErrCannotExecute", err)
	}

	var events []EventKind
	c.Subscribe(func(ev Event) { events = append(events, ev.Kind) })
	if !c.ResetOnce() {
		t.Error("ResetOnce() = false, want true")
	}
	if len(events) != 1 || events[0] != EventCanExecute {
		t.Errorf("ResetOnce events = %v, want [canExecute]", events)
	}
	if !c.CanExecute() {
		t.Error("CanExecute() after ResetOnce = false, want true")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestOnceKeepsOriginalCondition(t *testing.T) {
	l := loop.New()
	allowed := false
	c := newTestCommand(t, l, immediate(nil),
		WithCondition(func(any, ...any) bool { return allowed }),
		WithModifiers(Once()))

	if c.CanExecute() {
		t.Error("once ignored the original condition")
	}
	allowed = true
	if !c.CanExecute() {
		t.Error("CanExecute() = false with condition true and not executed")
	}
}

func TestOncePendingFailureDoesNotMark(t *testing.T) {
	l := loop.New()
	var pending *Result
	c := newTestCommand(t, l, func(any, ...any) (Outcome, error) {
		pending = NewResult()
		return Pending(pending), nil
	}, WithModifiers(Once()))

	c.Execute()
	pending.Reject(errors.New("nope"))
	l.Drain()
	if !c.CanExecute() {
		t.Error("failed run marked once as executed")
	}

	c.Execute()
	pending.Resolve("ok")
	l.Drain()
	if c.CanExecute() {
		t.Error("successful pending run did not mark once as executed")
	}
}

func TestOnceSyncErrorDoesNotMark(t *testing.T) {
	l := loop.New()
	c := newTestCommand(t, l, func(any, ...any) (Outcome, error) {
		return Outcome{}, errors.New("fail")
	}, WithModifiers(Once()))

	c.Execute()
	l.Drain()
	if !c.CanExecute() {
		t.Error("sync failure marked once as executed")
	}
}

func TestResetOnceWithoutModifier(t *testing.T) {
	l := loop.New()
	c := newTestCommand(t, l, immediate(nil))
	if c.ResetOnce() {
		t.Error("ResetOnce() without once modifier = true")
	}
}

func TestDebounceCoalesces(t *testing.T) {
	l := loop.New()
	calls := 0
	var lastArg any
	c := newTestCommand(t, l, func(_ any, args ...any) (Outcome, error) {
		calls++
		lastArg = args[0]
		return Immediate(lastArg), nil
	}, WithModifiers(Debounce(20*time.Millisecond)))

	var results []*Result
	for i := 1; i <= 3; i++ {
		res, err := c.Execute(i)
		if err != nil {
			t.Fatalf("Execute(%d) error = %v", i, err)
		}
		results = append(results, res)
	}
	for _, r := range results[1:] {
		if r != results[0] {
			t.Fatal("debounced callers did not share one result")
		}
	}
	if calls != 0 {
		t.Errorf("action ran before the window closed (%d calls)", calls)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.RunUntil(ctx, results[0].Done()); err != nil {
		t.Fatalf("RunUntil() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	for i, r := range results {
		if r.Value() != 3 {
			t.Errorf("results[%d].Value() = %v, want 3", i, r.Value())
		}
	}
	if c.IsRunning() {
		t.Error("IsRunning() after debounced run = true")
	}

	next, err := c.Execute(4)
	if err != nil {
		t.Fatalf("Execute after window error = %v", err)
	}
	if next == results[0] {
		t.Error("new burst reused the previous handle")
	}
	c.Abort()
	l.RunUntil(ctx, next.Done())
}

func TestDebounceRejectsWhileActionRuns(t *testing.T) {
	l := loop.New()
	pending := NewResult()
	invoked := make(chan struct{})
	c := newTestCommand(t, l, func(any, ...any) (Outcome, error) {
		close(invoked)
		return Pending(pending), nil
	}, WithModifiers(Debounce(5*time.Millisecond)))

	first, err := c.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !c.CanExecute() {
		t.Error("CanExecute() with an open window = false")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.RunUntil(ctx, invoked); err != nil {
		t.Fatalf("RunUntil() error = %v", err)
	}

	// The window has fired and the action is in flight.
	if c.CanExecute() {
		t.Error("CanExecute() while the action runs = true")
	}
	if _, err := c.Execute(); !errors.Is(err, ErrCannotExecute) {
		t.Errorf("Execute() while the action runs error = %v, want ErrCannotExecute", err)
	}

	pending.Resolve("ok")
	l.Drain()
	if first.Value() != "ok" || c.IsRunning() {
		t.Errorf("first = %v, running = %v", first.Value(), c.IsRunning())
	}
	next, err := c.Execute()
	if err != nil || next == first {
		t.Errorf("Execute() after idle = %v, %v; want a new handle", next, err)
	}
	c.Abort()
}

func TestDebounceSharesRejection(t *testing.T) {
	l := loop.New()
	boom := errors.New("boom")
	c := newTestCommand(t, l, func(any, ...any) (Outcome, error) {
		return Outcome{}, boom
	}, WithModifiers(Debounce(5*time.Millisecond)))

	r1, _ := c.Execute()
	r2, _ := c.Execute()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	l.RunUntil(ctx, r1.Done())

	if !errors.Is(r1.Err(), boom) || !errors.Is(r2.Err(), boom) {
		t.Errorf("errors = %v / %v, want boom for both", r1.Err(), r2.Err())
	}
}

func TestDebounceAbort(t *testing.T) {
	l := loop.New()
	calls := 0
	c := newTestCommand(t, l, func(any, ...any) (Outcome, error) {
		calls++
		return Immediate(nil), nil
	}, WithModifiers(Debounce(10*time.Millisecond)))

	res, _ := c.Execute()
	c.Abort()
	if !errors.Is(res.Err(), ErrAborted) {
		t.Errorf("aborted debounce error = %v, want ErrAborted", res.Err())
	}
	time.Sleep(20 * time.Millisecond)
	l.Drain()
	if calls != 0 {
		t.Errorf("aborted window still ran the action (%d calls)", calls)
	}
	if c.IsRunning() {
		t.Error("command still running after abort")
	}
}

func TestModifierConfiguration(t *testing.T) {
	l := loop.New()

	_, err := New(immediate(nil), WithScheduler(l), WithModifiers(Debounce(0)))
	if !errors.Is(err, dcerrors.New("DC009")) {
		t.Errorf("zero debounce error = %v, want DC009", err)
	}

	_, err = New(immediate(nil), WithModifiers(Modifier{Name: ModDebounce, Args: "soon"}))
	if err == nil {
		t.Error("debounce with bad args accepted")
	}

	c, err := New(immediate(nil), WithLogger(quietLogger()),
		WithModifiers(Modifier{Name: "throttle"}, Modifier{Name: ModDebounce, Args: 5 * time.Millisecond}))
	if err != nil {
		t.Fatalf("unknown modifier caused error: %v", err)
	}
	if c.coalescing == nil {
		t.Error("modifier after an unknown one was not applied")
	}
}

func TestCustomRegistry(t *testing.T) {
	l := loop.New()
	reg := NewRegistry()
	reg.Register("double", func(c *Command, _ any) error {
		orig := c.Action()
		c.SetAction(func(self any, args ...any) (Outcome, error) {
			out, err := orig(self, args...)
			if err != nil {
				return out, err
			}
			return Immediate(out.Value().(int) * 2), nil
		})
		return nil
	})

	c := newTestCommand(t, l, immediate(21),
		WithRegistry(reg),
		WithModifiers(Modifier{Name: "double"}))

	res, _ := c.Execute()
	if res.Value() != 42 {
		t.Errorf("Value() = %v, want 42", res.Value())
	}

	if _, ok := NewRegistry().Lookup("double"); ok {
		t.Error("registries share state")
	}
}

func TestExplicitComposition(t *testing.T) {
	l := loop.New()
	c := newTestCommand(t, l, immediate(nil))
	if err := WithOnce(c); err != nil {
		t.Fatalf("WithOnce() error = %v", err)
	}
	if err := WithDebounce(c, DebounceOptions{Timeout: time.Millisecond}); err != nil {
		t.Fatalf("WithDebounce() error = %v", err)
	}
	if err := WithDebounce(c, DebounceOptions{}); err == nil {
		t.Error("WithDebounce() accepted a zero timeout")
	}

	res, _ := c.Execute()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	l.RunUntil(ctx, res.Done())
	l.Drain()

	if c.CanExecute() {
		t.Error("once applied via WithOnce did not block re-execution")
	}
}
