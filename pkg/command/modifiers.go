package command

import (
	"fmt"
	"sync"
	"time"

	"github.com/vango-dev/datacontext/internal/errors"
)

// ModifierFunc rewrites a command's action and/or condition in place.
// args is the Modifier's Args value.
type ModifierFunc func(c *Command, args any) error

// Modifier names a registered ModifierFunc and its arguments.
type Modifier struct {
	Name string
	Args any
}

// Registry maps modifier names to their implementations.
// A Registry is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	mods map[string]ModifierFunc
}

// builtins is the registry used when none is configured.
var builtins = NewRegistry()

// NewRegistry creates a registry preloaded with the built-in modifiers
// ("debounce" and "once").
func NewRegistry() *Registry {
	r := &Registry{mods: make(map[string]ModifierFunc)}
	r.Register(ModDebounce, applyDebounce)
	r.Register(ModOnce, applyOnce)
	return r
}

// Register adds or replaces the modifier called name.
func (r *Registry) Register(name string, fn ModifierFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods[name] = fn
}

// Lookup returns the modifier called name.
func (r *Registry) Lookup(name string) (ModifierFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.mods[name]
	return fn, ok
}

// Names of the built-in modifiers.
const (
	ModDebounce = "debounce"
	ModOnce     = "once"
)

// =============================================================================
// Debounce
// =============================================================================

// DebounceOptions configures the debounce modifier.
type DebounceOptions struct {
	// Timeout is the quiet period after the last call before the action
	// runs. Must be positive.
	Timeout time.Duration
}

// Debounce returns a modifier that coalesces calls made within timeout of
// each other into a single action call.
func Debounce(timeout time.Duration) Modifier {
	return Modifier{Name: ModDebounce, Args: DebounceOptions{Timeout: timeout}}
}

// WithDebounce applies the debounce modifier to c directly.
func WithDebounce(c *Command, opts DebounceOptions) error {
	return applyDebounce(c, opts)
}

type debouncer struct {
	c       *Command
	orig    Action
	timeout time.Duration

	pending *Result
	timer   *time.Timer
	gen     uint64
	self    any
	args    []any
}

func applyDebounce(c *Command, args any) error {
	var opts DebounceOptions
	switch v := args.(type) {
	case DebounceOptions:
		opts = v
	case *DebounceOptions:
		if v != nil {
			opts = *v
		}
	case time.Duration:
		opts.Timeout = v
	default:
		return fmt.Errorf("debounce: unsupported arguments %T", args)
	}
	if opts.Timeout <= 0 {
		return fmt.Errorf("debounce: timeout must be positive, got %s", opts.Timeout)
	}

	d := &debouncer{c: c, orig: c.action, timeout: opts.Timeout}
	c.action = d.call
	c.coalescing = func() bool { return d.pending != nil }
	return nil
}

// call joins the open window, or opens one, and restarts the timer.
func (d *debouncer) call(self any, args ...any) (Outcome, error) {
	if d.pending == nil {
		d.pending = NewCancellableResult(d.abort)
	}
	d.self = self
	d.args = args

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.timeout, func() {
		d.c.sched.Post(func() { d.fire(gen) })
	})

	return Pending(d.pending), nil
}

// fire runs the underlying action once for the whole window. The shared
// handle is cleared first so calls after this point open a new window.
func (d *debouncer) fire(gen uint64) {
	if gen != d.gen || d.pending == nil {
		return
	}
	p := d.pending
	d.pending = nil
	d.timer = nil

	d.c.invokeWith(d.orig, d.self, d.args).Forward(p)
}

// abort closes the window without running the action.
func (d *debouncer) abort() {
	p := d.pending
	if p == nil {
		return
	}
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	p.Reject(errors.New("DC042").Wrap(ErrAborted))
}

// invokeWith calls action, turning errors and panics into rejected results.
func (c *Command) invokeWith(action Action, self any, args []any) (res *Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Rejected(errors.New("DC041").WithDetailf("%s: %v", c.name, p))
		}
	}()

	out, err := action(self, args...)
	if err != nil {
		return Rejected(err)
	}
	return out.Result()
}

// =============================================================================
// Once
// =============================================================================

// Once returns a modifier that allows only one successful execution until
// ResetOnce is called.
func Once() Modifier {
	return Modifier{Name: ModOnce}
}

// WithOnce applies the once modifier to c directly.
func WithOnce(c *Command) error {
	return applyOnce(c, nil)
}

func applyOnce(c *Command, _ any) error {
	executed := false
	origCond := c.condition
	origAction := c.action

	c.condition = func(self any, args ...any) bool {
		if executed {
			return false
		}
		return origCond == nil || origCond(self, args...)
	}

	c.action = func(self any, args ...any) (Outcome, error) {
		out, err := origAction(self, args...)
		if err != nil {
			return out, err
		}
		if !out.IsPending() {
			executed = true
			return out, nil
		}
		out.Result().Always(func(r *Result) {
			if r.Err() == nil {
				c.sched.Post(func() { executed = true })
			}
		})
		return out, nil
	}

	c.resetOnce = func() { executed = false }
	return nil
}
