package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/datacontext/internal/errors"
	"github.com/vango-dev/datacontext/pkg/loop"
)

const tracerName = "github.com/vango-dev/datacontext/command"

// Action is the work a command performs. self is the command's bound
// receiver (see SetSelf).
type Action func(self any, args ...any) (Outcome, error)

// Condition guards execution. A nil condition always allows execution.
type Condition func(self any, args ...any) bool

// EventKind identifies a command lifecycle notification.
type EventKind int

const (
	// EventStarted fires when Execute accepts a call.
	EventStarted EventKind = iota

	// EventCanExecute fires when the guard should be re-evaluated.
	EventCanExecute

	// EventFinished fires after the in-flight result settled and the
	// command returned to idle.
	EventFinished
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCanExecute:
		return "canExecute"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers on every lifecycle transition.
type Event struct {
	Kind    EventKind
	Command *Command
	Result  *Result
}

// Recorder receives execution telemetry.
type Recorder interface {
	CommandStarted(name string)
	CommandFinished(name string, d time.Duration, err error)
	CommandRejected(name string)
}

type nopRecorder struct{}

func (nopRecorder) CommandStarted(string)                        {}
func (nopRecorder) CommandFinished(string, time.Duration, error) {}
func (nopRecorder) CommandRejected(string)                       {}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Command wraps an action with a guard, run-state and an in-flight result.
//
// A Command is not safe for concurrent use. Execute, CanExecute and the
// accessors must be called on the scheduler's goroutine; only the results
// it hands out may be observed from elsewhere.
type Command struct {
	name      string
	action    Action
	condition Condition
	self      any

	running  bool
	inflight *Result
	lastErr  error

	// Set by modifiers.
	coalescing func() bool
	resetOnce  func()

	sched    loop.Scheduler
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder Recorder
	registry *Registry

	subs    []subscriber
	nextSub uint64

	// Current execution.
	runID     string
	startedAt time.Time
	spanCtx   context.Context
	span      trace.Span
}

// New creates a command for action. Modifiers are applied in the order
// given, after every other option.
//
// Options:
//   - WithName(name) - Name used in logs, spans and metrics
//   - WithCondition(fn) - Guard predicate
//   - WithSelf(v) - Receiver passed to action and condition
//   - WithModifiers(mods...) - Named behaviour modifiers
//   - WithRegistry(r) - Registry used to resolve modifiers
//   - WithScheduler(s) - Where finalisation is posted (default: a loop
//     owned by the command, reachable through Scheduler)
//   - WithLogger(l), WithTracer(t), WithRecorder(r)
func New(action Action, opts ...Option) (*Command, error) {
	if action == nil {
		return nil, errors.New("DC002").Wrap(ErrMissingAction)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.scheduler == nil {
		cfg.scheduler = loop.New(loop.WithLogger(cfg.logger))
	}

	c := &Command{
		name:      cfg.name,
		action:    action,
		condition: cfg.condition,
		self:      cfg.self,
		sched:     cfg.scheduler,
		logger:    cfg.logger,
		tracer:    cfg.tracer,
		recorder:  cfg.recorder,
		registry:  cfg.registry,
		spanCtx:   context.Background(),
	}
	if c.self == nil {
		c.self = c
	}

	for _, m := range cfg.modifiers {
		fn, ok := c.registry.Lookup(m.Name)
		if !ok {
			c.logger.Debug("ignoring unknown command modifier",
				"command", c.name,
				"modifier", m.Name)
			continue
		}
		if err := fn(c, m.Args); err != nil {
			return nil, errors.New("DC009").
				WithDetailf("modifier %q on command %q", m.Name, c.name).
				Wrap(err)
		}
	}

	return c, nil
}

// MustNew is like New but panics on configuration errors.
func MustNew(action Action, opts ...Option) *Command {
	c, err := New(action, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the command name.
func (c *Command) Name() string {
	return c.name
}

// SetName renames the command.
func (c *Command) SetName(name string) {
	c.name = name
}

// Self returns the receiver passed to the action and condition.
func (c *Command) Self() any {
	return c.self
}

// SetSelf rebinds the receiver passed to the action and condition.
func (c *Command) SetSelf(self any) {
	c.self = self
}

// Action returns the current action.
func (c *Command) Action() Action {
	return c.action
}

// SetAction replaces the action. Intended for modifiers.
func (c *Command) SetAction(a Action) {
	if a != nil {
		c.action = a
	}
}

// Condition returns the current guard, which may be nil.
func (c *Command) Condition() Condition {
	return c.condition
}

// SetCondition replaces the guard. Intended for modifiers.
func (c *Command) SetCondition(cond Condition) {
	c.condition = cond
}

// Scheduler returns the scheduler finalisation is posted to.
func (c *Command) Scheduler() loop.Scheduler {
	return c.sched
}

// IsRunning reports whether an invocation is in flight.
func (c *Command) IsRunning() bool {
	return c.running
}

// Result returns the in-flight result, or nil when idle.
func (c *Command) Result() *Result {
	return c.inflight
}

// Err returns the failure of the most recent finished invocation.
func (c *Command) Err() error {
	return c.lastErr
}

// RunID returns the identifier of the current or most recent invocation.
func (c *Command) RunID() string {
	return c.runID
}

// StdContext returns a context carrying the current execution span.
func (c *Command) StdContext() context.Context {
	return c.spanCtx
}

// CanExecute reports whether Execute would accept args. It is false while
// running, unless a coalescing modifier (debounce) has an open window.
func (c *Command) CanExecute(args ...any) bool {
	if c.running && (c.coalescing == nil || !c.coalescing()) {
		return false
	}
	if c.condition == nil {
		return true
	}
	return c.condition(c.self, args...)
}

// Execute runs the action. It fails with ErrCannotExecute when CanExecute
// is false; action failures are delivered only through the returned result.
func (c *Command) Execute(args ...any) (*Result, error) {
	if !c.CanExecute(args...) {
		c.recorder.CommandRejected(c.name)
		return nil, c.guardError()
	}
	return c.run(args), nil
}

// TryExecute is like Execute but returns a rejected result instead of an
// error when the guard fails. The action is not invoked in that case.
func (c *Command) TryExecute(args ...any) *Result {
	if !c.CanExecute(args...) {
		c.recorder.CommandRejected(c.name)
		return Rejected(c.guardError())
	}
	return c.run(args)
}

// Abort requests cancellation of the in-flight result if it supports it.
// It returns the in-flight result, or nil when idle.
func (c *Command) Abort() *Result {
	r := c.inflight
	if r != nil && r.Cancellable() {
		r.Cancel()
	}
	return r
}

// ResetOnce clears the executed flag set by the once modifier. It returns
// false if the command has no once modifier.
func (c *Command) ResetOnce() bool {
	if c.resetOnce == nil {
		return false
	}
	c.resetOnce()
	c.emit(EventCanExecute, c.inflight)
	return true
}

// Subscribe registers fn for lifecycle events and returns a function that
// removes it.
func (c *Command) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// String implements fmt.Stringer.
func (c *Command) String() string {
	state := "idle"
	if c.running {
		state = "running"
	}
	return fmt.Sprintf("command(%s, %s)", c.name, state)
}

func (c *Command) guardError() error {
	return errors.New("DC020").WithDetail(c.name).Wrap(ErrCannotExecute)
}

func (c *Command) run(args []any) *Result {
	if !c.running {
		c.running = true
		c.runID = ulid.Make().String()
		c.startedAt = time.Now()
		c.spanCtx, c.span = c.tracer.Start(context.Background(), "command."+c.spanName(),
			trace.WithAttributes(
				attribute.String("command.name", c.name),
				attribute.String("command.run_id", c.runID),
				attribute.Int("command.args", len(args)),
			))
		c.recorder.CommandStarted(c.name)
		c.emit(EventStarted, nil)
	}

	res := c.invokeWith(c.action, c.self, args)
	c.inflight = res
	res.Always(func(r *Result) {
		c.sched.Post(func() { c.finish(r) })
	})
	return res
}

func (c *Command) finish(r *Result) {
	if !c.running || c.inflight != r {
		return
	}
	c.running = false
	c.inflight = nil
	c.lastErr = r.Err()

	d := time.Since(c.startedAt)
	if c.lastErr != nil {
		c.logger.Warn("command action failed",
			"command", c.name,
			"run_id", c.runID,
			"error", c.lastErr)
		c.span.RecordError(c.lastErr)
		c.span.SetStatus(codes.Error, c.lastErr.Error())
	} else {
		c.span.SetStatus(codes.Ok, "")
	}
	c.span.End()
	c.spanCtx = context.Background()
	c.recorder.CommandFinished(c.name, d, c.lastErr)

	c.emit(EventCanExecute, r)
	c.emit(EventFinished, r)
}

func (c *Command) emit(kind EventKind, r *Result) {
	if len(c.subs) == 0 {
		return
	}
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)

	ev := Event{Kind: kind, Command: c, Result: r}
	for _, s := range subs {
		s.fn(ev)
	}
}

func (c *Command) spanName() string {
	if c.name == "" {
		return "anonymous"
	}
	return c.name
}

// config holds options applied by New.
type config struct {
	name      string
	condition Condition
	self      any
	modifiers []Modifier
	registry  *Registry
	scheduler loop.Scheduler
	logger    *slog.Logger
	tracer    trace.Tracer
	recorder  Recorder
}

func defaultConfig() config {
	return config{
		registry:  builtins,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		recorder:  nopRecorder{},
	}
}

// Option configures a Command.
type Option func(*config)

// WithName sets the command name.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithCondition sets the guard predicate.
func WithCondition(cond Condition) Option {
	return func(c *config) {
		c.condition = cond
	}
}

// WithSelf sets the receiver passed to action and condition. By default
// the command itself is passed.
func WithSelf(self any) Option {
	return func(c *config) {
		c.self = self
	}
}

// WithModifiers appends named modifiers.
func WithModifiers(mods ...Modifier) Option {
	return func(c *config) {
		c.modifiers = append(c.modifiers, mods...)
	}
}

// WithRegistry sets the registry used to resolve modifiers.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithScheduler sets the scheduler finalisation is posted to.
func WithScheduler(s loop.Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer sets the tracer used for execution spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		if r != nil {
			c.recorder = r
		}
	}
}
