package datactx

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/datacontext/pkg/command"
	"github.com/vango-dev/datacontext/pkg/loop"
)

// Recorder receives telemetry for contexts and the commands they own.
// pkg/metrics provides a Prometheus implementation.
type Recorder interface {
	command.Recorder

	// PropertyChanged is called once per top-level change notification.
	PropertyChanged(typeName, property string)

	// ValidationFailed is called when a write leaves a property with errors.
	ValidationFailed(typeName, property string)
}

type nopRecorder struct{}

func (nopRecorder) CommandStarted(string)                        {}
func (nopRecorder) CommandFinished(string, time.Duration, error) {}
func (nopRecorder) CommandRejected(string)                       {}
func (nopRecorder) PropertyChanged(string, string)               {}
func (nopRecorder) ValidationFailed(string, string)              {}

// Config is shared by every type declared in a Registry and every context
// constructed from those types.
type Config struct {
	// Logger receives diagnostics such as double-attach warnings.
	// Default: slog.Default().
	Logger *slog.Logger

	// Scheduler receives command finalisation. Default: a *loop.Loop
	// owned by the registry (see Registry.Loop).
	Scheduler loop.Scheduler

	// Tracer is passed to commands. Nil keeps the command default.
	Tracer trace.Tracer

	// Recorder receives telemetry. Default: no-op.
	Recorder Recorder

	// Modifiers resolves command modifiers by name. Nil uses the
	// built-in registry.
	Modifiers *command.Registry
}

func defaultConfig() Config {
	return Config{
		Logger:   slog.Default(),
		Recorder: nopRecorder{},
	}
}

// Option configures a Registry.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithScheduler sets the scheduler used by commands.
func WithScheduler(s loop.Scheduler) Option {
	return func(c *Config) {
		if s != nil {
			c.Scheduler = s
		}
	}
}

// WithTracer sets the tracer used by commands.
func WithTracer(t trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Config) {
		if r != nil {
			c.Recorder = r
		}
	}
}

// WithModifierRegistry sets the registry commands resolve modifiers from.
func WithModifierRegistry(r *command.Registry) Option {
	return func(c *Config) {
		c.Modifiers = r
	}
}

func (cfg *Config) commandOptions() []command.Option {
	return []command.Option{
		command.WithScheduler(cfg.Scheduler),
		command.WithLogger(cfg.Logger),
		command.WithTracer(cfg.Tracer),
		command.WithRecorder(cfg.Recorder),
		command.WithRegistry(cfg.Modifiers),
	}
}
