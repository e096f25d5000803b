package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dcerrors "github.com/vango-dev/datacontext/internal/errors"
	"github.com/vango-dev/datacontext/pkg/command"
)

// Config configures the Prometheus recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "datactx").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for command duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "datactx",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder implements datactx.Recorder on top of Prometheus collectors.
//
// Metrics collected:
//   - datactx_command_executions_total: commands finished, by command and status
//   - datactx_command_duration_seconds: time from Execute to finalisation
//   - datactx_command_rejections_total: Execute/TryExecute calls refused by the guard
//   - datactx_commands_running: commands currently running
//   - datactx_property_changes_total: change notifications, by type and property
//   - datactx_validation_failures_total: writes that left errors, by type and property
type Recorder struct {
	executions  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rejections  *prometheus.CounterVec
	running     prometheus.Gauge
	changes     *prometheus.CounterVec
	validations *prometheus.CounterVec
}

// New registers the collectors and returns a recorder. Registering twice
// on the same registry panics, as with promauto.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "command_executions_total",
			Help:        "Total number of command executions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"command", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "command_duration_seconds",
			Help:        "Command execution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"command"}),

		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "command_rejections_total",
			Help:        "Total number of executions refused because the command could not execute",
			ConstLabels: config.ConstLabels,
		}, []string{"command"}),

		running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commands_running",
			Help:        "Number of commands currently running",
			ConstLabels: config.ConstLabels,
		}),

		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "property_changes_total",
			Help:        "Total number of property change notifications",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "property"}),

		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validation_failures_total",
			Help:        "Total number of property writes that failed validation",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "property"}),
	}
}

// CommandStarted implements command.Recorder.
func (r *Recorder) CommandStarted(string) {
	r.running.Inc()
}

// CommandFinished implements command.Recorder.
func (r *Recorder) CommandFinished(name string, d time.Duration, err error) {
	r.running.Dec()
	r.duration.WithLabelValues(label(name)).Observe(d.Seconds())
	r.executions.WithLabelValues(label(name), status(err)).Inc()
}

// CommandRejected implements command.Recorder.
func (r *Recorder) CommandRejected(name string) {
	r.rejections.WithLabelValues(label(name)).Inc()
}

// PropertyChanged implements datactx.Recorder.
func (r *Recorder) PropertyChanged(typeName, property string) {
	r.changes.WithLabelValues(typeName, property).Inc()
}

// ValidationFailed implements datactx.Recorder.
func (r *Recorder) ValidationFailed(typeName, property string) {
	r.validations.WithLabelValues(typeName, property).Inc()
}

var errPanic = dcerrors.New("DC041")

// status maps an execution error to a low-cardinality label.
func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, command.ErrAborted):
		return "aborted"
	case errors.Is(err, errPanic):
		return "panic"
	default:
		return "error"
	}
}

func label(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}
