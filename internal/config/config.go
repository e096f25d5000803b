package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/datacontext/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "datactx.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DATACTX_"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "datactx"

	// DefaultDemoName is the name greeted by the demo scenario.
	DefaultDemoName = "World"

	// DefaultDemoDelay is how long the demo's asynchronous action takes.
	DefaultDemoDelay = "50ms"
)

// Config represents the datactx.json configuration of the example CLI.
// Every field can be overridden from the environment with a DATACTX_ prefix,
// for example DATACTX_LOG_LEVEL or DATACTX_DEMO_NAME.
type Config struct {
	// Log configures the slog handler.
	Log LogConfig `json:"log,omitempty" envPrefix:"LOG_"`

	// Metrics configures the Prometheus recorder.
	Metrics MetricsConfig `json:"metrics,omitempty" envPrefix:"METRICS_"`

	// Demo configures the greet scenario.
	Demo DemoConfig `json:"demo,omitempty" envPrefix:"DEMO_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled installs a Prometheus recorder on the registry.
	Enabled bool `json:"enabled,omitempty" env:"ENABLED"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
}

// DemoConfig contains settings for the greet scenario.
type DemoConfig struct {
	// Name is the initial value of the name property.
	Name string `json:"name,omitempty" env:"NAME"`

	// Delay is the duration of the asynchronous greet action (e.g. "50ms").
	Delay string `json:"delay,omitempty" env:"DELAY"`

	// Debounce, when set, debounces the greet command (e.g. "200ms").
	Debounce string `json:"debounce,omitempty" env:"DEBOUNCE"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Demo: DemoConfig{
			Name:  DefaultDemoName,
			Delay: DefaultDemoDelay,
		},
	}
}

// Load reads configuration from datactx.json in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path, applies environment overrides
// and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("DC060").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("DC061").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("DC061").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}
	cfg.configPath = path

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() (*Config, error) {
	cfg := New()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads path when it is set. Otherwise it loads datactx.json from
// dir when present and falls back to FromEnv.
func Resolve(path, dir string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if Exists(dir) {
		return Load(dir)
	}
	return FromEnv()
}

func (c *Config) finish() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("DC061").
			WithDetail("Failed to parse environment overrides").
			Wrap(err)
	}
	c.applyDefaults()
	return c.Validate()
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Demo.Delay == "" {
		c.Demo.Delay = DefaultDemoDelay
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("DC062").
			WithDetailf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("DC062").
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	if _, err := c.DemoDelay(); err != nil {
		return errors.New("DC062").WithDetail("demo.delay: " + err.Error())
	}
	if _, err := c.DemoDebounce(); err != nil {
		return errors.New("DC062").WithDetail("demo.debounce: " + err.Error())
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("DC061").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("DC061").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Logger builds a slog logger writing to w according to Log.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// DemoDelay returns the parsed demo delay.
func (c *Config) DemoDelay() (time.Duration, error) {
	return parseDuration(c.Demo.Delay)
}

// DemoDebounce returns the parsed debounce window, zero when unset.
func (c *Config) DemoDebounce() (time.Duration, error) {
	return parseDuration(c.Demo.Debounce)
}

// Exists checks if datactx.json exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.Newf(errors.CategoryConfig, "negative duration %s", s)
	}
	return d, nil
}
