package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/datacontext/internal/config"
	"github.com/vango-dev/datacontext/pkg/command"
	"github.com/vango-dev/datacontext/pkg/datactx"
	"github.com/vango-dev/datacontext/pkg/loop"
	"github.com/vango-dev/datacontext/pkg/metrics"
)

var (
	nameField     = datactx.NewField[string]("name")
	messageField  = datactx.NewField[string]("message")
	greetingField = datactx.NewField[string]("greeting")
)

// scenario wires a registry, its loop and the Greeter type from config.
type scenario struct {
	cfg     *config.Config
	logger  *slog.Logger
	loop    *loop.Loop
	metrics *prometheus.Registry
	greeter *datactx.Type
}

func newScenario(cfg *config.Config, logOut io.Writer) (*scenario, error) {
	delay, err := cfg.DemoDelay()
	if err != nil {
		return nil, err
	}
	debounce, err := cfg.DemoDebounce()
	if err != nil {
		return nil, err
	}

	s := &scenario{cfg: cfg, logger: cfg.Logger(logOut)}
	s.loop = loop.New(loop.WithLogger(s.logger))

	opts := []datactx.Option{
		datactx.WithLogger(s.logger),
		datactx.WithScheduler(s.loop),
		datactx.WithTracer(otel.Tracer("github.com/vango-dev/datacontext/cmd/datactx")),
	}
	if cfg.Metrics.Enabled {
		s.metrics = prometheus.NewRegistry()
		opts = append(opts, datactx.WithRecorder(metrics.New(
			metrics.WithRegistry(s.metrics),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)))
	}
	reg := datactx.NewRegistry(opts...)

	var mods []command.Modifier
	if debounce > 0 {
		mods = append(mods, command.Debounce(debounce))
	}

	s.greeter, err = reg.NewType("Greeter", nil)
	if err != nil {
		return nil, err
	}
	err = s.greeter.Declare(
		nameField.Declare(datactx.Decl{
			Default:   cfg.Demo.Name,
			Rules:     []string{"required,max=32"},
			Dependent: []string{"greeting"},
		}),
		greetingField.Declare(datactx.Decl{
			Get: func(c *datactx.Context) any {
				return "Hello, " + nameField.Get(c) + "!"
			},
		}),
		messageField.Declare(datactx.Decl{Default: ""}),
		datactx.Property("greet", datactx.Decl{
			Execute: func(self any, _ ...any) (command.Outcome, error) {
				greeting := greetingField.Get(self.(*datactx.Context))
				return command.Async(context.Background(), func(ctx context.Context) (any, error) {
					select {
					case <-time.After(delay):
						return greeting, nil
					case <-ctx.Done():
						return nil, ctx.Err()
					}
				}), nil
			},
			CanExecute: func(self any, _ ...any) bool {
				return self.(*datactx.Context).Valid()
			},
			Modifiers: mods,
		}),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// writeHost renders every state projection as one JSON line.
type writeHost struct {
	ctx *datactx.Context
	out io.Writer
	n   int
}

func (h *writeHost) DataContext() *datactx.Context { return h.ctx }

func (h *writeHost) Render(state map[string]any) {
	h.n++
	data, err := json.Marshal(state)
	if err != nil {
		fmt.Fprintf(h.out, "render %d: %v\n", h.n, err)
		return
	}
	fmt.Fprintf(h.out, "render %d: %s\n", h.n, data)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
