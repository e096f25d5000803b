package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/datacontext/internal/config"
	"github.com/vango-dev/datacontext/pkg/command"
	"github.com/vango-dev/datacontext/pkg/datactx"
)

func demoCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		name    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the greet scenario",
		Long: `Run the greet scenario on a single-threaded loop.

The demo binds a host that prints every state projection, sets the name,
validates, executes the asynchronous greet command and stores its result
in the message property.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				cfg.Demo.Name = name
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runDemo(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name to greet (overrides demo.name)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Give up waiting for the greet command after this long")

	return cmd
}

func runDemo(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	s, err := newScenario(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.loop.Close()

	c, err := s.greeter.New()
	if err != nil {
		return err
	}
	host := &writeHost{ctx: c, out: cmd.OutOrStdout()}
	binding := datactx.Bind(host)
	defer binding.Close()

	greet := c.Command("greet")
	greet.Subscribe(func(e command.Event) {
		s.logger.Debug("command event", "command", e.Command.Name(), "kind", e.Kind.String())
	})

	if err := nameField.Set(c, cfg.Demo.Name); err != nil {
		return err
	}
	if !c.Validate() {
		printf(cmd, "invalid: %v", c.AllErrors())
		return printJSON(cmd.OutOrStdout(), c.Describe())
	}

	res, err := greet.Execute()
	if err != nil {
		return err
	}
	if err := s.loop.RunUntil(ctx, res.Done()); err != nil {
		greet.Abort()
		return fmt.Errorf("waiting for greet: %w", err)
	}
	if err := res.Err(); err != nil {
		return err
	}
	if err := messageField.Set(c, res.Value().(string)); err != nil {
		return err
	}

	printf(cmd, "message: %s", messageField.Get(c))
	if s.metrics != nil {
		return printMetrics(cmd, s)
	}
	return nil
}

func printMetrics(cmd *cobra.Command, s *scenario) error {
	families, err := s.metrics.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			}
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("%s=%q,", lp.GetName(), lp.GetValue())
			}
			if labels != "" {
				labels = "{" + labels[:len(labels)-1] + "}"
			}
			printf(cmd, "%s%s %g", mf.GetName(), labels, v)
		}
	}
	return nil
}
