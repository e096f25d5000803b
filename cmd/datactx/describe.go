package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/datacontext/internal/config"
	"github.com/vango-dev/datacontext/internal/errors"
)

func describeCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		sets     []string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the state projection of a Greeter",
		Long: `Create a Greeter, apply --set assignments, optionally validate, and
print the resulting state projection as JSON.

Example:
  datactx describe --set name= --validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			s, err := newScenario(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.loop.Close()

			c, err := s.greeter.New()
			if err != nil {
				return err
			}

			data := make(map[string]any, len(sets))
			for _, kv := range sets {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return errors.New("DC062").WithDetailf("--set %q must be key=value", kv)
				}
				data[k] = v
			}
			for k, v := range data {
				if err := c.Set(k, v); err != nil {
					return err
				}
			}
			if validate {
				c.Validate()
			}
			return printJSON(cmd.OutOrStdout(), c.Describe())
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Assign a property (key=value); repeatable")
	cmd.Flags().BoolVar(&validate, "validate", false, "Run validation before describing")

	return cmd
}
