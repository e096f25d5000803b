package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/datacontext/internal/config"
	"github.com/vango-dev/datacontext/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "datactx",
		Short: "Explore observable data contexts",
		Long: `datactx drives the data context framework from the command line.

It builds a small Greeter type with a validated name property, a
computed greeting and an asynchronous greet command, then shows the
notifications, command lifecycle and state projection it produces.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to "+config.ConfigFileName+" (default: ./"+config.ConfigFileName+" when present)")

	load := func() (*config.Config, error) {
		return config.Resolve(configPath, ".")
	}

	rootCmd.AddCommand(
		demoCmd(load),
		describeCmd(load),
		versionCmd(),
	)
	return rootCmd
}

// printf writes a formatted line to the command's output.
func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
