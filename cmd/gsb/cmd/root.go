/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/gsbgrid/pkg/config"
	"github.com/ssargent/gsbgrid/pkg/di"
	"github.com/ssargent/gsbgrid/pkg/logging"
)

type containerKey struct{}

// app carries state across one command invocation
type app struct {
	container *di.Container
}

// newRootCmd builds the command tree. Every call returns fresh flag state.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gsb",
		Short: "gsb - NTv2 grid shift file toolkit",
		Long: `gsb decodes binary .GSB grid shift files (NTv2 layout) into JSON or YAML,
dumps their raw records, serves them over HTTP and keeps a local catalog
of imported grids.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEffectiveConfig(cmd)
			if err != nil {
				return err
			}

			runID := ksuid.New()
			logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()).
				With("run_id", runID.String())
			logger.Debug("starting command", "command", cmd.CommandPath())

			a.container = di.NewContainer(cfg, logger)
			// Store in command context
			cmd.SetContext(context.WithValue(cmd.Context(), containerKey{}, a.container))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/gsb/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Catalog data directory")

	rootCmd.AddCommand(
		newConvertCmd(),
		newInspectCmd(),
		newKMZCmd(),
		newImportCmd(),
		newListCmd(),
		newShowCmd(),
		newRmCmd(),
		newServeCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

// Run executes the command line in args and flushes the metrics textfile,
// if one is configured, whether or not the command succeeded.
func Run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if a.container != nil {
		if ferr := a.container.FlushMetrics(); ferr != nil {
			fmt.Fprintf(stderr, "Error: failed to write metrics: %v\n", ferr)
			if err == nil {
				err = ferr
			}
		}
	}
	return err
}

// Execute runs the command line of the current process.
// This is called by main.main().
func Execute() {
	if err := Run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// loadEffectiveConfig reads the config file, when there is one, and applies
// flag overrides on top
func loadEffectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if explicit && cmd.Name() != "init" {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("data-dir") {
		cfg.Catalog.DataDir, _ = flags.GetString("data-dir")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getContainer returns the container stored by the root command
func getContainer(cmd *cobra.Command) (*di.Container, error) {
	c, ok := cmd.Context().Value(containerKey{}).(*di.Container)
	if !ok || c == nil {
		return nil, errors.New("dependency container not initialized")
	}
	return c, nil
}
