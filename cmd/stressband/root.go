package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/stressband/internal/config"
	"github.com/nao1215/stressband/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for StressBand.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stressband",
		Short: "Report service for the StressBand QVT demonstration bands",
		Long: `StressBand serves and generates one-page PDF reports of the mocked
physiological metrics (heart rate, respiration, sleep) recorded by the
StressBand QVT demonstration bands.

All data is fictitious and compiled into the binary.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .stressband in current or home directory)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewAccountCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from the defaults, the configuration
// file and the global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger creates the command logger and installs it as the slog default.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := log.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.JSONLog)
	slog.SetDefault(logger)
	return logger
}

// overrideFlag copies the value of flag name into dst when the user set it
// on the command line.
func overrideFlag[T any](cmd *cobra.Command, name string, dst *T, get func(string) (T, error)) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
