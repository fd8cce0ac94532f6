package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tphakala/go-audio-bandpass/internal/config"
	"github.com/tphakala/go-audio-bandpass/internal/logging"
)

// app carries state shared by all subcommands.
type app struct {
	configPath  string
	logLevel    string
	development bool

	cfg    *config.Config
	logger *zap.Logger
}

// setup loads the configuration and builds the logger. Runs before every
// subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("dev") {
		cfg.Development = a.development
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// revalidate checks the configuration again after flag overrides.
func (a *app) revalidate() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "bandpass",
		Short:         "Butterworth bandpass filter for WAV audio",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Path to YAML config file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&a.development, "dev", false,
		"Human-readable console logs")

	rootCmd.AddCommand(
		newFilterCmd(a),
		newPlayCmd(a),
		newRecordCmd(a),
		newSweepCmd(a),
		newAnalyzeCmd(a),
		newDevicesCmd(a),
		newConfigCmd(a),
	)

	return rootCmd
}
