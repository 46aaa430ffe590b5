// Package commands provides the bees-exporter command tree.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danpilch/bees-exporter/pkg/config"
	"github.com/danpilch/bees-exporter/pkg/output"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// ExitError carries a process exit status out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// app is the state shared by the commands of one invocation.
type app struct {
	// flags is bound to the command line; cfg is the effective
	// configuration after merging the config file.
	flags      *config.Config
	cfg        *config.Config
	configPath string

	stderr io.Writer
	logger *logrus.Logger
}

// NewRootCmd creates the root command with all subcommands. Without a
// subcommand the exporter serves metrics.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		flags:  config.Default(),
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:   "bees-exporter",
		Short: "Prometheus exporter for bees deduplication status files",
		Long: `bees-exporter reads the per-filesystem status files written by the bees
deduplication daemon and exposes their counters and scan progress as
Prometheus metrics.

Commands:
  serve   Run the HTTP exporter (default)
  check   Scan the status directory once and report what was found`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runServe,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	a.flags.AddGlobalFlags(root)
	a.flags.AddServeFlags(root)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")

	root.AddCommand(
		a.newServeCmd(),
		a.newCheckCmd(),
	)

	return root
}

// setup resolves the effective configuration and the logger. Explicit flags
// override the config file, which overrides the defaults.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return startupError(cmd, err)
		}
		cfg = loaded
	}
	cfg.Override(cmd.Flags(), a.flags)

	if err := cfg.Validate(); err != nil {
		return startupError(cmd, err)
	}
	a.cfg = cfg

	logger, err := newLogger(cfg, a.stderr)
	if err != nil {
		return startupError(cmd, err)
	}
	a.logger = logger

	a.logger.WithFields(logrus.Fields{
		"stats_dir": cfg.StatsDir,
		"workers":   cfg.Workers,
		"cache":     cfg.Cache,
	}).Debug("Configuration loaded")
	return nil
}

// startupError maps a failure before any work was done to the exit status of
// cmd. Only check reserves a dedicated status for it.
func startupError(cmd *cobra.Command, err error) error {
	if cmd.Name() == checkCmdName {
		return &ExitError{Code: output.ExitFailure, Err: err}
	}
	return err
}

func newLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("cannot parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
