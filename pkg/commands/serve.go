package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/danpilch/bees-exporter/pkg/metrics"
	"github.com/danpilch/bees-exporter/pkg/scan"
	"github.com/danpilch/bees-exporter/pkg/server"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Run the HTTP exporter",
		Long: `Run an HTTP server that rescans the status directory on every scrape.

Endpoints:
  /          Index page
  /metrics   Prometheus metrics
  /health    Liveness probe

Example:
  bees-exporter serve --bees-work-dir /run/bees --port 8080
  bees-exporter serve --address 127.0.0.1 --timestamps`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	a.flags.AddServeFlags(cmd)

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	scanner, err := scan.New(a.cfg.StatsDir, scan.Options{
		Workers: a.cfg.Workers,
		Cache:   a.cfg.Cache,
		Logger:  a.logger,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector(scanner, metrics.CollectorOptions{
		Timestamps: a.cfg.Timestamps,
		Logger:     a.logger,
	})); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(reg, server.Options{
		Addr:   a.cfg.ListenAddr(),
		Logger: a.logger,
	})
	return srv.Run(ctx)
}
