package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routedefs/internal/watch"
	"github.com/vango-dev/routedefs/pkg/inspect"
	"github.com/vango-dev/routedefs/pkg/routedef"
	"github.com/vango-dev/routedefs/pkg/telemetry"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port    int
		host    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolved route definitions over HTTP",
		Long: `Start the inspection server.

Endpoints:
  GET /routes           every enabled kind
  GET /routes/{kind}    one kind (APP_PAGE, app-page, ...)
  GET /healthz          readiness of every kind
  GET /metrics          Prometheus metrics
  GET /_routes/ws       WebSocket stream of route changes

With watching enabled the manifests are polled and subscribers are
notified whenever a manifest changes.

Examples:
  routedefs serve
  routedefs serve --port=8080
  routedefs serve --host=0.0.0.0 --no-watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, flags, port, host, noWatch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from routedefs.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from routedefs.json)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable manifest watching")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, flags *globalFlags, port int, host string, noWatch bool) error {
	logger := newLogger(cmd.ErrOrStderr(), flags.verbose)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(telemetry.WithRegistry(registry))

	cfg, loader, routes, err := setup(ctx, flags, logger, routedef.WithMetrics(metrics))
	if err != nil {
		return err
	}

	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Warm the cache; failures are reported by the endpoints.
	if _, err := routes.ResolveAll(ctx); err != nil {
		logger.Warn("initial resolution failed", "error", err)
	}

	server := inspect.New(routes, inspect.Config{Logger: logger, Gatherer: registry})

	if cfg.Watch.Enabled && !noWatch {
		watcher := watch.New(loader, routes, watch.Config{
			Interval: cfg.WatchInterval(),
			Logger:   logger,
		})
		watcher.OnChange(func(c watch.Change) {
			server.NotifyChanged(ctx, c.Manifest, c.Kinds)
		})
		go func() {
			if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("manifest watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Serving %d route kinds on http://%s\n", len(routes.Kinds()), cfg.ServerAddress())
	return server.ListenAndServe(ctx, cfg.ServerAddress())
}
