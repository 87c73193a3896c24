package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/issuegraph/internal/metrics"
	"github.com/matzehuels/issuegraph/pkg/cache"
	"github.com/matzehuels/issuegraph/pkg/config"
	"github.com/matzehuels/issuegraph/pkg/graphview"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve project diagrams over HTTP",
		Long: `Serve project diagrams over HTTP.

Clients PUT snapshots to /api/projects/{project}/snapshot, POST gestures to
/api/projects/{project}/events and receive the resulting intents in the
response. Prometheus metrics are served at /metrics. Rendered SVGs are
cached in memory, or in Redis when the redis store backend is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context(), addr, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, withMetrics bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := server.Options{Logger: c.Logger, SVGCache: serverSVGCache(cfg)}
	defer opts.SVGCache.Close()
	if withMetrics {
		m := metrics.New()
		m.Install()
		opts.Metrics = m.Handler()
	}

	views := graphview.NewRegistry(store, c.viewOptions(cfg))
	srv := server.New(views, opts)

	printInfo("Serving on %s (store: %s)", addr, cfg.Store.Backend)
	err = srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// serverSVGCache shares rendered SVGs through Redis when positions live
// there, so replicas behind a load balancer reuse each other's renders.
func serverSVGCache(cfg config.Config) cache.Cache {
	if cfg.Store.Backend != positions.BackendRedis {
		return cache.NewMemory(0)
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr, DB: cfg.Store.RedisDB})
	return cache.NewRedis(client, "issuegraph:svg:")
}
