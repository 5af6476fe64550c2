package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/factorydash/internal/bot"
	"github.com/dyluth/factorydash/internal/factory"
	"github.com/dyluth/factorydash/internal/printer"
	"github.com/dyluth/factorydash/internal/server"
	"github.com/dyluth/factorydash/internal/static"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr  string
	serveFixed bool
	serveSeed  int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the factory API server",
	Long: `Run the mock factory API and serve the browser dashboard.

Endpoints:
  GET  /api/factory/metrics          Production metrics and time series
  GET  /api/factory/status           Production line status
  GET  /api/factory/machine-types    Known machine types
  GET  /api/factory/batch-quality    Batch pass rates
  GET  /api/factory/energy-metrics   Energy usage
  POST /api/factory/bot              Ask the factory assistant
  GET  /healthz                      Health check

When feed.redis_url (or FACTORYDASH_REDIS_URL) is set, generated metrics and
bot exchanges are published for "factorydash watch".

Examples:
  # Random data on :8080
  factorydash serve

  # Reproducible data for demos and tests
  factorydash serve --fixed --addr :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config, default :8080)")
	serveCmd.Flags().BoolVar(&serveFixed, "fixed", false, "Serve the fixed sample data set instead of random values")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 0, "Seed for the random generator (0 = time based)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("fixed") {
		cfg.Server.Fixed = serveFixed
	}
	if cmd.Flags().Changed("seed") {
		cfg.Server.Seed = serveSeed
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gen factory.Generator = factory.NewRandomGenerator(cfg.Server.Seed)
	if cfg.Server.Fixed {
		gen = factory.NewFixedGenerator()
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithFrontend(static.Frontend()),
	}

	if cfg.Feed.Enabled() {
		feedClient, err := connectFeed(ctx, cfg.Feed)
		if err != nil {
			return err
		}
		defer feedClient.Close()
		opts = append(opts, server.WithFeed(feedClient))
		logger.Info("Activity feed enabled", zap.String("instance", cfg.Feed.Instance))
	}

	srv := server.New(cfg.Server, gen, bot.New(bot.FactoryRules(gen)), opts...)

	printer.Success("Serving factory API on %s", cfg.Server.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("Received shutdown signal, shutting down gracefully")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return printer.ErrorWithContext(
			"server failed",
			err.Error(),
			map[string]string{"Address": cfg.Server.Addr},
			[]string{"Check that the address is free or pick another one with --addr"},
		)
	}
	return nil
}
