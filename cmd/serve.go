package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/Aquilabot/SmartPC-API/internal/api"
	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, scorer)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.NewManager()
	served := store
	if cfg.CatalogCacheSize > 0 {
		cached := catalog.NewCachedStore(store, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
		m.RegisterCacheSize(cached.Len)
		served = cached
	}

	if cfg.PriceSyncInterval > 0 {
		go syncPricesEvery(ctx, served, cfg.PriceSyncInterval, m)
	}

	app := api.New(cfg, served, scorer, api.WithMetrics(m)).App()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Errorf("Shutdown: %v", err)
		}
	}()

	log.Infof("%s %s (%s) listening on %s", cfg.AppName, cfg.AppVersion, cfg.Environment, cfg.Addr)
	return app.Listen(cfg.Addr)
}
