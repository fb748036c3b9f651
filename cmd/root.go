// Package cmd holds the smartpc command line.
package cmd

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/config"
	"github.com/Aquilabot/SmartPC-API/internal/scoring"
)

var (
	configPath string

	// exitFunc is replaced in tests.
	exitFunc = os.Exit
)

var rootCmd = &cobra.Command{
	Use:   "smartpc",
	Short: "SmartPC catalog, compatibility and recommendation service",
	Long: `smartpc serves the PC component catalog over HTTP and offers the same
compatibility checks, price refresh and part list export from the command line.

Configuration comes from an optional YAML file and SMARTPC_* environment
variables; a .env file in the working directory is read first.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (overrides SMARTPC_CONFIG)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if err := os.Setenv("SMARTPC_CONFIG", configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.Level())
	return cfg, nil
}

func newScorer(cfg *config.Config) (*scoring.Scorer, error) {
	var opts []scoring.Option
	if cfg.BenchmarksPath != "" {
		b, err := scoring.LoadBenchmarks(cfg.BenchmarksPath)
		if err != nil {
			return nil, err
		}
		log.Infof("Using benchmark table %s (version %d)", cfg.BenchmarksPath, b.Version)
		opts = append(opts, scoring.WithBenchmarks(b))
	}
	return scoring.New(opts...)
}

// openStore connects to Postgres when a database URL is configured and
// otherwise returns an in-memory catalog loaded from the embedded seed.
func openStore(ctx context.Context, cfg *config.Config, scorer catalog.BuildScorer) (catalog.Store, error) {
	if cfg.DatabaseURL != "" {
		return catalog.NewPostgres(ctx, cfg.DatabaseURL)
	}

	seed, err := catalog.DefaultSeed()
	if err != nil {
		return nil, err
	}
	store := catalog.NewMemoryStore()
	if err := seed.Apply(ctx, store, scorer); err != nil {
		return nil, err
	}
	log.Infof("Using in-memory catalog with %d products and %d presets", len(seed.Products), len(seed.Presets))
	return store, nil
}
