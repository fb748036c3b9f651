package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the seed catalog into Postgres",
	Long: `Writes the products and presets of a seed file into the configured Postgres
catalog. Presets are priced and scored against the products on the way in.
Without --file the catalog shipped with the binary is used.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed YAML file (defaults to the embedded catalog)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("seed needs database_url (SMARTPC_DATABASE_URL)")
	}

	var seed *catalog.Seed
	if seedFile != "" {
		seed, err = catalog.LoadSeed(seedFile)
	} else {
		seed, err = catalog.DefaultSeed()
	}
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}
	store, err := catalog.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seed.Apply(ctx, store, scorer); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products and %d presets\n", len(seed.Products), len(seed.Presets))
	return nil
}
