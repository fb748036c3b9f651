package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/metrics"
	"github.com/Aquilabot/SmartPC-API/pkg/scraper"
)

var syncPricesCmd = &cobra.Command{
	Use:   "sync-prices",
	Short: "Refresh product prices and stock from PCPartPicker",
	Long: `Visits the PCPartPicker page of every product that has one and stores the
cheapest in-stock offer in the product's currency. Products without any
in-stock offer are marked out of stock. With --discover, products without a
PCPartPicker page are searched for first.`,
	Args: cobra.NoArgs,
	RunE: runSyncPrices,
}

var (
	discoverSources bool
	syncRegion      string
)

func init() {
	rootCmd.AddCommand(syncPricesCmd)
	syncPricesCmd.Flags().BoolVar(&discoverSources, "discover", false, "search PCPartPicker for products without a product page")
	syncPricesCmd.Flags().StringVarP(&syncRegion, "region", "r", "pl", "PCPartPicker region used by --discover")
}

func newOfferScraper() *scraper.Scraper {
	s := scraper.NewScraper()
	s.RandomizeUserAgent()
	return s
}

func runSyncPrices(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		log.Warn("No database_url configured, updated prices will not be kept")
	}

	ctx := cmd.Context()
	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, scorer)
	if err != nil {
		return err
	}
	defer store.Close()

	s := newOfferScraper()
	if discoverSources {
		linked, err := catalog.LinkSources(ctx, store, s, syncRegion)
		if err != nil {
			return err
		}
		log.Infof("Linked %d product(s) to PCPartPicker", linked)
	}

	var changes []catalog.PriceChange
	if err := catalog.SyncPrices(ctx, store, s, func(c catalog.PriceChange) {
		changes = append(changes, c)
	}); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderPriceChanges(changes))
	return nil
}

// syncPricesEvery runs a price sync on every tick until ctx is done.
func syncPricesEvery(ctx context.Context, store catalog.ProductStore, every time.Duration, m *metrics.Manager) {
	s := newOfferScraper()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		updated := 0
		err := catalog.SyncPrices(ctx, store, s, func(c catalog.PriceChange) {
			m.RecordPriceSync(string(c.Result))
			switch {
			case c.Err != nil:
				log.Warnf("Price sync %s: %v", c.ID, c.Err)
			case c.Result == catalog.PriceUpdated:
				updated++
			}
		})
		if err != nil {
			m.RecordCatalogError("sync_prices")
			log.Errorf("Price sync: %v", err)
			continue
		}
		log.Infof("Price sync done, %d product(s) updated", updated)
	}
}
