package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Aquilabot/SmartPC-API/internal/models"
	"github.com/Aquilabot/SmartPC-API/internal/utils"
)

// OfferSource fetches the current vendor offers of a product page.
type OfferSource interface {
	FetchOffers(URL string) (*models.PartOffers, error)
}

type PriceResult string

const (
	PriceUpdated   PriceResult = "updated"
	PriceUnchanged PriceResult = "unchanged"
	PriceFailed    PriceResult = "failed"
)

// PriceChange reports what a sync did to one product.
type PriceChange struct {
	ID       string
	Name     string
	OldPrice float64
	NewPrice float64
	InStock  bool
	Vendor   string
	Result   PriceResult
	Err      error
}

// SyncPrices refreshes price and stock of every product of store that links
// to a PCPartPicker product page. Products whose page lists no in-stock offer
// are marked out of stock and keep their price. Offers in a currency other
// than the product's are not compared; a page whose in-stock offers are all
// in other currencies leaves the product as it is. A fetch failure is reported on the change
// and does not stop the sync; only store failures abort it.
func SyncPrices(ctx context.Context, store ProductStore, src OfferSource, report func(PriceChange)) error {
	products, err := store.List(ctx, ProductFilter{})
	if err != nil {
		return err
	}

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !utils.MatchProductURL(p.SourceURL) {
			continue
		}

		change := PriceChange{ID: p.ID, Name: p.Name, OldPrice: p.Price, NewPrice: p.Price, InStock: p.InStock, Result: PriceUnchanged}

		offers, err := src.FetchOffers(p.SourceURL)
		if err != nil {
			change.Result, change.Err = PriceFailed, err
			report(change)
			continue
		}

		if best, ok := cheapestIn(offers, p.Currency); ok {
			change.NewPrice, change.InStock, change.Vendor = best.Price.Total, true, best.Name
		} else if !inStockAnywhere(offers) {
			change.InStock = false
		}

		if change.NewPrice != p.Price || change.InStock != p.InStock {
			p.Price, p.InStock = change.NewPrice, change.InStock
			if err := store.Put(ctx, p); err != nil {
				return fmt.Errorf("sync prices %s: %w", p.ID, err)
			}
			change.Result = PriceUpdated
		}
		report(change)
	}
	return nil
}

func inStockAnywhere(offers *models.PartOffers) bool {
	if offers == nil {
		return false
	}
	_, ok := offers.Cheapest()
	return ok
}

func cheapestIn(offers *models.PartOffers, currency string) (models.Vendor, bool) {
	if offers == nil {
		return models.Vendor{}, false
	}
	filtered := models.PartOffers{URL: offers.URL, Name: offers.Name}
	for _, v := range offers.Vendors {
		if currency == "" || v.Price.Currency == "" || v.Price.Currency == currency {
			filtered.Vendors = append(filtered.Vendors, v)
		}
	}
	return filtered.Cheapest()
}

// ProductFinder looks up the PCPartPicker product page matching a search
// term.
type ProductFinder interface {
	FindProduct(searchTerm string, region string) (string, error)
}

// LinkSources searches PCPartPicker for every product without a product page
// and stores the first match as its SourceURL. Products the search does not
// find are left alone. It returns the number of products linked.
func LinkSources(ctx context.Context, store ProductStore, finder ProductFinder, region string) (int, error) {
	products, err := store.List(ctx, ProductFilter{})
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return linked, err
		}
		if utils.MatchProductURL(p.SourceURL) || strings.TrimSpace(p.Name) == "" {
			continue
		}

		link, err := finder.FindProduct(searchTerm(p), region)
		if err != nil {
			log.Debugf("No product page for %s: %v", p.ID, err)
			continue
		}
		p.SourceURL = link
		if err := store.Put(ctx, p); err != nil {
			return linked, fmt.Errorf("link source %s: %w", p.ID, err)
		}
		linked++
	}
	return linked, nil
}

func searchTerm(c models.Component) string {
	if c.Brand != "" && c.Model != "" {
		return c.Brand + " " + c.Model
	}
	return c.Name
}
