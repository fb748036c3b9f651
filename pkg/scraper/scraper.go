// Package scraper reads vendor offers from PCPartPicker product pages.
package scraper

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
	"github.com/gofiber/fiber/v2/log"

	"github.com/Aquilabot/SmartPC-API/internal/models"
	"github.com/Aquilabot/SmartPC-API/internal/utils"
)

var (
	ErrInvalidProductURL = errors.New("invalid part URL")
	ErrInvalidRegion     = errors.New("invalid region")
	ErrNoResults         = errors.New("no search results")
)

var offerClassMappings = map[string]string{
	"Base":     ".td__base",
	"Promo":    ".td__promo",
	"Shipping": ".td__shipping",
	"Tax":      ".td__tax",
	"Total":    ".td__finalPrice",
}

type Scraper struct {
	Collector *colly.Collector
	Headers   map[string]map[string]string

	randomUserAgent bool
}

func linkURL(parts ...string) string {
	last := parts[len(parts)-1]
	if last == "" {
		return ""
	} else if strings.HasPrefix(last, "http") {
		return last
	}
	return strings.Join(parts, "")
}

func buildSearchURL(searchTerm string, region string) string {
	return utils.BuildPrefixURL(region) + "search?q=" + url.QueryEscape(searchTerm)
}

// NewScraper initializes a new instance of the Scraper type and returns it.
// Every fetch runs on a clone of Collector, so callbacks never pile up
// between calls.
func NewScraper() *Scraper {
	col := colly.NewCollector()
	col.Async = true
	col.AllowURLRevisit = true

	return &Scraper{
		Collector: col,
		Headers: map[string]map[string]string{
			"global": {},
		},
	}
}

// WithTransport routes every request through rt.
func (scrap *Scraper) WithTransport(rt http.RoundTripper) *Scraper {
	scrap.Collector.WithTransport(rt)
	return scrap
}

// UpdateHeaders sets extra request headers for a host, or for every host
// when site is "global".
func (scrap *Scraper) UpdateHeaders(site string, newHeaders map[string]string) {
	headers := make(map[string]string, len(newHeaders))
	for k, v := range newHeaders {
		headers[k] = v
	}
	scrap.Headers[site] = headers
}

func (scrap *Scraper) RandomizeUserAgent() {
	scrap.randomUserAgent = true
}

func (scrap *Scraper) collector() *colly.Collector {
	col := scrap.Collector.Clone()
	col.Async = scrap.Collector.Async

	col.OnRequest(func(r *colly.Request) {
		headers := map[string]string{}
		for k, v := range scrap.Headers["global"] {
			headers[k] = v
		}
		for k, v := range scrap.Headers[r.URL.Hostname()] {
			headers[k] = v
		}
		for k, v := range headers {
			if len(k) > 0 && len(v) > 0 {
				r.Headers.Set(k, v)
			}
		}
	})
	if scrap.randomUserAgent {
		extensions.RandomUserAgent(col)
		col.OnRequest(func(r *colly.Request) {
			log.Debug("User-Agent:", r.Headers.Get("User-Agent"))
		})
	}
	return col
}

// FindProduct searches PCPartPicker for searchTerm and returns the URL of the
// first product found. A search that lands straight on a product page
// returns that page.
func (scrap *Scraper) FindProduct(searchTerm string, region string) (string, error) {
	fullURL := buildSearchURL(searchTerm, region)
	if !utils.MatchPCPPURL(fullURL) {
		return "", ErrInvalidRegion
	}

	col := scrap.collector()
	var (
		reqURL  string
		results []string
	)

	col.OnHTML(".pageTitle", func(h *colly.HTMLElement) {
		reqURL = h.Request.URL.String()
	})

	col.OnHTML(".search-results__pageContent .block", func(elem *colly.HTMLElement) {
		elem.ForEach(".list-unstyled li", func(i int, searchResult *colly.HTMLElement) {
			link := linkURL("https://", elem.Request.URL.Host, searchResult.ChildAttr(".search_results--link a", "href"))
			if link != "" {
				results = append(results, link)
			}
		})
	})

	err := col.Visit(fullURL)
	col.Wait()
	if err != nil {
		return "", err
	}

	if utils.MatchProductURL(reqURL) {
		return reqURL, nil
	}
	for _, r := range results {
		if utils.MatchProductURL(r) {
			return r, nil
		}
	}
	return "", ErrNoResults
}

// FetchOffers reads the product name and every vendor row of a product page.
func (scrap *Scraper) FetchOffers(URL string) (*models.PartOffers, error) {
	if !utils.MatchProductURL(URL) {
		return nil, ErrInvalidProductURL
	}

	col := scrap.collector()
	offers := models.PartOffers{URL: URL}

	col.OnHTML(".wrapper__pageTitle section.xs-col-11", func(title *colly.HTMLElement) {
		offers.Name = title.ChildText(".pageTitle")
	})

	col.OnHTML("#prices table tbody tr", func(vendor *colly.HTMLElement) {
		if vendor.Attr("class") != "" {
			return
		}

		price := models.Price{}

		for k, v := range offerClassMappings {
			stringPrice := vendor.ChildText(v)
			val, curr, _ := models.ParsePrice(stringPrice)

			switch k {
			case "Base":
				price.Base = val
			case "Shipping":
				price.Shipping = val
			case "Tax":
				price.Tax = val
			case "Promo":
				price.Discounts = val
			case "Total":
				price.Total = val
				price.Currency = curr
				price.TotalString = stringPrice
			}
		}

		v := models.Vendor{
			Name:    vendor.ChildAttr(".td__logo a img", "alt"),
			Image:   linkURL("https:", vendor.ChildAttr(".td__logo a img", "src")),
			InStock: vendor.ChildText(".td__availability") == "In stock",
			URL:     linkURL("https://", vendor.Request.URL.Host, vendor.ChildAttr(".td__finalPrice a", "href")),
			Price:   price,
		}
		if v.Name == "" {
			v.Name = utils.ExtractVendorName(v.URL)
		}
		offers.Vendors = append(offers.Vendors, v)
	})

	err := col.Visit(URL)
	col.Wait()

	if err != nil {
		return nil, err
	}

	return &offers, nil
}
