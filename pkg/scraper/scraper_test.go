package scraper

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<html><body>
<div class="wrapper__pageTitle"><section class="xs-col-11">
  <h1 class="pageTitle">AMD Ryzen 5 7600 3.8 GHz 6-Core Processor</h1>
</section></div>
<div id="prices"><table><tbody>
  <tr>
    <td class="td__logo"><a href="/mr/xkom/a1"><img alt="x-kom" src="//cdn.pcpartpicker.com/xkom.png"></a></td>
    <td class="td__base">759,00 zł</td>
    <td class="td__availability">In stock</td>
    <td class="td__finalPrice"><a href="/mr/xkom/a1">759,00 zł</a></td>
  </tr>
  <tr>
    <td class="td__logo"><a href="/mr/morele/b2"><img alt="Morele" src="//cdn.pcpartpicker.com/morele.png"></a></td>
    <td class="td__base">749,00 zł</td>
    <td class="td__promo">-10,00 zł</td>
    <td class="td__availability">In stock</td>
    <td class="td__finalPrice"><a href="/mr/morele/b2">739,00 zł</a></td>
  </tr>
  <tr>
    <td class="td__logo"><a href="/mr/komputronik/c3"><img alt="Komputronik" src="//cdn.pcpartpicker.com/k.png"></a></td>
    <td class="td__availability">Out of stock</td>
    <td class="td__finalPrice"><a href="/mr/komputronik/c3">699,00 zł</a></td>
  </tr>
  <tr class="tr--hidden"><td class="td__finalPrice">1,00 zł</td></tr>
</tbody></table></div>
</body></html>`

const searchPage = `<html><body>
<h1 class="pageTitle">Search results</h1>
<div class="search-results__pageContent"><div class="block"><ul class="list-unstyled">
  <li><p class="search_results--link"><a href="/product/FFxmP6/amd-ryzen-5-7600">AMD Ryzen 5 7600</a></p></li>
  <li><p class="search_results--link"><a href="/product/9nm323/amd-ryzen-5-7600x">AMD Ryzen 5 7600X</a></p></li>
</ul></div></div>
</body></html>`

type pageTransport struct {
	pages    map[string]string
	requests []*http.Request
}

func (p *pageTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	p.requests = append(p.requests, req)
	body, ok := p.pages[req.URL.Path]
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"text/html; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func TestFetchOffers(t *testing.T) {
	rt := &pageTransport{pages: map[string]string{"/product/FFxmP6/amd-ryzen-5-7600": productPage}}
	s := NewScraper().WithTransport(rt)
	s.UpdateHeaders("global", map[string]string{"Accept-Language": "pl-PL"})

	offers, err := s.FetchOffers("https://pl.pcpartpicker.com/product/FFxmP6/amd-ryzen-5-7600")
	require.NoError(t, err)

	assert.Equal(t, "AMD Ryzen 5 7600 3.8 GHz 6-Core Processor", offers.Name)
	require.Len(t, offers.Vendors, 3)

	best, ok := offers.Cheapest()
	require.True(t, ok)
	assert.Equal(t, "Morele", best.Name)
	assert.Equal(t, 739.0, best.Price.Total)
	assert.Equal(t, 749.0, best.Price.Base)
	assert.Equal(t, "PLN", best.Price.Currency)
	assert.Equal(t, "https://pl.pcpartpicker.com/mr/morele/b2", best.URL)
	assert.Equal(t, "https://cdn.pcpartpicker.com/morele.png", best.Image)

	require.NotEmpty(t, rt.requests)
	assert.Equal(t, "pl-PL", rt.requests[0].Header.Get("Accept-Language"))
}

func TestFetchOffersCallbacksDoNotAccumulate(t *testing.T) {
	rt := &pageTransport{pages: map[string]string{"/product/FFxmP6/amd-ryzen-5-7600": productPage}}
	s := NewScraper().WithTransport(rt)

	for i := 0; i < 2; i++ {
		offers, err := s.FetchOffers("https://pcpartpicker.com/product/FFxmP6/amd-ryzen-5-7600")
		require.NoError(t, err)
		assert.Len(t, offers.Vendors, 3)
	}
}

func TestFetchOffersRejectsOtherURLs(t *testing.T) {
	_, err := NewScraper().FetchOffers("https://example.com/product/FFxmP6/amd")
	assert.ErrorIs(t, err, ErrInvalidProductURL)

	_, err = NewScraper().FetchOffers("https://pcpartpicker.com/list/abcd")
	assert.ErrorIs(t, err, ErrInvalidProductURL)
}

func TestFindProduct(t *testing.T) {
	rt := &pageTransport{pages: map[string]string{"/search": searchPage}}
	s := NewScraper().WithTransport(rt)

	link, err := s.FindProduct("Ryzen 5 7600", "us")
	require.NoError(t, err)
	assert.Equal(t, "https://pcpartpicker.com/product/FFxmP6/amd-ryzen-5-7600", link)
	assert.Equal(t, "Ryzen 5 7600", rt.requests[0].URL.Query().Get("q"))

	_, err = s.FindProduct("Ryzen", "!!")
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestFindProductWithoutResults(t *testing.T) {
	rt := &pageTransport{pages: map[string]string{"/search": `<html><body><h1 class="pageTitle">Search</h1></body></html>`}}

	_, err := NewScraper().WithTransport(rt).FindProduct("nothing", "pl")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestLinkURL(t *testing.T) {
	assert.Equal(t, "", linkURL("https://", "pcpartpicker.com", ""))
	assert.Equal(t, "https://x.com/a", linkURL("https://", "pcpartpicker.com", "https://x.com/a"))
	assert.Equal(t, "https://pcpartpicker.com/mr/a", linkURL("https://", "pcpartpicker.com", "/mr/a"))
}
