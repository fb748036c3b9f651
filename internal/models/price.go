package models

import (
	"strconv"
	"strings"
	"unicode"
)

type Price struct {
	Base        float64
	Shipping    float64
	Tax         float64
	Discounts   float64
	Total       float64
	Currency    string
	TotalString string
}

// Vendor is one shop offering a part on a PCPartPicker product page.
type Vendor struct {
	Name    string
	Image   string
	InStock bool
	Price   Price
	URL     string
}

// PartOffers is what a product page says about a part right now.
type PartOffers struct {
	URL     string
	Name    string
	Vendors []Vendor
}

// Cheapest returns the lowest priced in-stock vendor.
func (p PartOffers) Cheapest() (Vendor, bool) {
	var (
		best  Vendor
		found bool
	)
	for _, v := range p.Vendors {
		if !v.InStock || v.Price.Total <= 0 {
			continue
		}
		if !found || v.Price.Total < best.Price.Total {
			best, found = v, true
		}
	}
	return best, found
}

func ParsePrice(price string) (float64, string, error) {
	price = strings.TrimSpace(price)

	if price == "" {
		return 0, "", nil
	}

	currency, number := "", ""

	for _, char := range price {
		currency, number = processCharacter(char, currency, number)
	}

	float, err := strconv.ParseFloat(number, 64)

	if err != nil {
		return 0, "", err
	}

	return float, NormalizeCurrency(currency), nil
}

// NormalizeCurrency maps the symbols shops print to 3-letter codes.
func NormalizeCurrency(symbol string) string {
	switch strings.TrimSpace(symbol) {
	case "$":
		return "USD"
	case "€":
		return "EUR"
	case "£":
		return "GBP"
	case "zł", "zl":
		return "PLN"
	case "":
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func processCharacter(char rune, currency, number string) (string, string) {
	if isSpaceOrPlus(char) {
		return currency, number
	} else if isSeparatorChar(char) {
		number += "."
	} else if unicode.IsDigit(char) {
		number += string(char)
	} else {
		currency += string(char)
	}
	return currency, number
}

func isSeparatorChar(char rune) bool {
	return char == '.' || char == ','
}

func isSpaceOrPlus(char rune) bool {
	return char == ' ' || char == '+' || char == '\u00a0'
}
