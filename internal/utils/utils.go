package utils

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	pcppURLMatcher    = regexp2.MustCompile(`^(https?://)?([a-z]{2}\.)?pcpartpicker\.com(/.*)?$`, 0)
	productURLMatcher = regexp2.MustCompile(`^(https?://)?([a-z]{2}\.)?pcpartpicker\.com/product/[a-zA-Z0-9]{4,8}/[\S]*`, 0)
	listLinkMatcher   = regexp2.MustCompile(`(https?://)?([a-z]{2}\.)?pcpartpicker\.com/list/[a-zA-Z0-9]{4,8}`, 0)
	vendorNameMatcher = regexp2.MustCompile(`(?<=pcpartpicker\.com/mr/).*(?=\/)`, 0)

	// "2x16 GB", "2 x 32GB"
	kitQuantityMatcher = regexp2.MustCompile(`^\s*(?<count>\d+)\s*[xX×]\s*(?<num>\d+(?:[.,]\d+)?)\s*(?<unit>[a-zA-Z]+)?`, 0)
	// "65 W", "3.6 GHz", "6400MHz", "19 800 pkt", "DDR5-6000" is not a quantity
	quantityMatcher = regexp2.MustCompile(`^\s*(?<num>\d{1,3}(?:[ \u00A0]\d{3})+|\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:[.,]\d+)?)\s*(?<unit>[a-zA-Z]+)?\s*$`, 0)

	// "1,000" and "12,500.5" group thousands with commas
	commaThousandsMatcher = regexp2.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`, 0)
)

// Quantity is a number read from a catalog attribute together with the unit
// it was written in. Unit is lower-cased and empty when the value was bare.
type Quantity struct {
	Value float64
	Unit  string
}

// ParseQuantity reads values such as "65 W", "3200 MHz", "2 TB", "2x16 GB"
// or "180". Anything carrying text other than a trailing unit is rejected.
func ParseQuantity(s string) (Quantity, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, false
	}

	if m, err := kitQuantityMatcher.FindStringMatch(s); err == nil && m != nil && m.String() == s {
		count, errCount := strconv.Atoi(m.GroupByName("count").String())
		value, errValue := parseNumber(m.GroupByName("num").String())
		if errCount == nil && errValue == nil {
			return Quantity{Value: float64(count) * value, Unit: strings.ToLower(m.GroupByName("unit").String())}, true
		}
	}

	m, err := quantityMatcher.FindStringMatch(s)
	if err != nil || m == nil {
		return Quantity{}, false
	}
	value, err := parseNumber(m.GroupByName("num").String())
	if err != nil {
		return Quantity{}, false
	}
	return Quantity{Value: value, Unit: strings.ToLower(m.GroupByName("unit").String())}, true
}

func parseNumber(s string) (float64, error) {
	if ok, _ := commaThousandsMatcher.MatchString(s); ok {
		s = strings.ReplaceAll(s, ",", "")
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(s)
	return strconv.ParseFloat(s, 64)
}

// SplitList breaks "AM4, AM5 / LGA1700" style attribute values into items.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ';' || r == '|'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func ExtractVendorName(URL string) string {
	if URL == "" {
		return ""
	}
	m, err := vendorNameMatcher.FindStringMatch(URL)
	if err != nil || m == nil {
		return ""
	}
	return m.String()
}

func MatchPCPPURL(URL string) bool {
	match, _ := pcppURLMatcher.MatchString(URL)

	return match
}

func MatchProductURL(URL string) bool {
	match, _ := productURLMatcher.MatchString(URL)

	return match
}

// ExtractPartListURLs returns every part list link found in text.
func ExtractPartListURLs(text string) []string {
	return searchAll(listLinkMatcher, text)
}

func searchAll(re *regexp2.Regexp, s string) []string {
	var matches []string
	m, _ := re.FindStringMatch(s)
	for m != nil {
		matches = append(matches, m.String())
		m, _ = re.FindNextMatch(m)
	}
	return matches
}

func BuildPrefixURL(region string) string {
	if region != "" && region != "us" {
		region += "."
	} else {
		region = ""
	}
	prefixURL := "https://" + region + "pcpartpicker.com/"
	return prefixURL
}
