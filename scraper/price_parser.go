package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// priceValuePattern picks out the first integer-or-decimal run after
// thousands separators are stripped. The currency symbol is ignored on
// purpose; the storefront only ever shows one currency at a time.
var priceValuePattern = regexp.MustCompile(`\d+\.?\d*`)

// ParsePrice extracts a numeric price from a human price string such as
// "$4.99" or "¥1,234.56". The second return is false when the text is
// empty, has no digits, or the numeric run does not parse. It never panics.
func ParsePrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	cleaned := strings.ReplaceAll(text, ",", "")
	match := priceValuePattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
