package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sakshikhade/wee-price-tracker/models"
)

// The storefront ships unstable markup, so container and field selectors are
// ordered most-specific first and the extractor stops at the first container
// selector that yields named items (first success wins, not best-of-all).
var defaultContainerSelectors = []string{
	`div[data-testid="wid-product-card-container"]`,
	`[data-testid*="product"]`,
	`.product-card`,
	`.product-item`,
	`article`,
	`[class*="product"]`,
	`[class*="Product"]`,
	`div[class*="card"]`,
	`a[href*="/product/"]`,
	`div[class*="item"]`,
}

var defaultNameSelectors = []string{
	`div[data-role="product-name"]`,
	`[data-testid*="name"]`,
	`[data-testid*="title"]`,
	`h1`, `h2`, `h3`, `h4`, `h5`, `h6`,
	`.product-name`,
	`.title`,
	`.name`,
	`a[href*="/product/"]`,
	`span[class*="name"]`,
	`span[class*="title"]`,
	`div[class*="name"]`,
	`div[class*="title"]`,
	`p[class*="name"]`,
	`p[class*="title"]`,
}

var defaultPriceSelectors = []string{
	`div[data-testid="wid-product-card-price"]`,
	`[data-testid*="price"]`,
	`.price`,
	`[class*="price"]`,
	`[class*="Price"]`,
	`span[class*="price"]`,
	`div[class*="price"]`,
	`p[class*="price"]`,
}

var defaultUnitSelectors = []string{
	`div[data-role="product-unit-price"]`,
	`[data-testid*="unit"]`,
	`.unit-price`,
	`.unit`,
}

// defaultNameKeywords seed the free-text fallback used when an item has no
// structured title element at all.
var defaultNameKeywords = []string{"noodles", "sauce", "soy", "maggi", "lee kum", "barramundi", "fish"}

var priceTextPattern = regexp.MustCompile(`[$€£¥][\d,]+\.?\d*`)

// ExtractorOptions override the built-in selector lists. Zero values keep
// the defaults.
type ExtractorOptions struct {
	ContainerSelectors []string
	NameSelectors      []string
	PriceSelectors     []string
	UnitSelectors      []string
	NameKeywords       []string
	MaxItemsPerList    int
}

// Extractor turns raw page markup into candidate product observations.
type Extractor struct {
	containerSelectors []string
	nameSelectors      []string
	priceSelectors     []string
	unitSelectors      []string
	nameKeywords       []string
	maxItems           int
	now                func() time.Time
}

// NewExtractor creates an extractor with the given option overrides.
func NewExtractor(opts ExtractorOptions) *Extractor {
	e := &Extractor{
		containerSelectors: defaultContainerSelectors,
		nameSelectors:      defaultNameSelectors,
		priceSelectors:     defaultPriceSelectors,
		unitSelectors:      defaultUnitSelectors,
		nameKeywords:       defaultNameKeywords,
		maxItems:           30,
		now:                time.Now,
	}
	if len(opts.ContainerSelectors) > 0 {
		e.containerSelectors = opts.ContainerSelectors
	}
	if len(opts.NameSelectors) > 0 {
		e.nameSelectors = opts.NameSelectors
	}
	if len(opts.PriceSelectors) > 0 {
		e.priceSelectors = opts.PriceSelectors
	}
	if len(opts.UnitSelectors) > 0 {
		e.unitSelectors = opts.UnitSelectors
	}
	if len(opts.NameKeywords) > 0 {
		e.nameKeywords = opts.NameKeywords
	}
	if opts.MaxItemsPerList > 0 {
		e.maxItems = opts.MaxItemsPerList
	}
	return e
}

// Extract produces the candidate observations found in the markup,
// deduplicated by (name, price text) within this pass. Items where neither
// a name nor a price can be extracted are discarded silently.
func (e *Extractor) Extract(html string) ([]models.ScrapedObservation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %v", err)
	}

	scrapedAt := e.now()

	for _, selector := range e.containerSelectors {
		items := doc.Find(selector)
		if items.Length() == 0 {
			continue
		}

		var observations []models.ScrapedObservation
		seen := make(map[string]struct{})

		items.EachWithBreak(func(i int, item *goquery.Selection) bool {
			if i >= e.maxItems {
				return false
			}

			name := e.extractName(item)
			price := e.extractPrice(item)
			if name == "" && price == "" {
				return true
			}

			obs := models.ScrapedObservation{
				ProductName:    name,
				PriceText:      price,
				UnitText:       e.extractUnit(item),
				SourceSelector: selector,
				ScrapedAt:      scrapedAt,
			}
			if _, dup := seen[obs.DedupKey()]; dup {
				return true
			}
			seen[obs.DedupKey()] = struct{}{}
			observations = append(observations, obs)
			return true
		})

		// Stop at the first selector that produced named items.
		for _, obs := range observations {
			if obs.ProductName != "" {
				return observations, nil
			}
		}
	}

	return nil, nil
}

func (e *Extractor) extractName(item *goquery.Selection) string {
	for _, sel := range e.nameSelectors {
		text := strings.TrimSpace(item.Find(sel).First().Text())
		if len(text) > 3 {
			return text
		}
	}

	// No structured title; scan the item's free text for a keyword-bearing
	// line instead.
	for _, line := range strings.Split(item.Text(), "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range e.nameKeywords {
			if strings.Contains(lower, kw) {
				return line
			}
		}
	}
	return ""
}

func (e *Extractor) extractPrice(item *goquery.Selection) string {
	for _, sel := range e.priceSelectors {
		text := strings.TrimSpace(item.Find(sel).First().Text())
		if text != "" && strings.ContainsAny(text, "$€£¥") {
			return text
		}
	}
	// Fall back to a price-looking pattern anywhere in the item text.
	return priceTextPattern.FindString(item.Text())
}

func (e *Extractor) extractUnit(item *goquery.Selection) string {
	for _, sel := range e.unitSelectors {
		text := strings.TrimSpace(item.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}
