package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardHTML = `
<html><body>
  <div data-testid="wid-product-card-container">
    <h3>Maggi Masala Instant Noodles 9.8 oz</h3>
    <div data-testid="wid-product-card-price">$3.99</div>
    <div data-role="product-unit-price">$0.41/oz</div>
  </div>
  <div data-testid="wid-product-card-container">
    <h3>Lee Kum Kee Soy Sauce</h3>
    <div data-testid="wid-product-card-price">$5.49</div>
  </div>
</body></html>`

func TestExtractStructuredCards(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})

	observations, err := e.Extract(cardHTML)
	require.NoError(t, err)
	require.Len(t, observations, 2)

	assert.Equal(t, "Maggi Masala Instant Noodles 9.8 oz", observations[0].ProductName)
	assert.Equal(t, "$3.99", observations[0].PriceText)
	assert.Equal(t, "$0.41/oz", observations[0].UnitText)
	assert.Equal(t, `div[data-testid="wid-product-card-container"]`, observations[0].SourceSelector)

	assert.Equal(t, "Lee Kum Kee Soy Sauce", observations[1].ProductName)
	assert.Equal(t, "$5.49", observations[1].PriceText)
}

func TestExtractFallsThroughSelectorCascade(t *testing.T) {
	// No data-testid containers; the generic .product-card selector should
	// pick the items up instead.
	html := `
	<div class="product-card">
	  <h2>Shin Ramyun Noodle Soup</h2>
	  <span class="price">$8.99</span>
	</div>`

	e := NewExtractor(ExtractorOptions{})
	observations, err := e.Extract(html)
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, "Shin Ramyun Noodle Soup", observations[0].ProductName)
	assert.Equal(t, "$8.99", observations[0].PriceText)
}

func TestExtractDeduplicatesWithinPass(t *testing.T) {
	html := `
	<div class="product-card"><h3>Duplicate Noodles</h3><span class="price">$2.99</span></div>
	<div class="product-card"><h3>Duplicate Noodles</h3><span class="price">$2.99</span></div>
	<div class="product-card"><h3>Duplicate Noodles</h3><span class="price">$3.49</span></div>`

	e := NewExtractor(ExtractorOptions{})
	observations, err := e.Extract(html)
	require.NoError(t, err)

	// Same (name, price) pair collapses; a different price survives.
	require.Len(t, observations, 2)
	assert.Equal(t, "$2.99", observations[0].PriceText)
	assert.Equal(t, "$3.49", observations[1].PriceText)
}

func TestExtractDiscardsEmptyItems(t *testing.T) {
	html := `
	<div class="product-card"><h3>Real Soy Sauce Item</h3><span class="price">$4.29</span></div>
	<div class="product-card"><span class="decoration"></span></div>`

	e := NewExtractor(ExtractorOptions{})
	observations, err := e.Extract(html)
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, "Real Soy Sauce Item", observations[0].ProductName)
}

func TestExtractFreeTextNameFallback(t *testing.T) {
	// The card has no title element; the keyword scan over its text lines
	// should recover the name.
	html := `
	<div class="product-card">
	  Maggi 2-Minute Masala Noodles Family Pack
	  <span class="price">$6.99</span>
	</div>`

	e := NewExtractor(ExtractorOptions{
		NameSelectors: []string{".no-such-title"},
	})
	observations, err := e.Extract(html)
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Contains(t, observations[0].ProductName, "Maggi")
}

func TestExtractFreeTextPriceFallbackCurrencies(t *testing.T) {
	// No price element at all; the price is recovered from the item text,
	// whatever currency symbol it carries.
	for _, tt := range []struct {
		symbol string
		want   string
	}{
		{"dollar", "$5.99"},
		{"euro", "€5.99"},
		{"pound", "£5.99"},
		{"yen", "¥599"},
	} {
		t.Run(tt.symbol, func(t *testing.T) {
			html := `<div class="product-card"><h3>Lee Kum Kee Soy Sauce</h3>` +
				`<span>now only ` + tt.want + `</span></div>`

			e := NewExtractor(ExtractorOptions{PriceSelectors: []string{".no-such-price"}})
			observations, err := e.Extract(html)
			require.NoError(t, err)
			require.Len(t, observations, 1)
			assert.Equal(t, tt.want, observations[0].PriceText)
		})
	}
}

func TestExtractHonorsMaxItems(t *testing.T) {
	html := ""
	for i := 0; i < 5; i++ {
		html += `<div class="product-card"><h3>Noodle Variety ` +
			string(rune('A'+i)) + `</h3><span class="price">$1.99</span></div>`
	}

	e := NewExtractor(ExtractorOptions{MaxItemsPerList: 3})
	observations, err := e.Extract(html)
	require.NoError(t, err)
	assert.Len(t, observations, 3)
}

func TestExtractNothingFound(t *testing.T) {
	e := NewExtractor(ExtractorOptions{})
	observations, err := e.Extract("<html><body><p>maintenance page</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, observations)
}
