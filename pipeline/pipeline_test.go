package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sakshikhade/wee-price-tracker/alerts"
	"github.com/Sakshikhade/wee-price-tracker/matcher"
	"github.com/Sakshikhade/wee-price-tracker/models"
	"github.com/Sakshikhade/wee-price-tracker/scraper"
	"github.com/Sakshikhade/wee-price-tracker/storage"
)

// staticFetcher serves a fixed page without any network.
type staticFetcher struct {
	html string
	err  error
}

func (f staticFetcher) Fetch(ctx context.Context) (string, error) {
	return f.html, f.err
}

const salePageHTML = `
<html><body>
  <div data-testid="wid-product-card-container">
    <h3>Maggi Masala instant noodles 9.8 oz</h3>
    <div data-testid="wid-product-card-price">$3.99</div>
  </div>
  <div data-testid="wid-product-card-container">
    <h3>Fresh Durian Whole</h3>
    <div data-testid="wid-product-card-price">$12.99</div>
  </div>
</body></html>`

func floatPtr(v float64) *float64 { return &v }

func newTestPipeline(t *testing.T, fetcher scraper.Fetcher, store storage.HistoryStore) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()

	recipientsFile := filepath.Join(dir, "recipients.json")
	recipients := []models.Recipient{{
		Email:   "shopper@example.com",
		Name:    "Shopper",
		Enabled: true,
		Preferences: models.AlertPreferences{
			MinimumSavings:    0.5,
			MinimumPercentage: 5.0,
			AlertFrequency:    "immediate",
		},
	}}
	require.NoError(t, alerts.SaveRecipients(recipientsFile, recipients))

	history := alerts.NewHistory(filepath.Join(dir, "alert_history.json"), 5, 6*time.Hour)
	notifier := alerts.NewNotifier(recipientsFile, history, nil)

	m := matcher.NewWithStrategies(
		[]string{"Maggi Masala instant noodles 9.8 oz"},
		matcher.ExactStrategy{},
		matcher.SimilarityStrategy{Threshold: 0.6},
		matcher.WordOverlapStrategy{Ratio: 0.4},
	)

	csvFile := filepath.Join(dir, "prices.csv")
	p := New(Options{
		Fetcher:   fetcher,
		Extractor: scraper.NewExtractor(scraper.ExtractorOptions{}),
		Matcher:   m,
		Store:     store,
		Exporter:  storage.NewCSVExporter(csvFile),
		Notifier:  notifier,
	})
	return p, csvFile
}

func TestRunDetectsDropAndNotifies(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	key := "Maggi Masala instant noodles 9.8 oz"
	require.NoError(t, store.Append(key, models.PriceRecord{
		ProductKey: key,
		Price:      floatPtr(4.99),
		PriceText:  "$4.99",
		ScrapedAt:  time.Now().Add(-24 * time.Hour),
	}))

	p, csvFile := newTestPipeline(t, staticFetcher{html: salePageHTML}, store)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Observations)
	assert.Equal(t, 1, summary.Matched, "the durian is not in the catalog")
	assert.Equal(t, 0, summary.Unparsable)
	assert.Equal(t, 1, summary.Drops)
	assert.Equal(t, 1, summary.AlertsSent)

	// The new price is the stored baseline now.
	last, err := store.GetLatest(key)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.InDelta(t, 3.99, *last.Price, 0.0001)

	// Matched observations were exported.
	data, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Maggi Masala instant noodles 9.8 oz")
	assert.NotContains(t, string(data), "Durian")
}

func TestRunNoDropSecondTimeAtSamePrice(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	p, _ := newTestPipeline(t, staticFetcher{html: salePageHTML}, store)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, first.Drops, "first sighting establishes the baseline")

	second, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Drops, "unchanged price is not a drop")
	assert.Equal(t, 0, second.AlertsSent)
}

func TestRunAbortsOnFetchFailure(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	p, _ := newTestPipeline(t, staticFetcher{err: errors.New("connection refused")}, store)

	summary, err := p.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, summary)

	last, err := store.GetLatest("Maggi Masala instant noodles 9.8 oz")
	require.NoError(t, err)
	assert.Nil(t, last, "a failed fetch must not touch stored prices")
}

func TestRunFallsBackToRenderedFetch(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	p, _ := newTestPipeline(t, staticFetcher{html: "<html><body>loading...</body></html>"}, store)
	p.rendered = staticFetcher{html: salePageHTML}

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Observations)
	assert.Equal(t, 1, summary.Matched)
}

func TestRunCountsUnparsablePrices(t *testing.T) {
	html := `
	<div data-testid="wid-product-card-container">
	  <h3>Maggi Masala instant noodles 9.8 oz</h3>
	  <div data-testid="wid-product-card-price">$Sold Out</div>
	</div>`

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	p, _ := newTestPipeline(t, staticFetcher{html: html}, store)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Unparsable)
	assert.Equal(t, 0, summary.Drops)

	// The unparsable pass leaves history alone.
	last, err := store.GetLatest("Maggi Masala instant noodles 9.8 oz")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestRunSoldOutPassDoesNotSilenceLaterDrop(t *testing.T) {
	soldOutHTML := `
	<div data-testid="wid-product-card-container">
	  <h3>Maggi Masala instant noodles 9.8 oz</h3>
	  <div data-testid="wid-product-card-price">$Sold Out</div>
	</div>`

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	key := "Maggi Masala instant noodles 9.8 oz"
	require.NoError(t, store.Append(key, models.PriceRecord{
		ProductKey: key,
		Price:      floatPtr(4.99),
		PriceText:  "$4.99",
		ScrapedAt:  time.Now().Add(-48 * time.Hour),
	}))

	p, _ := newTestPipeline(t, staticFetcher{html: soldOutHTML}, store)
	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Drops)

	// Next run the item is back at a lower price; the pre-sold-out
	// baseline must still hold so the drop is seen.
	p2, _ := newTestPipeline(t, staticFetcher{html: salePageHTML}, store)
	summary, err = p2.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Drops)
	assert.Equal(t, 1, summary.AlertsSent)
}
