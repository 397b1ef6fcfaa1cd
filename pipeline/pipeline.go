// Package pipeline wires one scrape → match → parse → detect → notify pass.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/Sakshikhade/wee-price-tracker/alerts"
	"github.com/Sakshikhade/wee-price-tracker/detector"
	"github.com/Sakshikhade/wee-price-tracker/matcher"
	"github.com/Sakshikhade/wee-price-tracker/models"
	"github.com/Sakshikhade/wee-price-tracker/scraper"
	"github.com/Sakshikhade/wee-price-tracker/storage"
)

// Pipeline runs the whole tracking pass. It is synchronous and assumes
// at-most-one execution at a time; two racing runs would make the stored
// latest price last-writer-wins.
type Pipeline struct {
	fetcher   scraper.Fetcher
	rendered  scraper.Fetcher // optional fallback when static HTML is empty
	extractor *scraper.Extractor
	matcher   *matcher.Matcher
	store     storage.HistoryStore
	exporter  *storage.CSVExporter // optional
	notifier  *alerts.Notifier
	detector  *detector.Detector
}

// Options collects the pipeline's collaborators. Fetcher, Extractor,
// Matcher, Store, and Notifier are required; Rendered and Exporter are
// optional.
type Options struct {
	Fetcher   scraper.Fetcher
	Rendered  scraper.Fetcher
	Extractor *scraper.Extractor
	Matcher   *matcher.Matcher
	Store     storage.HistoryStore
	Exporter  *storage.CSVExporter
	Notifier  *alerts.Notifier
}

// New assembles a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		fetcher:   opts.Fetcher,
		rendered:  opts.Rendered,
		extractor: opts.Extractor,
		matcher:   opts.Matcher,
		store:     opts.Store,
		exporter:  opts.Exporter,
		notifier:  opts.Notifier,
		detector:  detector.New(opts.Store),
	}
}

// Run executes one pass. A fetch failure aborts the run with an error and
// no price updates; every later failure is logged and degrades to a no-op
// for the affected item only.
func (p *Pipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{StartedAt: time.Now()}

	html, err := p.fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("❌ Fetch failed, aborting this run: %v", err)
		return nil, err
	}

	observations, err := p.extractor.Extract(html)
	if err != nil {
		log.Printf("❌ Extraction failed, aborting this run: %v", err)
		return nil, err
	}

	// The storefront renders product cards client-side on some variants of
	// the page; retry once with the headless browser when the static HTML
	// yielded nothing and a renderer is configured.
	if len(observations) == 0 && p.rendered != nil {
		log.Printf("No products in static HTML, retrying with rendered fetch")
		html, err = p.rendered.Fetch(ctx)
		if err != nil {
			log.Printf("❌ Rendered fetch failed, aborting this run: %v", err)
			return nil, err
		}
		if observations, err = p.extractor.Extract(html); err != nil {
			log.Printf("❌ Extraction failed, aborting this run: %v", err)
			return nil, err
		}
	}

	summary.Observations = len(observations)
	log.Printf("📊 Total unique products found: %d", len(observations))

	p.notifier.Reload()

	var matched []models.ScrapedObservation
	for _, obs := range observations {
		if p.matcher.IsTracked(obs.ProductName) {
			matched = append(matched, obs)
		}
	}
	summary.Matched = len(matched)

	if p.exporter != nil {
		if err := p.exporter.Export(matched); err != nil {
			log.Printf("Failed to export CSV: %v", err)
		} else if len(matched) > 0 {
			log.Printf("✅ Saved %d products to CSV", len(matched))
		}
	}

	for _, obs := range matched {
		productKey, _ := p.matcher.Match(obs.ProductName)

		var price *float64
		if value, ok := scraper.ParsePrice(obs.PriceText); ok {
			price = &value
		} else {
			summary.Unparsable++
		}

		event, err := p.detector.Observe(productKey, price, obs.PriceText, obs.ScrapedAt)
		if err != nil {
			// A failed history write risks a duplicate alert next run;
			// availability wins over exactly-once here.
			log.Printf("Failed to update price history for %s: %v", productKey, err)
		}
		if event == nil {
			continue
		}

		summary.Drops++
		if sink, ok := p.store.(storage.AlertSink); ok {
			if err := sink.RecordDropAlert(*event); err != nil {
				log.Printf("Failed to record drop alert for %s: %v", productKey, err)
			}
		}
		summary.AlertsSent += p.notifier.Notify(*event)
	}

	summary.FinishedAt = time.Now()
	if summary.Drops == 0 {
		log.Printf("💰 No price drops detected for tracked products")
	}
	log.Printf("Run finished: %d observations, %d matched, %d drops, %d alerts sent (%.1fs)",
		summary.Observations, summary.Matched, summary.Drops, summary.AlertsSent,
		summary.FinishedAt.Sub(summary.StartedAt).Seconds())

	return summary, nil
}
