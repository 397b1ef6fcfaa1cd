// Package detector implements the per-product price-drop state machine.
// The first priced observation establishes a baseline, a strictly lower
// subsequent price emits a drop event, and every priced observation
// becomes the new stored price. Observations without a parsed price are
// ignored entirely so a transient listing glitch cannot erase the
// baseline.
package detector

import (
	"time"

	"github.com/Sakshikhade/wee-price-tracker/models"
	"github.com/Sakshikhade/wee-price-tracker/storage"
)

// Compare is the pure transition: it returns a DropEvent when newPrice is
// strictly below the last stored price, nil otherwise.
func Compare(last *models.PriceRecord, productKey string, newPrice float64, at time.Time) *models.DropEvent {
	if last == nil || !last.HasPrice() {
		return nil
	}
	if newPrice >= *last.Price {
		return nil
	}
	event := models.NewDropEvent(productKey, *last.Price, newPrice, at)
	return &event
}

// Detector runs the state machine against a history store.
type Detector struct {
	store storage.HistoryStore
}

// New creates a detector over the given store.
func New(store storage.HistoryStore) *Detector {
	return &Detector{store: store}
}

// Observe records one observation and returns the drop event it triggered,
// if any. The stored price is always advanced to the new observation, even
// when no drop is detected, so future comparisons see the latest price.
// Observations without a parsed price (price == nil) are skipped without
// touching history; the last numeric baseline stays in place for the next
// priced observation to compare against.
//
// A non-nil event may be returned together with a non-nil error: the event
// was detected but persisting the new price failed. The caller should still
// notify and accept the risk of a duplicate alert on the next run.
func (d *Detector) Observe(productKey string, price *float64, priceText string, at time.Time) (*models.DropEvent, error) {
	if price == nil {
		return nil, nil
	}

	last, err := d.store.GetLatest(productKey)
	if err != nil {
		return nil, err
	}

	event := Compare(last, productKey, *price, at)

	record := models.PriceRecord{
		ProductKey: productKey,
		Price:      price,
		PriceText:  priceText,
		ScrapedAt:  at,
	}
	if err := d.store.Append(productKey, record); err != nil {
		return event, err
	}
	return event, nil
}
