package models

import (
	"fmt"
	"time"
)

// TrackedProduct is one entry in the fixed catalog of items whose price is
// monitored. The catalog is loaded once at startup and never mutated by the
// pipeline.
type TrackedProduct struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"product_name"`
	Brand     string    `json:"brand,omitempty" db:"brand"`
	Category  string    `json:"category,omitempty" db:"category"`
	UnitSize  string    `json:"unit_size,omitempty" db:"unit_size"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	Priority  int       `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ScrapedObservation is one (name, price) candidate produced by a single
// extraction pass. It may or may not correspond to a tracked product.
type ScrapedObservation struct {
	ProductName    string    `json:"product_name"`
	PriceText      string    `json:"price_text"`
	UnitText       string    `json:"unit_text"`
	SourceSelector string    `json:"source_selector"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// DedupKey identifies an observation within one pass for deduplication.
func (o ScrapedObservation) DedupKey() string {
	return o.ProductName + "_" + o.PriceText
}

// PriceRecord is one stored price point for a tracked product. Price is nil
// only when the source text could not be parsed; it is never negative.
type PriceRecord struct {
	ProductKey string    `json:"product_key"`
	Price      *float64  `json:"price"`
	PriceText  string    `json:"price_str"`
	ScrapedAt  time.Time `json:"timestamp"`
}

// HasPrice reports whether the record carries a parsed numeric price.
func (r PriceRecord) HasPrice() bool {
	return r.Price != nil
}

// DropEvent is a detected decrease between the last stored price and a new
// observation for the same product. It is ephemeral and only persisted where
// a backend keeps an alerts collection.
type DropEvent struct {
	ProductKey        string    `json:"product_key"`
	OldPrice          float64   `json:"old_price"`
	NewPrice          float64   `json:"new_price"`
	SavingsAmount     float64   `json:"savings_amount"`
	SavingsPercentage float64   `json:"savings_percentage"`
	DetectedAt        time.Time `json:"detected_at"`
}

// NewDropEvent builds a DropEvent from old and new prices. Callers must only
// invoke this when newPrice < oldPrice.
func NewDropEvent(productKey string, oldPrice, newPrice float64, at time.Time) DropEvent {
	savings := oldPrice - newPrice
	return DropEvent{
		ProductKey:        productKey,
		OldPrice:          oldPrice,
		NewPrice:          newPrice,
		SavingsAmount:     savings,
		SavingsPercentage: (savings / oldPrice) * 100,
		DetectedAt:        at,
	}
}

// String returns a one-line summary for log output.
func (e DropEvent) String() string {
	return fmt.Sprintf("%s: $%.2f → $%.2f (save $%.2f, %.1f%% off)",
		e.ProductKey, e.OldPrice, e.NewPrice, e.SavingsAmount, e.SavingsPercentage)
}

// AlertPreferences are the per-recipient thresholds an event must clear
// before an alert is dispatched.
type AlertPreferences struct {
	MinimumSavings    float64 `json:"minimum_savings"`
	MinimumPercentage float64 `json:"minimum_percentage"`
	AlertFrequency    string  `json:"alert_frequency"` // "immediate", "daily", "weekly"
}

// Recipient is one alert subscriber. Recipients are edited through the admin
// surface, never by the pipeline itself.
type Recipient struct {
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Enabled     bool             `json:"enabled"`
	Preferences AlertPreferences `json:"alert_preferences"`
}

// AlertRecord tracks one dispatched alert. The notifier owns these records
// exclusively and uses them to enforce daily caps and per-product cooldowns.
type AlertRecord struct {
	ProductKey     string    `json:"product_name"`
	RecipientEmail string    `json:"recipient"`
	SentAt         time.Time `json:"timestamp"`
}

// Key identifies the (product, recipient) pair an alert record belongs to.
func (a AlertRecord) Key() string {
	return a.ProductKey + "_" + a.RecipientEmail
}

// RunSummary collects per-run counters logged when a pipeline pass finishes.
type RunSummary struct {
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Observations int       `json:"observations"`
	Matched      int       `json:"matched"`
	Unparsable   int       `json:"unparsable"`
	Drops        int       `json:"drops"`
	AlertsSent   int       `json:"alerts_sent"`
}
