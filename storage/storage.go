// Package storage persists price history behind one interface with two
// interchangeable backends: a local JSON file keyed by product name
// (latest-only) and a Postgres document-style store (full history). The
// backend is selected once at startup.
package storage

import (
	"fmt"
	"time"

	"github.com/Sakshikhade/wee-price-tracker/config"
	"github.com/Sakshikhade/wee-price-tracker/database"
	"github.com/Sakshikhade/wee-price-tracker/models"
)

// HistoryStore is the persistence contract for price records.
//
// GetLatest after Append with a newer timestamp always reflects the newest
// record; ties are broken by insertion order. With two pipeline runs racing
// (which the design does not expect), the latest record is last-writer-wins.
type HistoryStore interface {
	// GetLatest returns the most recent record for a product, or nil when
	// the product has no history.
	GetLatest(productKey string) (*models.PriceRecord, error)

	// Append stores a new record for the product.
	Append(productKey string, record models.PriceRecord) error

	// GetTrend returns records newer than since, newest first, at most
	// limit entries. A limit of zero or less means unbounded. The file
	// backend degrades to at most the latest record.
	GetTrend(productKey string, since time.Time, limit int) ([]models.PriceRecord, error)

	Close() error
}

// AlertSink is implemented by backends that also persist drop alerts for
// later analytics.
type AlertSink interface {
	RecordDropAlert(event models.DropEvent) error
	RecentDropAlerts(since time.Time, limit int) ([]models.DropEvent, error)
}

// CatalogReader is implemented by backends that maintain their own product
// rows alongside the price history.
type CatalogReader interface {
	Products() ([]models.TrackedProduct, error)
}

// Open selects and initializes the configured backend.
func Open(cfg *config.Config) (HistoryStore, error) {
	switch cfg.StorageBackend {
	case "file", "":
		return NewFileStore(cfg.HistoryFile), nil
	case "postgres":
		if err := database.InitDatabase(); err != nil {
			return nil, err
		}
		if err := database.CreateTables(); err != nil {
			return nil, err
		}
		return NewPostgresStore(database.DB), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}
