package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/Sakshikhade/wee-price-tracker/models"
)

// PostgresStore keeps full price history in three collections: products,
// price_history, and drop_alerts. Queries deliberately fetch a product's
// rows and filter/sort client-side, mirroring a document store with no
// server-side query capability beyond a simple scan.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-connected database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ensureProduct returns the id for the named product, creating the catalog
// row on first sight.
func (s *PostgresStore) ensureProduct(productKey string) (int, error) {
	query := `
		INSERT INTO products (product_name, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (product_name) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id int
	err := s.db.QueryRow(query, productKey, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product: %v", err)
	}
	return id, nil
}

// Products returns every catalog row the store has seen, by priority then
// name.
func (s *PostgresStore) Products() ([]models.TrackedProduct, error) {
	rows, err := s.db.Query(`
		SELECT id, product_name, COALESCE(brand, ''), COALESCE(category, ''), COALESCE(unit_size, ''),
		       enabled, priority, created_at, updated_at
		FROM products
		ORDER BY priority, product_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %v", err)
	}
	defer rows.Close()

	var products []models.TrackedProduct
	for rows.Next() {
		var p models.TrackedProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.UnitSize,
			&p.Enabled, &p.Priority, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %v", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) productID(productKey string) (int, bool, error) {
	var id int
	err := s.db.QueryRow(`SELECT id FROM products WHERE product_name = $1`, productKey).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up product: %v", err)
	}
	return id, true, nil
}

// records fetches every history row for a product in insertion order.
func (s *PostgresStore) records(productKey string) ([]models.PriceRecord, error) {
	id, ok, err := s.productID(productKey)
	if err != nil || !ok {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT price, price_text, scraped_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %v", err)
	}
	defer rows.Close()

	var records []models.PriceRecord
	for rows.Next() {
		var price sql.NullFloat64
		rec := models.PriceRecord{ProductKey: productKey}
		if err := rows.Scan(&price, &rec.PriceText, &rec.ScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %v", err)
		}
		if price.Valid {
			v := price.Float64
			rec.Price = &v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetLatest scans the product's records and picks the newest by timestamp,
// later insertions winning ties.
func (s *PostgresStore) GetLatest(productKey string) (*models.PriceRecord, error) {
	records, err := s.records(productKey)
	if err != nil || len(records) == 0 {
		return nil, err
	}

	latest := records[0]
	for _, rec := range records[1:] {
		if !rec.ScrapedAt.Before(latest.ScrapedAt) {
			latest = rec
		}
	}
	return &latest, nil
}

// Append inserts a new history row, creating the product row if needed.
func (s *PostgresStore) Append(productKey string, record models.PriceRecord) error {
	id, err := s.ensureProduct(productKey)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO price_history (product_id, price, price_text, scraped_at)
		VALUES ($1, $2, $3, $4)
	`, id, record.Price, record.PriceText, record.ScrapedAt)
	if err != nil {
		return fmt.Errorf("failed to add price record: %v", err)
	}
	return nil
}

// GetTrend filters the product's records by the window and sorts newest
// first, all client-side.
func (s *PostgresStore) GetTrend(productKey string, since time.Time, limit int) ([]models.PriceRecord, error) {
	records, err := s.records(productKey)
	if err != nil {
		return nil, err
	}

	var trend []models.PriceRecord
	for _, rec := range records {
		if !rec.ScrapedAt.Before(since) {
			trend = append(trend, rec)
		}
	}
	sort.SliceStable(trend, func(i, j int) bool {
		return trend[i].ScrapedAt.After(trend[j].ScrapedAt)
	})
	if limit > 0 && len(trend) > limit {
		trend = trend[:limit]
	}
	return trend, nil
}

// RecordDropAlert persists a drop event into the alerts collection.
func (s *PostgresStore) RecordDropAlert(event models.DropEvent) error {
	id, err := s.ensureProduct(event.ProductKey)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO drop_alerts (product_id, old_price, new_price, savings_amount, savings_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, event.OldPrice, event.NewPrice, event.SavingsAmount, event.SavingsPercentage, event.DetectedAt)
	if err != nil {
		return fmt.Errorf("failed to record drop alert: %v", err)
	}
	return nil
}

// RecentDropAlerts returns drop alerts newer than since, biggest savings
// first, at most limit entries. Filtering and sorting happen client-side.
func (s *PostgresStore) RecentDropAlerts(since time.Time, limit int) ([]models.DropEvent, error) {
	rows, err := s.db.Query(`
		SELECT p.product_name, a.old_price, a.new_price, a.savings_amount, a.savings_percentage, a.created_at
		FROM drop_alerts a
		JOIN products p ON p.id = a.product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get drop alerts: %v", err)
	}
	defer rows.Close()

	var alerts []models.DropEvent
	for rows.Next() {
		var ev models.DropEvent
		if err := rows.Scan(&ev.ProductKey, &ev.OldPrice, &ev.NewPrice, &ev.SavingsAmount, &ev.SavingsPercentage, &ev.DetectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan drop alert: %v", err)
		}
		if !ev.DetectedAt.Before(since) {
			alerts = append(alerts, ev)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].SavingsPercentage > alerts[j].SavingsPercentage
	})
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts, nil
}

// Close closes the underlying connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
