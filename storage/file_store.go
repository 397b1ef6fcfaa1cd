package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Sakshikhade/wee-price-tracker/models"
)

// FileStore keeps the last-seen price per product in a single JSON file
// keyed by product name. The whole file is read and rewritten on every
// append, so only the latest record per product survives. Trend queries
// degrade to at most one record.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileRecord struct {
	Price     *float64  `json:"price"`
	PriceText string    `json:"price_str"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFileStore creates a store backed by the JSON file at path. The file is
// created lazily on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// GetLatest returns the stored record for the product, or nil when absent.
func (s *FileStore) GetLatest(productKey string) (*models.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.load()
	rec, ok := history[productKey]
	if !ok {
		return nil, nil
	}
	return &models.PriceRecord{
		ProductKey: productKey,
		Price:      rec.Price,
		PriceText:  rec.PriceText,
		ScrapedAt:  rec.Timestamp,
	}, nil
}

// Append overwrites the product's entry with the new record and rewrites
// the whole file.
func (s *FileStore) Append(productKey string, record models.PriceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.load()
	history[productKey] = fileRecord{
		Price:     record.Price,
		PriceText: record.PriceText,
		Timestamp: record.ScrapedAt,
	}
	return s.save(history)
}

// GetTrend returns the latest record when it falls inside the window. The
// file backend retains no older records. A limit of zero or less means
// unbounded, matching the postgres backend.
func (s *FileStore) GetTrend(productKey string, since time.Time, limit int) ([]models.PriceRecord, error) {
	latest, err := s.GetLatest(productKey)
	if err != nil || latest == nil {
		return nil, err
	}
	if latest.ScrapedAt.Before(since) {
		return nil, nil
	}
	return []models.PriceRecord{*latest}, nil
}

// Close is a no-op; every operation opens and closes the file itself.
func (s *FileStore) Close() error {
	return nil
}

// load reads the full history map. A missing or corrupted file yields an
// empty map rather than an error.
func (s *FileStore) load() map[string]fileRecord {
	history := make(map[string]fileRecord)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return history
	}
	if err := json.Unmarshal(data, &history); err != nil {
		return make(map[string]fileRecord)
	}
	return history
}

func (s *FileStore) save(history map[string]fileRecord) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history dir: %v", err)
		}
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode price history: %v", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write price history: %v", err)
	}
	return nil
}
