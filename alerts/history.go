package alerts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Sakshikhade/wee-price-tracker/models"
)

// History is the notifier's private record of dispatched alerts, used to
// enforce the per-recipient daily cap and the per-(product, recipient)
// cooldown. Entries older than 24 hours are pruned lazily on every check.
type History struct {
	path      string
	maxPerDay int
	cooldown  time.Duration
	retention time.Duration
	mu        sync.Mutex

	// Now is swappable in tests.
	Now func() time.Time
}

// NewHistory creates an alert history backed by the JSON file at path.
func NewHistory(path string, maxPerDay int, cooldown time.Duration) *History {
	return &History{
		path:      path,
		maxPerDay: maxPerDay,
		cooldown:  cooldown,
		retention: 24 * time.Hour,
		Now:       time.Now,
	}
}

// CanSend reports whether an alert for the product may go to the recipient
// right now. It rejects when the recipient already received maxPerDay
// alerts in the retention window, or when the same (product, recipient)
// pair was alerted within the cooldown.
func (h *History) CanSend(productKey, recipientEmail string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.Now()
	records := h.prune(h.load(), now)

	sentToday := 0
	for _, rec := range records {
		if rec.RecipientEmail == recipientEmail {
			sentToday++
		}
	}
	if sentToday >= h.maxPerDay {
		return false
	}

	key := models.AlertRecord{ProductKey: productKey, RecipientEmail: recipientEmail}.Key()
	if rec, ok := records[key]; ok {
		if now.Sub(rec.SentAt) < h.cooldown {
			return false
		}
	}
	return true
}

// RecordSent notes that an alert for the product was dispatched to the
// recipient. Write failures are swallowed; losing a record only risks one
// extra alert.
func (h *History) RecordSent(productKey, recipientEmail string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.Now()
	records := h.prune(h.load(), now)
	rec := models.AlertRecord{ProductKey: productKey, RecipientEmail: recipientEmail, SentAt: now}
	records[rec.Key()] = rec
	h.save(records)
}

func (h *History) prune(records map[string]models.AlertRecord, now time.Time) map[string]models.AlertRecord {
	for key, rec := range records {
		if now.Sub(rec.SentAt) >= h.retention {
			delete(records, key)
		}
	}
	return records
}

func (h *History) load() map[string]models.AlertRecord {
	records := make(map[string]models.AlertRecord)
	data, err := os.ReadFile(h.path)
	if err != nil {
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return make(map[string]models.AlertRecord)
	}
	return records
}

func (h *History) save(records map[string]models.AlertRecord) {
	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(h.path, data, 0644)
}
