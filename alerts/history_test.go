package alerts

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	return NewHistory(filepath.Join(t.TempDir(), "alert_history.json"), 5, 6*time.Hour)
}

func TestHistoryDailyCap(t *testing.T) {
	h := newTestHistory(t)

	for i, product := range []string{"A", "B", "C", "D", "E"} {
		assert.True(t, h.CanSend(product, "user@example.com"), "alert %d should pass", i+1)
		h.RecordSent(product, "user@example.com")
	}

	assert.False(t, h.CanSend("F", "user@example.com"), "sixth alert in a day is capped")
	assert.True(t, h.CanSend("F", "other@example.com"), "cap is per recipient")
}

func TestHistoryCooldown(t *testing.T) {
	h := newTestHistory(t)
	base := time.Now()
	h.Now = func() time.Time { return base }

	h.RecordSent("Maggi Masala instant noodles 9.8 oz", "user@example.com")

	assert.False(t, h.CanSend("Maggi Masala instant noodles 9.8 oz", "user@example.com"),
		"same product within the cooldown is blocked")
	assert.True(t, h.CanSend("Lee Kum Kee Soy Sauce", "user@example.com"),
		"a different product is not blocked by the cooldown")

	h.Now = func() time.Time { return base.Add(6*time.Hour + time.Minute) }
	assert.True(t, h.CanSend("Maggi Masala instant noodles 9.8 oz", "user@example.com"),
		"cooldown expires after six hours")
}

func TestHistoryPrunesOldEntries(t *testing.T) {
	h := newTestHistory(t)
	base := time.Now()

	// Five alerts yesterday fill the cap.
	h.Now = func() time.Time { return base.Add(-25 * time.Hour) }
	for _, product := range []string{"A", "B", "C", "D", "E"} {
		h.RecordSent(product, "user@example.com")
	}

	// A day later they no longer count.
	h.Now = func() time.Time { return base }
	assert.True(t, h.CanSend("F", "user@example.com"))
}

func TestHistorySurvivesMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "sub", "alert_history.json"), 5, 6*time.Hour)
	assert.True(t, h.CanSend("A", "user@example.com"))
	h.RecordSent("A", "user@example.com")
	assert.False(t, h.CanSend("A", "user@example.com"))
}
