package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sakshikhade/wee-price-tracker/config"
	"github.com/Sakshikhade/wee-price-tracker/models"
	"github.com/Sakshikhade/wee-price-tracker/storage"
)

func floatPtr(v float64) *float64 { return &v }

func newTestRouter(t *testing.T) (*mux.Router, *config.Config, storage.HistoryStore) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		StorageBackend: "file",
		RecipientsFile: filepath.Join(dir, "recipients.json"),
	}
	catalog := &config.Catalog{Products: []string{"Maggi Masala instant noodles 9.8 oz"}}
	store := storage.NewFileStore(filepath.Join(dir, "history.json"))

	router := mux.NewRouter()
	NewHandlers(cfg, catalog, store, nil).Register(router)
	return router, cfg, store
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestGetCatalog(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/products", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count    int                     `json:"count"`
		Products []models.TrackedProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Maggi Masala instant noodles 9.8 oz", resp.Products[0].Name)
	assert.True(t, resp.Products[0].Enabled)
}

func TestGetTrend(t *testing.T) {
	router, _, store := newTestRouter(t)
	key := "Maggi Masala instant noodles 9.8 oz"
	require.NoError(t, store.Append(key, models.PriceRecord{
		ProductKey: key,
		Price:      floatPtr(4.99),
		PriceText:  "$4.99",
		ScrapedAt:  time.Now(),
	}))

	rec := doJSON(t, router, "GET", "/products/"+url.PathEscape(key)+"/trend?days=7", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Product string               `json:"product"`
		Days    int                  `json:"days"`
		Records []models.PriceRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, key, resp.Product)
	assert.Equal(t, 7, resp.Days)
	require.Len(t, resp.Records, 1)
	assert.InDelta(t, 4.99, *resp.Records[0].Price, 0.0001)
}

func TestRecipientLifecycle(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// Empty list to start.
	rec := doJSON(t, router, "GET", "/recipients", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Add one; defaults are filled in.
	rec = doJSON(t, router, "POST", "/recipients", map[string]string{
		"email": "shopper@example.com",
		"name":  "Shopper",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Recipient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Enabled)
	assert.InDelta(t, 1.0, created.Preferences.MinimumSavings, 0.0001)
	assert.InDelta(t, 5.0, created.Preferences.MinimumPercentage, 0.0001)
	assert.Equal(t, "immediate", created.Preferences.AlertFrequency)

	// Duplicates are rejected.
	rec = doJSON(t, router, "POST", "/recipients", map[string]string{
		"email": "shopper@example.com",
		"name":  "Shopper Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Disable via PATCH.
	enabled := false
	rec = doJSON(t, router, "PATCH", "/recipients/shopper@example.com", map[string]interface{}{
		"enabled": &enabled,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var patched models.Recipient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.False(t, patched.Enabled)

	// Delete, then confirm 404 on a second delete.
	rec = doJSON(t, router, "DELETE", "/recipients/shopper@example.com", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, router, "DELETE", "/recipients/shopper@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddRecipientValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/recipients", map[string]string{"email": "", "name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentAlertsRequiresAlertSink(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// The file backend keeps no alert history.
	rec := doJSON(t, router, "GET", "/alerts/recent", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
