// Package handlers exposes the optional admin/ops HTTP surface: health,
// run-now, catalog and trend reads, recipient management, and recent drop
// alerts. The pipeline never depends on this package.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/Sakshikhade/wee-price-tracker/alerts"
	"github.com/Sakshikhade/wee-price-tracker/config"
	"github.com/Sakshikhade/wee-price-tracker/models"
	"github.com/Sakshikhade/wee-price-tracker/pipeline"
	"github.com/Sakshikhade/wee-price-tracker/storage"
)

type Handlers struct {
	cfg      *config.Config
	catalog  *config.Catalog
	store    storage.HistoryStore
	pipeline *pipeline.Pipeline

	// recipientsMu serializes read-modify-write cycles on the recipients
	// file from concurrent admin requests.
	recipientsMu sync.Mutex
}

func NewHandlers(cfg *config.Config, catalog *config.Catalog, store storage.HistoryStore, p *pipeline.Pipeline) *Handlers {
	return &Handlers{cfg: cfg, catalog: catalog, store: store, pipeline: p}
}

// Register wires the admin routes onto the router.
func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/run", h.RunNow).Methods("POST")
	r.HandleFunc("/products", h.GetCatalog).Methods("GET")
	r.HandleFunc("/products/{name}/trend", h.GetTrend).Methods("GET")
	r.HandleFunc("/recipients", h.GetRecipients).Methods("GET")
	r.HandleFunc("/recipients", h.AddRecipient).Methods("POST")
	r.HandleFunc("/recipients/{email}", h.UpdateRecipient).Methods("PATCH")
	r.HandleFunc("/recipients/{email}", h.DeleteRecipient).Methods("DELETE")
	r.HandleFunc("/alerts/recent", h.RecentAlerts).Methods("GET")
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "wee-price-tracker",
		"status":    "healthy",
		"timestamp": time.Now(),
		"backend":   h.cfg.StorageBackend,
	})
}

// RunNow triggers one synchronous pipeline pass.
func (h *Handlers) RunNow(w http.ResponseWriter, r *http.Request) {
	summary, err := h.pipeline.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "run failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetCatalog returns the tracked-product list. On the postgres backend
// the stored catalog rows are returned; the file backend falls back to
// the configured list.
func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	var products []models.TrackedProduct
	if reader, ok := h.store.(storage.CatalogReader); ok {
		stored, err := reader.Products()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get products")
			return
		}
		products = stored
	}
	if len(products) == 0 {
		for i, name := range h.catalog.Products {
			products = append(products, models.TrackedProduct{
				ID:       i + 1,
				Name:     name,
				Enabled:  true,
				Priority: 1,
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(products),
		"products": products,
	})
}

// GetTrend returns the price history for one tracked product, newest first.
// Query parameters: days (default 30) and limit (default 30).
func (h *Handlers) GetTrend(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	days := queryInt(r, "days", 30)
	limit := queryInt(r, "limit", 30)

	since := time.Now().AddDate(0, 0, -days)
	trend, err := h.store.GetTrend(name, since, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get trend")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product": name,
		"days":    days,
		"records": trend,
	})
}

// GetRecipients lists the alert subscribers.
func (h *Handlers) GetRecipients(w http.ResponseWriter, r *http.Request) {
	h.recipientsMu.Lock()
	defer h.recipientsMu.Unlock()

	recipients, err := alerts.LoadRecipients(h.cfg.RecipientsFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load recipients")
		return
	}
	writeJSON(w, http.StatusOK, recipients)
}

// AddRecipient appends a new subscriber. Defaults: enabled, $1 minimum
// savings, 5% minimum percentage, immediate frequency.
func (h *Handlers) AddRecipient(w http.ResponseWriter, r *http.Request) {
	var recipient models.Recipient
	if err := json.NewDecoder(r.Body).Decode(&recipient); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if recipient.Email == "" || recipient.Name == "" {
		writeError(w, http.StatusBadRequest, "email and name are required")
		return
	}
	if recipient.Preferences.MinimumSavings == 0 {
		recipient.Preferences.MinimumSavings = 1.0
	}
	if recipient.Preferences.MinimumPercentage == 0 {
		recipient.Preferences.MinimumPercentage = 5.0
	}
	if recipient.Preferences.AlertFrequency == "" {
		recipient.Preferences.AlertFrequency = "immediate"
	}
	recipient.Enabled = true

	h.recipientsMu.Lock()
	defer h.recipientsMu.Unlock()

	recipients, err := alerts.LoadRecipients(h.cfg.RecipientsFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load recipients")
		return
	}
	for _, existing := range recipients {
		if existing.Email == recipient.Email {
			writeError(w, http.StatusConflict, "recipient already exists")
			return
		}
	}
	recipients = append(recipients, recipient)
	if err := alerts.SaveRecipients(h.cfg.RecipientsFile, recipients); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save recipients")
		return
	}
	writeJSON(w, http.StatusCreated, recipient)
}

// UpdateRecipient patches an existing subscriber's enabled flag and
// preference thresholds.
func (h *Handlers) UpdateRecipient(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	var patch struct {
		Enabled     *bool                    `json:"enabled"`
		Preferences *models.AlertPreferences `json:"alert_preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.recipientsMu.Lock()
	defer h.recipientsMu.Unlock()

	recipients, err := alerts.LoadRecipients(h.cfg.RecipientsFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load recipients")
		return
	}
	for i := range recipients {
		if recipients[i].Email != email {
			continue
		}
		if patch.Enabled != nil {
			recipients[i].Enabled = *patch.Enabled
		}
		if patch.Preferences != nil {
			recipients[i].Preferences = *patch.Preferences
		}
		if err := alerts.SaveRecipients(h.cfg.RecipientsFile, recipients); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save recipients")
			return
		}
		writeJSON(w, http.StatusOK, recipients[i])
		return
	}
	writeError(w, http.StatusNotFound, "recipient not found")
}

// DeleteRecipient removes a subscriber entirely.
func (h *Handlers) DeleteRecipient(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	h.recipientsMu.Lock()
	defer h.recipientsMu.Unlock()

	recipients, err := alerts.LoadRecipients(h.cfg.RecipientsFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load recipients")
		return
	}
	for i := range recipients {
		if recipients[i].Email == email {
			recipients = append(recipients[:i], recipients[i+1:]...)
			if err := alerts.SaveRecipients(h.cfg.RecipientsFile, recipients); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to save recipients")
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "recipient not found")
}

// RecentAlerts returns the biggest recent drops. Only available when the
// active backend persists alerts.
func (h *Handlers) RecentAlerts(w http.ResponseWriter, r *http.Request) {
	sink, ok := h.store.(storage.AlertSink)
	if !ok {
		writeError(w, http.StatusNotImplemented, "alert history requires the postgres backend")
		return
	}

	days := queryInt(r, "days", 7)
	limit := queryInt(r, "limit", 10)
	events, err := sink.RecentDropAlerts(time.Now().AddDate(0, 0, -days), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get recent alerts")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
