package config

import (
	"os"
	"strconv"
	"time"
)

// Matching profiles trade recall for precision. The permissive profile is
// what the tracker runs with by default; strict is for catalogs where
// over-matching is worse than missing an item.
const (
	ProfilePermissive = "permissive"
	ProfileStrict     = "strict"
)

// SMTPConfig holds the outgoing mail settings. Email alerts are disabled
// when SenderEmail is empty.
type SMTPConfig struct {
	Server         string
	Port           int
	SenderEmail    string
	SenderPassword string
	SenderName     string
}

// Configured reports whether a mail transport is available.
func (c SMTPConfig) Configured() bool {
	return c.Server != "" && c.SenderEmail != ""
}

// Config is the immutable process configuration, resolved once at startup
// and passed down. Nothing re-reads the environment after Load.
type Config struct {
	// Page fetch
	BaseURL         string
	UserAgent       string
	FetchTimeout    time.Duration
	FetchRetries    int
	FetchRetryDelay time.Duration
	RenderedFetch   bool
	RenderWait      time.Duration

	// Matching
	MatchProfile        string
	SimilarityThreshold float64
	WordOverlapRatio    float64

	// Storage
	StorageBackend string // "file" or "postgres"
	HistoryFile    string
	CSVFile        string

	// Alerting
	EmailEnabled     bool
	SubjectPrefix    string
	RecipientsFile   string
	AlertHistoryFile string
	MaxAlertsPerDay  int
	AlertCooldown    time.Duration
	SMTP             SMTPConfig

	// Daemon surfaces, both optional
	ScheduleSpec   string
	AdminAddr      string
	AllowedOrigins string
	AdminRateLimit float64 // requests per second per client
}

// Load resolves the configuration from the environment with documented
// defaults. Call godotenv.Load before this so a .env file is honored.
func Load() *Config {
	profile := getEnv("MATCH_PROFILE", ProfilePermissive)
	similarity := 0.6
	if profile == ProfileStrict {
		similarity = 0.8
	}

	return &Config{
		BaseURL:         getEnv("BASE_URL", "https://www.sayweee.com/en/category/sale"),
		UserAgent:       getEnv("USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchRetries:    getEnvInt("FETCH_RETRIES", 3),
		FetchRetryDelay: getEnvDuration("FETCH_RETRY_DELAY", 2*time.Second),
		RenderedFetch:   getEnvBool("RENDERED_FETCH", false),
		RenderWait:      getEnvDuration("RENDER_WAIT", 3*time.Second),

		MatchProfile:        profile,
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", similarity),
		WordOverlapRatio:    getEnvFloat("WORD_OVERLAP_RATIO", 0.4),

		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		HistoryFile:    getEnv("HISTORY_FILE", "data/processed/price_history.json"),
		CSVFile:        getEnv("CSV_FILE", "data/processed/wee_prices.csv"),

		EmailEnabled:     getEnvBool("EMAIL_ENABLED", false),
		SubjectPrefix:    getEnv("EMAIL_SUBJECT_PREFIX", "🚨 Weee! Price Drop Alert: "),
		RecipientsFile:   getEnv("RECIPIENTS_FILE", "config/recipients.json"),
		AlertHistoryFile: getEnv("ALERT_HISTORY_FILE", "data/processed/alert_history.json"),
		MaxAlertsPerDay:  getEnvInt("MAX_ALERTS_PER_DAY", 5),
		AlertCooldown:    getEnvDuration("ALERT_COOLDOWN", 6*time.Hour),
		SMTP: SMTPConfig{
			Server:         getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:           getEnvInt("SMTP_PORT", 587),
			SenderEmail:    getEnv("SMTP_SENDER_EMAIL", ""),
			SenderPassword: getEnv("SMTP_SENDER_PASSWORD", ""),
			SenderName:     getEnv("SMTP_SENDER_NAME", "Weee! Price Tracker"),
		},

		ScheduleSpec:   getEnv("SCHEDULE_CRON", ""),
		AdminAddr:      getEnv("ADMIN_ADDR", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		AdminRateLimit: getEnvFloat("ADMIN_RATE_LIMIT", 5),
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
