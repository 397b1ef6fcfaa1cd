package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/Sakshikhade/wee-price-tracker/alerts"
	"github.com/Sakshikhade/wee-price-tracker/config"
	"github.com/Sakshikhade/wee-price-tracker/handlers"
	"github.com/Sakshikhade/wee-price-tracker/matcher"
	"github.com/Sakshikhade/wee-price-tracker/middleware"
	"github.com/Sakshikhade/wee-price-tracker/pipeline"
	"github.com/Sakshikhade/wee-price-tracker/scheduler"
	"github.com/Sakshikhade/wee-price-tracker/scraper"
	"github.com/Sakshikhade/wee-price-tracker/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	catalog, err := config.LoadCatalog()
	if err != nil {
		log.Fatalf("❌ Failed to load catalog: %v", err)
	}
	log.Printf("📋 Tracking %d products (%s profile)", len(catalog.Products), cfg.MatchProfile)

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer store.Close()
	log.Printf("✅ Storage backend ready: %s", cfg.StorageBackend)

	fetcher := scraper.NewHTTPFetcher(cfg)

	var rendered scraper.Fetcher
	if cfg.RenderedFetch {
		browser, err := scraper.NewBrowserFetcher(cfg.BaseURL, cfg.RenderWait)
		if err != nil {
			log.Printf("⚠️ Headless browser unavailable, static fetch only: %v", err)
		} else {
			defer browser.Close()
			rendered = browser
		}
	}

	var mailer alerts.Mailer
	if cfg.EmailEnabled && cfg.SMTP.Configured() {
		mailer = alerts.NewSMTPMailer(cfg.SMTP, cfg.SubjectPrefix, cfg.BaseURL)
		log.Printf("📧 Email alerts enabled via %s", cfg.SMTP.Server)
	} else {
		log.Println("📧 Email alerts disabled, drops go to the console only")
	}

	history := alerts.NewHistory(cfg.AlertHistoryFile, cfg.MaxAlertsPerDay, cfg.AlertCooldown)
	notifier := alerts.NewNotifier(cfg.RecipientsFile, history, mailer)

	var exporter *storage.CSVExporter
	if cfg.CSVFile != "" {
		exporter = storage.NewCSVExporter(cfg.CSVFile)
	}

	p := pipeline.New(pipeline.Options{
		Fetcher:   fetcher,
		Rendered:  rendered,
		Extractor: scraper.NewExtractor(scraper.ExtractorOptions{}),
		Matcher:   matcher.New(cfg, catalog),
		Store:     store,
		Exporter:  exporter,
		Notifier:  notifier,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot mode when neither daemon surface is configured.
	if cfg.ScheduleSpec == "" && cfg.AdminAddr == "" {
		if _, err := p.Run(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	if cfg.ScheduleSpec != "" {
		sched := scheduler.New(p, cfg.ScheduleSpec)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("❌ Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
		log.Printf("⏰ Scheduler started with spec %q", cfg.ScheduleSpec)
	}

	if cfg.AdminAddr != "" {
		router := mux.NewRouter()
		router.Use(middleware.LoggingMiddleware)
		router.Use(middleware.RateLimitMiddleware(cfg.AdminRateLimit))

		h := handlers.NewHandlers(cfg, catalog, store, p)
		h.Register(router)

		c := cors.New(cors.Options{
			AllowedOrigins: strings.Split(cfg.AllowedOrigins, ","),
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		})

		server := &http.Server{Addr: cfg.AdminAddr, Handler: c.Handler(router)}
		go func() {
			log.Printf("🚀 Admin API listening on %s", cfg.AdminAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("❌ Admin server error: %v", err)
			}
		}()
		defer server.Shutdown(context.Background())
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")
}
