package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactform/contactform/internal/config"
	"github.com/contactform/contactform/internal/database"
	"github.com/contactform/contactform/internal/email"
	"github.com/contactform/contactform/internal/form"
	"github.com/contactform/contactform/internal/handler"
	"github.com/contactform/contactform/internal/logger"
	"github.com/contactform/contactform/internal/middleware"
	"github.com/contactform/contactform/internal/repository"
	"github.com/contactform/contactform/internal/router"
	"github.com/contactform/contactform/internal/service"
	contactform "github.com/contactform/contactform/sdk/go"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", "0.1.0").Msg("starting contactform server")

	checks := make(map[string]handler.HealthChecker)

	// Connect to the document store
	var contacts repository.ContactRepository
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		log.Info().Msg("connected to PostgreSQL")

		contacts = repository.NewPostgresContactRepository(db, cfg.Store.Collection)
		checks["postgres"] = db
	default:
		mdb, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer mdb.Close()
		log.Info().Str("database", mdb.DB.Name()).Msg("connected to MongoDB")

		contacts = repository.NewMongoContactRepository(mdb.Collection(cfg.Store.Collection))
		checks["mongo"] = mdb
	}

	// Form session store
	var sessions form.SessionStore = form.NewMemorySessionStore()
	if cfg.UsesRedis() {
		rdb, err := database.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("connected to Redis")

		sessions = form.NewRedisSessionStore(rdb, cfg.Form.SessionTTL)
		checks["redis"] = rdb
	}

	// Initialize email sender
	sender, err := email.New(context.Background(), cfg.Email, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize email sender")
	}
	log.Info().Str("provider", cfg.Email.Provider).Msg("email sender initialized")

	// Initialize services
	submissionSvc := service.NewSubmissionService(sender, cfg.Submission, log)

	// The form reaches the submission endpoint over HTTP, by default on this server
	endpointURL := cfg.EndpointBaseURL()
	client := contactform.NewClient(contactform.Config{
		BaseURL:    endpointURL,
		HTTPClient: &http.Client{Timeout: cfg.Form.EndpointTimeout},
	})
	contactForm := form.New(
		contacts,
		form.NewClientEndpoint(client),
		log,
		form.WithTimeLayout(cfg.Form.TimeLayout),
	)

	// Initialize handlers
	h := handler.New(log, cfg, submissionSvc, contactForm, sessions, checks)

	// Initialize middleware
	mw := middleware.New(log)

	// Set up router
	r := router.New(h, mw, cfg)

	// Create HTTP server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Str("endpoint", endpointURL).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
