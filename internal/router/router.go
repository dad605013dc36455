package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/contactform/contactform/internal/config"
	"github.com/contactform/contactform/internal/handler"
	"github.com/contactform/contactform/internal/middleware"
	contactform "github.com/contactform/contactform/sdk/go"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Panic recovery (outermost)
	r.Use(mw.Recover)
	r.Use(mw.RequestID)
	r.Use(mw.Timing)
	r.Use(mw.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	// Submission endpoint answers every method itself so non-POST gets a JSON 405
	r.HandleFunc(contactform.SendEmailPath, h.SendEmail)

	// Contact form page
	r.Get("/", h.FormPage)
	r.Post("/", h.FormSubmit)
	r.Post("/form/change", h.FormChange)

	return r
}
