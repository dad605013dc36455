package handler

import (
	"context"

	"github.com/contactform/contactform/internal/config"
	"github.com/contactform/contactform/internal/form"
	"github.com/contactform/contactform/internal/logger"
	"github.com/contactform/contactform/internal/service"
)

// HealthChecker is implemented by every backing connection
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds all HTTP handlers
type Handler struct {
	log           *logger.Logger
	cfg           *config.Config
	submissionSvc *service.SubmissionService
	form          *form.Form
	sessions      form.SessionStore
	checks        map[string]HealthChecker
}

// New creates a new Handler instance
func New(log *logger.Logger, cfg *config.Config, submissionSvc *service.SubmissionService, f *form.Form, sessions form.SessionStore, checks map[string]HealthChecker) *Handler {
	return &Handler{
		log:           log,
		cfg:           cfg,
		submissionSvc: submissionSvc,
		form:          f,
		sessions:      sessions,
		checks:        checks,
	}
}
