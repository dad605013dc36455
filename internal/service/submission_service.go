package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/contactform/contactform/internal/config"
	"github.com/contactform/contactform/internal/email"
	"github.com/contactform/contactform/internal/logger"
	"github.com/contactform/contactform/internal/model"
)

// Submission errors
var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrDispatchFailed = errors.New("failed to send email")
)

// SubmissionService sends the acknowledgement email for a contact submission.
type SubmissionService struct {
	sender   email.Sender
	validate *validator.Validate
	cfg      config.SubmissionConfig
	log      *logger.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(sender email.Sender, cfg config.SubmissionConfig, log *logger.Logger) *SubmissionService {
	return &SubmissionService{
		sender:   sender,
		validate: validator.New(),
		cfg:      cfg,
		log:      log.WithComponent("submission"),
	}
}

// Validate checks that every required field is present. Formats are not checked.
func (s *SubmissionService) Validate(sub model.Submission) error {
	if err := s.validate.Struct(sub); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	if s.cfg.RequireDate {
		if err := s.validate.Var(sub.Date, "required"); err != nil {
			return fmt.Errorf("%w: date", ErrMissingFields)
		}
	}
	return nil
}

// Acknowledge validates the submission and sends one acknowledgement email to the submitter.
// The send is not retried.
func (s *SubmissionService) Acknowledge(ctx context.Context, sub model.Submission) error {
	if err := s.Validate(sub); err != nil {
		return err
	}

	msg := email.AcknowledgementMessage(sub)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("to", sub.Email).Msg("email dispatch failed")
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	s.log.Info().Str("to", sub.Email).Msg("acknowledgement sent")
	return nil
}
