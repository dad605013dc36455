// Package form holds the contact form state and the submit sequence:
// write the submission to the document store, then call the submission endpoint.
package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contactform/contactform/internal/logger"
	"github.com/contactform/contactform/internal/model"
)

// Messages shown to the user after a submit
const (
	MessageSuccess = "Form submitted successfully!"
	MessageFailure = "Failed to submit form."
)

// ErrUnknownField is returned by State.Change for fields the user cannot edit.
var ErrUnknownField = errors.New("unknown form field")

// Store is the document store the form appends submissions to.
type Store interface {
	Insert(ctx context.Context, sub *model.Submission) (string, error)
}

// Endpoint is the submission endpoint the form calls after storing.
type Endpoint interface {
	SendEmail(ctx context.Context, sub model.Submission) error
}

// State is one browser's form: the field values, the loading flag and the last status message.
type State struct {
	Record  model.Submission `json:"record"`
	Loading bool             `json:"loading"`
	Message string           `json:"message,omitempty"`
}

// Change replaces exactly one field. Phone input keeps digits only.
// It returns the value as stored.
func (s *State) Change(field, value string) (string, error) {
	switch field {
	case model.FieldName:
		s.Record.Name = value
	case model.FieldEmail:
		s.Record.Email = value
	case model.FieldPhone:
		value = model.DigitsOnly(value)
		s.Record.Phone = value
	case model.FieldMessage:
		s.Record.Message = value
	case model.FieldDate:
		s.Record.Date = value
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return value, nil
}

// Succeeded reports whether the last submit ended with the success message.
func (s *State) Succeeded() bool {
	return s.Message == MessageSuccess
}

// Result reports how far a submit got. Stored without Sent means the
// document was written but the endpoint call failed; nothing is rolled back.
type Result struct {
	DocumentID string
	Stored     bool
	Sent       bool
	Err        error
}

// Form runs submits against a store and an endpoint.
type Form struct {
	store      Store
	endpoint   Endpoint
	timeLayout string
	now        func() time.Time
	log        *logger.Logger
}

// Option configures a Form.
type Option func(*Form)

// WithClock replaces time.Now for the submission time stamp.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithTimeLayout sets the layout of the submission time stamp.
func WithTimeLayout(layout string) Option {
	return func(f *Form) {
		if layout != "" {
			f.timeLayout = layout
		}
	}
}

// New creates a new Form.
func New(store Store, endpoint Endpoint, log *logger.Logger, opts ...Option) *Form {
	f := &Form{
		store:      store,
		endpoint:   endpoint,
		timeLayout: "15:04",
		now:        time.Now,
		log:        log.WithComponent("form"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit stores a snapshot of st.Record and then calls the endpoint with it, strictly in
// that order. A store failure skips the endpoint call. Either failure sets MessageFailure
// and leaves the record as it was; success sets MessageSuccess and clears the record.
func (f *Form) Submit(ctx context.Context, st *State) Result {
	st.Loading = true
	defer func() { st.Loading = false }()

	snapshot := st.Record
	snapshot.Time = f.now().Format(f.timeLayout)

	var res Result
	id, err := f.store.Insert(ctx, &snapshot)
	if err != nil {
		return f.fail(st, res, fmt.Errorf("store submission: %w", err))
	}
	res.DocumentID = id
	res.Stored = true

	if err := f.endpoint.SendEmail(ctx, snapshot); err != nil {
		return f.fail(st, res, fmt.Errorf("call submission endpoint: %w", err))
	}
	res.Sent = true

	st.Message = MessageSuccess
	st.Record = model.Submission{}
	f.log.Info().Str("document_id", id).Msg("form submitted")
	return res
}

func (f *Form) fail(st *State, res Result, err error) Result {
	f.log.Error().Err(err).Bool("stored", res.Stored).Str("document_id", res.DocumentID).Msg("form submission failed")
	st.Message = MessageFailure
	res.Err = err
	return res
}
