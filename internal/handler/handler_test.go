package handler

import (
	"context"
	"sync"

	"github.com/contactform/contactform/internal/config"
	"github.com/contactform/contactform/internal/email"
	"github.com/contactform/contactform/internal/form"
	"github.com/contactform/contactform/internal/logger"
	"github.com/contactform/contactform/internal/model"
	"github.com/contactform/contactform/internal/service"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *fakeSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *fakeSender) messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message(nil), s.sent...)
}

type fakeStore struct {
	mu   sync.Mutex
	docs []model.Submission
	err  error
}

func (s *fakeStore) Insert(ctx context.Context, sub *model.Submission) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.docs = append(s.docs, *sub)
	return "doc-1", nil
}

func (s *fakeStore) inserted() []model.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Submission(nil), s.docs...)
}

type fakeEndpoint struct {
	mu    sync.Mutex
	calls []model.Submission
	err   error
}

func (e *fakeEndpoint) SendEmail(ctx context.Context, sub model.Submission) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, sub)
	return e.err
}

func (e *fakeEndpoint) called() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

type testDeps struct {
	sender   *fakeSender
	store    *fakeStore
	endpoint *fakeEndpoint
	sessions form.SessionStore
	cfg      *config.Config
}

func newTestHandler(log *logger.Logger, deps *testDeps, checks map[string]HealthChecker) *Handler {
	if deps.sender == nil {
		deps.sender = &fakeSender{}
	}
	if deps.store == nil {
		deps.store = &fakeStore{}
	}
	if deps.endpoint == nil {
		deps.endpoint = &fakeEndpoint{}
	}
	if deps.sessions == nil {
		deps.sessions = form.NewMemorySessionStore()
	}
	if deps.cfg == nil {
		deps.cfg = &config.Config{}
	}

	svc := service.NewSubmissionService(deps.sender, deps.cfg.Submission, log)
	f := form.New(deps.store, deps.endpoint, log)
	return New(log, deps.cfg, svc, f, deps.sessions, checks)
}
