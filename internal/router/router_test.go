package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactform/contactform/internal/config"
	"github.com/contactform/contactform/internal/email"
	"github.com/contactform/contactform/internal/form"
	"github.com/contactform/contactform/internal/handler"
	"github.com/contactform/contactform/internal/logger"
	"github.com/contactform/contactform/internal/middleware"
	"github.com/contactform/contactform/internal/model"
	"github.com/contactform/contactform/internal/service"
	contactform "github.com/contactform/contactform/sdk/go"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message(nil), s.sent...)
}

type memoryContacts struct {
	mu   sync.Mutex
	docs []model.Submission
}

func (m *memoryContacts) Insert(ctx context.Context, sub *model.Submission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, *sub)
	return "doc", nil
}

func (m *memoryContacts) inserted() []model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Submission(nil), m.docs...)
}

type testServer struct {
	*httptest.Server
	sender   *recordingSender
	contacts *memoryContacts
}

// newTestServer wires the whole stack with the form calling the endpoint over HTTP on the same server
func newTestServer(t *testing.T, sendErr error) *testServer {
	t.Helper()

	var root http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		root.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"https://example.com"}}}
	log := logger.Nop()
	sender := &recordingSender{err: sendErr}
	contacts := &memoryContacts{}

	client := contactform.NewClient(contactform.Config{BaseURL: srv.URL})
	f := form.New(contacts, form.NewClientEndpoint(client), log)
	svc := service.NewSubmissionService(sender, cfg.Submission, log)
	h := handler.New(log, cfg, svc, f, form.NewMemorySessionStore(), nil)

	root = New(h, middleware.New(log), cfg)
	return &testServer{Server: srv, sender: sender, contacts: contacts}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func TestRouter_SendEmailRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/sendEmail")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, err = http.Post(ts.URL+"/api/sendEmail", "application/json",
		strings.NewReader(`{"name":"Ann","email":"a@x.com","phone":"555","message":"Hi"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, ts.sender.messages(), 1)
}

func TestRouter_CORS(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/sendEmail", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_FormSubmitEndToEnd(t *testing.T) {
	ts := newTestServer(t, nil)
	browser := newBrowser(t)

	resp, err := browser.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = browser.PostForm(ts.URL+"/", url.Values{
		"name":    {"Ann"},
		"email":   {"a@x.com"},
		"phone":   {"555"},
		"message": {"Hi"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	// redirect is followed back to the page
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	docs := ts.contacts.inserted()
	require.Len(t, docs, 1)
	assert.Equal(t, "Ann", docs[0].Name)
	assert.NotEmpty(t, docs[0].Time)
	sent := ts.sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@x.com", sent[0].To)
}

func TestRouter_FormSubmitEndpointFailure(t *testing.T) {
	ts := newTestServer(t, errors.New("MessageRejected"))
	browser := newBrowser(t)

	resp, err := browser.PostForm(ts.URL+"/", url.Values{
		"name":    {"Ann"},
		"email":   {"a@x.com"},
		"message": {"Hi"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	// the document stays written when the email fails
	assert.Len(t, ts.contacts.inserted(), 1)
	assert.Len(t, ts.sender.messages(), 1)

	page, err := browser.Get(ts.URL + "/")
	require.NoError(t, err)
	defer page.Body.Close()
	body, err := io.ReadAll(page.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Failed to submit form.")
}
