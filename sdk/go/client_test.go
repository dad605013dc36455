package contactform_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactform "github.com/contactform/contactform/sdk/go"
)

func TestClient_SendEmail(t *testing.T) {
	var got contactform.Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, contactform.SendEmailPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":"Email sent successfully!"}`))
	}))
	defer srv.Close()

	c := contactform.NewClient(contactform.Config{BaseURL: srv.URL + "/"})
	sub := contactform.Submission{Name: "Ann", Email: "a@x.com", Phone: "555", Message: "Hi"}

	resp, err := c.SendEmail(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully!", resp.Success)
	assert.Equal(t, sub, got)
}

func TestClient_SendEmailErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"missing fields", http.StatusBadRequest, `{"error":"Missing required fields"}`, contactform.ErrMissingFields, "Missing required fields"},
		{"method", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`, contactform.ErrMethodNotAllowed, "Method not allowed"},
		{"dispatch", http.StatusInternalServerError, `{"error":"Failed to send email."}`, contactform.ErrSendFailed, "Failed to send email."},
		{"not json", http.StatusBadGateway, `upstream unavailable`, contactform.ErrSendFailed, "upstream unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := contactform.NewClient(contactform.Config{BaseURL: srv.URL})

			_, err := c.SendEmail(context.Background(), contactform.Submission{Name: "Ann"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			apiErr, ok := contactform.IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClient_SendEmailUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := contactform.NewClient(contactform.Config{BaseURL: url})

	_, err := c.SendEmail(context.Background(), contactform.Submission{Name: "Ann"})

	require.Error(t, err)
	_, ok := contactform.IsAPIError(err)
	assert.False(t, ok)
}
