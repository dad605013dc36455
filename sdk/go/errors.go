package contactform

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by APIError.Is.
var (
	// ErrMissingFields is returned when the endpoint rejects the submission with 400.
	ErrMissingFields = errors.New("contactform: missing required fields")

	// ErrMethodNotAllowed is returned when the endpoint answers 405.
	ErrMethodNotAllowed = errors.New("contactform: method not allowed")

	// ErrSendFailed is returned when the endpoint could not dispatch the email.
	ErrSendFailed = errors.New("contactform: failed to send email")
)

// APIError represents an error response from the submission endpoint.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contactform: API error %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrMissingFields:
		return e.StatusCode == http.StatusBadRequest
	case ErrMethodNotAllowed:
		return e.StatusCode == http.StatusMethodNotAllowed
	case ErrSendFailed:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

func parseAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}

// IsAPIError checks whether err is an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
