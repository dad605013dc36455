package handler

import (
	"errors"
	"net/http"

	"github.com/contactform/contactform/internal/model"
	"github.com/contactform/contactform/internal/service"
)

// Response messages of the submission endpoint
const (
	msgEmailSent        = "Email sent successfully!"
	msgMissingFields    = "Missing required fields"
	msgMethodNotAllowed = "Method not allowed"
	msgSendFailed       = "Failed to send email."
)

// SendEmail handles /api/sendEmail.
// Only POST is accepted; the body is a JSON submission.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	var sub model.Submission
	if err := readJSON(r, &sub); err != nil {
		// an unreadable body has no fields
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	if err := h.submissionSvc.Acknowledge(r.Context(), sub); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, msgMissingFields)
		default:
			// the service has logged the provider error
			writeError(w, http.StatusInternalServerError, msgSendFailed)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"success": msgEmailSent})
}
