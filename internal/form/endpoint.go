package form

import (
	"context"

	"github.com/contactform/contactform/internal/model"
	contactform "github.com/contactform/contactform/sdk/go"
)

// ClientEndpoint calls the submission endpoint over HTTP.
//
// A non-2xx answer (400, 405, 500) counts as a failed submit, so the form shows
// MessageFailure. A browser fetch only rejects on network errors and would report
// success for those answers; here the user learns the acknowledgement was not sent.
type ClientEndpoint struct {
	client *contactform.Client
}

// NewClientEndpoint creates a ClientEndpoint.
func NewClientEndpoint(client *contactform.Client) *ClientEndpoint {
	return &ClientEndpoint{client: client}
}

// SendEmail posts the submission; any non-2xx answer is an error.
func (e *ClientEndpoint) SendEmail(ctx context.Context, sub model.Submission) error {
	_, err := e.client.SendEmail(ctx, contactform.Submission(sub))
	return err
}
