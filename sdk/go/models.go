package contactform

// Submission is the request body of the submission endpoint.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

// SendEmailResponse is the success body of the submission endpoint.
type SendEmailResponse struct {
	Success string `json:"success"`
}
