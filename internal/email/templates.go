package email

import (
	"fmt"
	"strings"

	"github.com/contactform/contactform/internal/model"
)

// AcknowledgementSubject returns the subject line of the submission acknowledgement.
func AcknowledgementSubject(sub model.Submission) string {
	return fmt.Sprintf("Thank you for your submission, %s", sub.Name)
}

// AcknowledgementHTML returns the HTML body of the submission acknowledgement.
// Field values are inserted as submitted.
func AcknowledgementHTML(sub model.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n    <h3>Thank you for contacting us, %s!</h3>\n", sub.Name)
	fmt.Fprintf(&b, "    <p><strong>Name:</strong> %s</p>\n", sub.Name)
	fmt.Fprintf(&b, "    <p><strong>Email:</strong> %s</p>\n", sub.Email)
	fmt.Fprintf(&b, "    <p><strong>Phone:</strong> %s</p>\n", sub.Phone)
	if hasSchedule(sub) {
		fmt.Fprintf(&b, "    <p><strong>Date:</strong> %s</p>\n", sub.Date)
		fmt.Fprintf(&b, "    <p><strong>Time:</strong> %s</p>\n", sub.Time)
	}
	fmt.Fprintf(&b, "    <p><strong>Message:</strong> %s</p>\n", sub.Message)
	b.WriteString("    <p>We will get back to you shortly.</p>\n  ")
	return b.String()
}

// AcknowledgementText returns the plain-text body of the submission acknowledgement.
func AcknowledgementText(sub model.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for contacting us, %s.\n\n", sub.Name)
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", sub.Name, sub.Email, sub.Phone)
	if hasSchedule(sub) {
		fmt.Fprintf(&b, "Date: %s\nTime: %s\n", sub.Date, sub.Time)
	}
	fmt.Fprintf(&b, "Message: %s\n\nWe will get back to you shortly.", sub.Message)
	return b.String()
}

// AcknowledgementMessage builds the complete acknowledgement addressed to the submitter.
func AcknowledgementMessage(sub model.Submission) Message {
	return Message{
		To:       sub.Email,
		Subject:  AcknowledgementSubject(sub),
		HTMLBody: AcknowledgementHTML(sub),
		TextBody: AcknowledgementText(sub),
	}
}

func hasSchedule(sub model.Submission) bool {
	return sub.Date != "" || sub.Time != ""
}
