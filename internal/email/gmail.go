package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const mimeBoundary = "boundary_contactform_email"

// GmailConfig holds the configuration for the Gmail email sender.
// Either CredentialsJSON (service account with domain-wide delegation) or
// ClientID, ClientSecret and RefreshToken must be set.
type GmailConfig struct {
	CredentialsJSON string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	SenderAddress   string
	SenderName      string
}

// GmailSender implements Sender using the Gmail API.
type GmailSender struct {
	service *gmail.Service
	from    string
}

// NewGmailSender creates a new GmailSender.
func NewGmailSender(ctx context.Context, cfg GmailConfig) (*GmailSender, error) {
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	var (
		svc *gmail.Service
		err error
	)
	switch {
	case cfg.CredentialsJSON != "":
		jwtConfig, jerr := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), gmail.GmailSendScope)
		if jerr != nil {
			return nil, fmt.Errorf("gmail: failed to parse credentials: %w", jerr)
		}
		// Impersonate the sender mailbox
		jwtConfig.Subject = cfg.SenderAddress
		svc, err = gmail.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	case cfg.RefreshToken != "":
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		}
		client := oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		svc, err = gmail.NewService(ctx, option.WithHTTPClient(client))
	default:
		return nil, fmt.Errorf("gmail: credentials JSON or refresh token is required")
	}
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service: svc,
		from:    formatFrom(cfg.SenderName, cfg.SenderAddress),
	}, nil
}

// Send sends an email via the Gmail API.
func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	raw := buildMIME(g.from, msg)
	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail: failed to send email: %w", err)
	}
	return nil
}

func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// buildMIME renders msg as an RFC 5322 message; multipart/alternative when both bodies are set.
func buildMIME(from string, msg Message) string {
	headers := []string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
	}

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		lines := append(headers,
			"Content-Type: multipart/alternative; boundary="+mimeBoundary,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/plain; charset=UTF-8",
			"Content-Transfer-Encoding: 7bit",
			"",
			msg.TextBody,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/html; charset=UTF-8",
			"Content-Transfer-Encoding: 7bit",
			"",
			msg.HTMLBody,
			"",
			"--"+mimeBoundary+"--",
		)
		return strings.Join(lines, "\r\n")
	case msg.HTMLBody != "":
		return strings.Join(append(headers, "Content-Type: text/html; charset=UTF-8", "", msg.HTMLBody), "\r\n")
	default:
		return strings.Join(append(headers, "Content-Type: text/plain; charset=UTF-8", "", msg.TextBody), "\r\n")
	}
}
