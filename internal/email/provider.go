package email

import (
	"context"
	"fmt"

	"github.com/contactform/contactform/internal/config"
	"github.com/contactform/contactform/internal/logger"
)

// New builds the Sender selected by cfg.Provider.
func New(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.EmailProviderSES:
		return NewSESSender(ctx, SESConfig{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
			SenderAddress:   cfg.SenderAddress,
		})
	case config.EmailProviderGmail:
		return NewGmailSender(ctx, GmailConfig{
			CredentialsJSON: cfg.Gmail.CredentialsJSON,
			ClientID:        cfg.Gmail.ClientID,
			ClientSecret:    cfg.Gmail.ClientSecret,
			RefreshToken:    cfg.Gmail.RefreshToken,
			SenderAddress:   cfg.SenderAddress,
			SenderName:      cfg.SenderName,
		})
	case config.EmailProviderSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:          cfg.SMTP.Host,
			Port:          cfg.SMTP.Port,
			User:          cfg.SMTP.User,
			Password:      cfg.SMTP.Password,
			SenderAddress: cfg.SenderAddress,
			SenderName:    cfg.SenderName,
		})
	case config.EmailProviderLog:
		return NewLogSender(log, cfg.SenderAddress), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
