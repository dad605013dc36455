package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charsetUTF8 = "UTF-8"

// SESConfig holds the configuration for the SES email sender.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// SenderAddress must be verified in SES.
	SenderAddress string
}

// SESAPI is the part of the SES client the sender uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender implements Sender using Amazon SES.
type SESSender struct {
	client        SESAPI
	senderAddress string
}

// NewSESSender creates a new SESSender.
// Static credentials are used when both keys are set, otherwise the default AWS chain.
func NewSESSender(ctx context.Context, cfg SESConfig) (*SESSender, error) {
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("ses: sender address is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("ses: region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: failed to load AWS config: %w", err)
	}

	return NewSESSenderWithClient(ses.NewFromConfig(awsCfg), cfg.SenderAddress), nil
}

// NewSESSenderWithClient creates a SESSender around an existing client.
func NewSESSenderWithClient(client SESAPI, senderAddress string) *SESSender {
	return &SESSender{client: client, senderAddress: senderAddress}
}

// Send sends an email via SES.
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	body := &types.Body{}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String(charsetUTF8)}
	}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String(charsetUTF8)}
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.senderAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charsetUTF8)},
			Body:    body,
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses: failed to send email: %w", err)
	}
	return nil
}
