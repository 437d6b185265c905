package notifications

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"go.uber.org/zap"

	"github.com/katto-1204/upd-CROSSCERT/internal/config"
)

// Attachment represents an email attachment
type Attachment struct {
	Name        string `json:"name"`
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}

// Message represents an outbound email
type Message struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer delivers a single email message
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// logMailer logs messages instead of delivering them, used in development
// and tests.
type logMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer(logger *zap.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("Email suppressed (log mailer)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)))
	return nil
}

// NewMailerFromConfig builds the configured mailer. Provider "ses" delivers
// through Amazon SES; anything else, or a failed AWS config load, falls back
// to the log mailer.
func NewMailerFromConfig(ctx context.Context, cfg config.EmailConfig, logger *zap.Logger) Mailer {
	if cfg.Provider != "ses" {
		return NewLogMailer(logger)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Warn("Failed to load AWS config, falling back to log mailer", zap.Error(err))
		return NewLogMailer(logger)
	}

	return NewSESMailer(sesv2.NewFromConfig(awsCfg), cfg.FromAddress, cfg.FromName)
}
