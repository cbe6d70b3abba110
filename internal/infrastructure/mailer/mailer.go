// Package mailer provides the outbound mail adapters: account mails for
// the identity flows and the newsletter double-opt-in confirmation.
package mailer

import (
	"context"

	"go.uber.org/zap"

	appidentity "github.com/rmcsharry/hq-api/internal/application/identity"
	appnewsletter "github.com/rmcsharry/hq-api/internal/application/newsletter"
	"github.com/rmcsharry/hq-api/internal/infrastructure/config"
)

// LoggingMailer enqueues mails by logging the delivery intent. The actual
// delivery runs out-of-process; this adapter records what would be sent and
// the link the recipient receives. Useful for development and as the
// fallback when no delivery backend is configured.
type LoggingMailer struct {
	cfg    config.MailerConfig
	logger *zap.Logger
}

// NewLoggingMailer creates a mailer that logs instead of delivering
func NewLoggingMailer(cfg config.MailerConfig, logger *zap.Logger) *LoggingMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingMailer{cfg: cfg, logger: logger}
}

// EnqueueConfirmation enqueues the account confirmation mail
func (m *LoggingMailer) EnqueueConfirmation(ctx context.Context, email, token string) {
	m.logger.Info("enqueue confirmation mail",
		zap.String("to", email),
		zap.String("from", m.cfg.FromAddress),
		zap.String("link", m.cfg.BaseURL+"/users/confirm?token="+token),
	)
}

// EnqueueInvitation enqueues the user invitation mail
func (m *LoggingMailer) EnqueueInvitation(ctx context.Context, email, token string) {
	m.logger.Info("enqueue invitation mail",
		zap.String("to", email),
		zap.String("from", m.cfg.FromAddress),
		zap.String("link", m.cfg.BaseURL+"/users/accept-invitation?token="+token),
	)
}

// EnqueuePasswordReset enqueues the password reset mail
func (m *LoggingMailer) EnqueuePasswordReset(ctx context.Context, email, token string) {
	m.logger.Info("enqueue password reset mail",
		zap.String("to", email),
		zap.String("from", m.cfg.FromAddress),
		zap.String("link", m.cfg.BaseURL+"/users/reset-password?token="+token),
	)
}

// EnqueueSubscriptionConfirmation enqueues the newsletter double-opt-in mail
func (m *LoggingMailer) EnqueueSubscriptionConfirmation(ctx context.Context, email, token string) error {
	m.logger.Info("enqueue newsletter confirmation mail",
		zap.String("to", email),
		zap.String("from", m.cfg.FromAddress),
		zap.String("link", m.cfg.BaseURL+"/newsletter/confirm?token="+token),
	)
	return nil
}

// Ensure LoggingMailer implements the outbound mail ports
var (
	_ appidentity.Mailer               = (*LoggingMailer)(nil)
	_ appnewsletter.ConfirmationMailer = (*LoggingMailer)(nil)
)
