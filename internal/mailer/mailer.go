package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/englishai-chat/auth-service/internal/config"
)

// Dispatch outcome for a single email
const (
	StatusSent    = "sent"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Result describes the outcome of an email dispatch attempt
type Result struct {
	Status string
	Error  string
}

// Mailer dispatches emails best-effort. Implementations never panic and never
// propagate transport errors as Go errors; the Result carries the outcome so
// callers decide whether it matters.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) Result
}

// smtpMailer sends email over SMTP using go-mail
type smtpMailer struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

// disabledMailer is used when SMTP credentials are not configured; every send
// reports skipped
type disabledMailer struct {
	logger *zap.Logger
}

// New creates a Mailer from SMTP configuration. Missing credentials yield a
// disabled mailer rather than an error, matching the optional-email policy.
func New(cfg config.SMTPConfig, logger *zap.Logger) (Mailer, error) {
	if !cfg.Enabled() {
		logger.Warn("SMTP credentials not configured, email dispatch disabled")
		return &disabledMailer{logger: logger}, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout.Duration),
	)
	if err != nil {
		return nil, err
	}

	return &smtpMailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, html string) Result {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return m.failed(to, subject, err)
	}
	if err := msg.To(to); err != nil {
		return m.failed(to, subject, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return m.failed(to, subject, err)
	}

	m.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return Result{Status: StatusSent}
}

func (m *smtpMailer) failed(to, subject string, err error) Result {
	m.logger.Warn("email dispatch failed",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Error(err),
	)
	return Result{Status: StatusFailed, Error: err.Error()}
}

func (m *disabledMailer) Send(_ context.Context, to, subject, _ string) Result {
	m.logger.Info("email dispatch skipped, SMTP not configured",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return Result{Status: StatusSkipped}
}
