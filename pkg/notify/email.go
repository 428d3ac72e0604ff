package notify

import (
	"context"
	"fmt"
	"time"

	"followwatch/pkg/config"
	errs "followwatch/pkg/errors"
	"followwatch/pkg/logger"
	"followwatch/pkg/report"
	"followwatch/pkg/retry"

	"github.com/wneessen/go-mail"
)

// Sender delivers prepared messages. *mail.Client implements it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailNotifier sends reports as multipart HTML and text mail over SMTP
type EmailNotifier struct {
	sender   Sender
	from     string
	fromName string
	retry    *retry.Config
	now      func() time.Time
	logger   logger.Logger
}

// NewEmailNotifier creates an SMTP client from cfg. STARTTLS is required.
func NewEmailNotifier(cfg config.EmailConfig, log logger.Logger) (*EmailNotifier, error) {
	if cfg.Username == "" {
		return nil, errs.New(errs.ErrorTypeConfig, "email username is required")
	}
	if cfg.Password == "" {
		return nil, errs.New(errs.ErrorTypeConfig,
			"email password is not set; use FOLLOWWATCH_SMTP_PASSWORD or 'followwatch secret set'")
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "failed to create SMTP client")
	}

	return NewEmailNotifierWithSender(client, cfg, log), nil
}

// NewEmailNotifierWithSender builds a notifier around an existing sender
func NewEmailNotifierWithSender(sender Sender, cfg config.EmailConfig, log logger.Logger) *EmailNotifier {
	log = logger.OrDefault(log)

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	return &EmailNotifier{
		sender:   sender,
		from:     cfg.Username,
		fromName: cfg.FromName,
		retry: &retry.Config{
			MaxAttempts: attempts,
			Backoff: &retry.ExponentialBackoff{
				BaseDelay:    cfg.RetryDelay,
				MaxDelay:     cfg.RetryDelay * 8,
				Multiplier:   2.0,
				JitterFactor: 0.1,
			},
			RetryIf: retry.DefaultRetryIf,
			Logger:  log,
		},
		now:    time.Now,
		logger: log,
	}
}

// Message builds the mail for a report
func (e *EmailNotifier) Message(recipients []string, r *report.Report) (*mail.Msg, error) {
	now := e.now()
	text, err := r.RenderText(now)
	if err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	html, err := r.RenderHTML(now)
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}

	m := mail.NewMsg()
	if e.fromName != "" {
		err = m.FromFormat(e.fromName, e.from)
	} else {
		err = m.From(e.from)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(r.Subject(now))
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, text)
	m.AddAlternativeString(mail.TypeTextHTML, html)

	return m, nil
}

// Notify renders and sends the report, retrying transient failures
func (e *EmailNotifier) Notify(ctx context.Context, recipients []string, r *report.Report) error {
	if len(recipients) == 0 {
		return errs.New(errs.ErrorTypeNotify, "no recipients")
	}

	m, err := e.Message(recipients, r)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeNotify, err, "failed to build report email")
	}

	log := e.logger.WithFields(map[string]interface{}{
		"channel":    r.Channel(),
		"recipients": len(recipients),
	})

	err = retry.Do(ctx, func(ctx context.Context) error {
		return e.sender.DialAndSendWithContext(ctx, m)
	}, e.retry)
	if err != nil {
		log.WithError(err).Error("failed to send report email")
		return errs.Wrap(errs.ErrorTypeNotify, err, "failed to send report email")
	}

	log.Info("report email sent")
	return nil
}
