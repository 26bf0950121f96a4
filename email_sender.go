package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers email over SMTP using gomail. It satisfies Sender and
// is the default transport wired by the HTTP controller helpers.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   Logger
}

var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.GetSMTPHost(),
		port:     cfg.GetSMTPPort(),
		username: cfg.GetSMTPUsername(),
		password: cfg.GetSMTPPassword(),
		from:     cfg.GetEmailFrom(),
		logger:   defLogger{},
	}
}

func (s *SMTPSender) WithLogger(logger Logger) *SMTPSender {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if s.host == "" || s.from == "" {
		return goerrors.New("smtp transport is not configured", goerrors.CategoryOperation).
			WithTextCode("SMTP_NOT_CONFIGURED")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send email")
	}

	s.logger.Info("email sent", "to", to, "subject", subject)

	return nil
}
