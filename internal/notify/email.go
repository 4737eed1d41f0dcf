package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jhillyerd/enmime"

	"stridewms/internal/config"
)

// EmailSender builds MIME messages with enmime and delivers them over SMTP.
type EmailSender struct {
	cfg config.Config
}

func NewEmailSender(cfg config.Config) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) SendEmail(to, subject, htmlBody, textBody string) error {
	if strings.TrimSpace(s.cfg.SMTPHost) == "" {
		return errors.New("SMTP_HOST is not configured")
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("missing recipient address")
	}

	builder := enmime.Builder().
		From(s.cfg.SMTPFromName, s.cfg.SMTPFrom).
		To("", to).
		Subject(subject).
		Text([]byte(textBody)).
		HTML([]byte(htmlBody))

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	return builder.Send(enmime.NewSMTP(addr, auth))
}
