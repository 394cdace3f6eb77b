package infra

import (
	"fmt"
	"net/smtp"

	"casaceja/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text emails with optional attachments through the SMTP
// relay, behind a circuit breaker so a dead relay does not stall the workers.
type Mailer struct {
	from    string
	addr    string
	auth    smtp.Auth
	breaker *Breaker
	send    func(e *email.Email, addr string, a smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		from:    cfg.SMTPUser,
		addr:    fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:    smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		breaker: NewBreaker(5, 0),
		send:    func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
	}
}

// Send delivers one message. attachments are file paths.
func (m *Mailer) Send(to, subject, body string, attachments ...string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	for _, path := range attachments {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", path, err)
		}
	}

	return m.breaker.Do(func() error { return m.send(e, m.addr, m.auth) })
}

// BreakerState exposes the relay breaker for the health endpoint.
func (m *Mailer) BreakerState() BreakerState { return m.breaker.State() }
