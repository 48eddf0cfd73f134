package infra

import (
	"fmt"
	"net/smtp"

	"tradebook/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text notices through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	// send is email.Email.Send; tests replace it.
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		send:     (*email.Email).Send,
	}
}

// Send mails subject and body to one recipient. Without SMTP_USER the relay
// is used unauthenticated and the sender is tradebook@<host>.
func (m *Mailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.user
	if e.From == "" {
		e.From = "tradebook@" + m.host
	}
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := m.send(e, m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
