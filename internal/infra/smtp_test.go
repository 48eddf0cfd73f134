package infra

import (
	"errors"
	"net/smtp"
	"testing"

	"tradebook/internal/config"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerBuildsMessage(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 2525, SMTPUser: "books@example.com", SMTPPassword: "secret"})

	var sent *email.Email
	var sentAddr string
	var sentAuth smtp.Auth
	m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr, sentAuth = e, addr, auth
		return nil
	}

	require.NoError(t, m.Send("stock@example.com", "Low stock", "Oolong: 2 left"))
	assert.Equal(t, "smtp.example.com:2525", sentAddr)
	assert.NotNil(t, sentAuth)
	assert.Equal(t, "books@example.com", sent.From)
	assert.Equal(t, []string{"stock@example.com"}, sent.To)
	assert.Equal(t, "Low stock", sent.Subject)
	assert.Equal(t, "Oolong: 2 left", string(sent.Text))
}

func TestMailerWithoutUserSkipsAuth(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "relay.local", SMTPPort: 25})
	m.send = func(e *email.Email, _ string, auth smtp.Auth) error {
		assert.Nil(t, auth)
		assert.Equal(t, "tradebook@relay.local", e.From)
		return errors.New("connection refused")
	}

	err := m.Send("stock@example.com", "s", "b")
	assert.ErrorContains(t, err, "connection refused")
	assert.ErrorContains(t, err, "stock@example.com")
}
