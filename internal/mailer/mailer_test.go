package mailer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestMailer(t *testing.T) *Mailer {
	t.Helper()

	// TEST-NET-1 address; nothing answers there, so a send can only return
	// through the context path.
	t.Setenv("SMTP_HOST", "192.0.2.1")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	logger := zerolog.Nop()
	return NewMailer(&logger)
}

func TestSend(t *testing.T) {
	t.Run("rejects a message without recipients", func(t *testing.T) {
		m := newTestMailer(t)

		err := m.Send(context.Background(), Email{Subject: "hi", Body: "hello"})
		assert.ErrorContains(t, err, "no recipients")
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		m := newTestMailer(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := m.SendHTML(ctx, []string{"to@example.com"}, "hi", "<p>hello</p>")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
