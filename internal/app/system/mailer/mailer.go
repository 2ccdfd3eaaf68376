// Package mailer builds outgoing emails. The only transport is a mock that
// logs the message; nothing is delivered.
package mailer

import (
	"errors"

	"go.uber.org/zap"
)

// Email is a fully built message.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers an Email.
type Sender interface {
	Send(msg Email) error
}

// Mailer is the mock Sender. It logs each message with a "[MOCK EMAIL]"
// marker instead of contacting an SMTP server.
type Mailer struct {
	From     string
	FromName string
	Log      *zap.Logger
}

// New returns a mock Mailer.
func New(from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{From: from, FromName: fromName, Log: logger}
}

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("mailer: message has no recipient")

// Send logs msg.
func (m *Mailer) Send(msg Email) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	m.Log.Info("[MOCK EMAIL] sent",
		zap.String("from", m.From),
		zap.String("to", msg.To),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)),
	)
	return nil
}
