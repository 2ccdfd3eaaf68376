package mailer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/starterkit/internal/app/system/mailer"
	"go.uber.org/zap"
)

func TestBuildLeadEmail(t *testing.T) {
	msg := mailer.BuildLeadEmail(mailer.LeadEmailData{
		SiteName:  "Starter Kit",
		Reference: "ref-1",
		Name:      "Jane <b>Doe</b>",
		Phone:     "5551234567",
		Email:     "jane@example.com",
	})

	if msg.ReplyTo != "jane@example.com" {
		t.Errorf("ReplyTo: got %q", msg.ReplyTo)
	}
	if !strings.Contains(msg.Subject, "Starter Kit") {
		t.Errorf("Subject should name the site: %q", msg.Subject)
	}
	if !strings.Contains(msg.TextBody, "Phone: 5551234567") {
		t.Errorf("TextBody missing phone: %q", msg.TextBody)
	}
	if strings.Contains(msg.HTMLBody, "<b>Doe</b>") {
		t.Error("HTMLBody must escape lead fields")
	}
	if !strings.Contains(msg.HTMLBody, "ref-1") {
		t.Error("HTMLBody missing reference")
	}
}

func TestSend(t *testing.T) {
	m := mailer.New("noreply@starterkit.test", "Starter Kit", zap.NewNop())

	if err := m.Send(mailer.Email{Subject: "x"}); !errors.Is(err, mailer.ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient, got %v", err)
	}
	if err := m.Send(mailer.Email{To: "owner@starterkit.test", Subject: "x"}); err != nil {
		t.Errorf("Send: %v", err)
	}
}
