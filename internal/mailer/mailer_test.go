package mailer

import (
	"strings"
	"testing"
)

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "user@example.com", "Reset your password", "Click the link."))

	for _, want := range []string{
		"From: noreply@example.com\r\n",
		"To: user@example.com\r\n",
		"Subject: Reset your password\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing header %q", want)
		}
	}

	if !strings.HasSuffix(msg, "\r\n\r\nClick the link.") {
		t.Errorf("body not separated from headers by blank line: %q", msg)
	}
}

func TestNewSMTPSetsTimeout(t *testing.T) {
	m := NewSMTP("localhost", "1025", "noreply@example.com", "", "")

	sm, ok := m.(*smtpMailer)
	if !ok {
		t.Fatalf("NewSMTP returned %T", m)
	}
	if sm.timeout <= 0 {
		t.Fatalf("expected a positive send timeout, got %v", sm.timeout)
	}
}
