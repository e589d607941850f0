package handlers

import (
	"testing"
	"time"
)

func TestSessionMaxAge(t *testing.T) {
	sessionTTL := 24 * time.Hour
	rememberMeTTL := 7 * 24 * time.Hour

	if got := sessionMaxAge(false, sessionTTL, rememberMeTTL); got != 86400 {
		t.Errorf("expected 86400 for a normal session, got %d", got)
	}
	if got := sessionMaxAge(true, sessionTTL, rememberMeTTL); got != 604800 {
		t.Errorf("expected 604800 with rememberMe, got %d", got)
	}
}
