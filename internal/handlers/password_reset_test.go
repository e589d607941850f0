package handlers

import "testing"

func TestHashTokenIsDeterministic(t *testing.T) {
	a := hashToken("secret-token")
	b := hashToken("secret-token")
	if a != b {
		t.Error("expected identical tokens to hash identically")
	}
	if a == hashToken("other-token") {
		t.Error("expected different tokens to hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
}

func TestGenerateResetToken(t *testing.T) {
	token := generateResetToken()
	if len(token) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(token))
	}
	if token == generateResetToken() {
		t.Error("expected tokens to be unique")
	}
	if hashToken(token) == token {
		t.Error("expected stored hash to differ from the raw token")
	}
}
