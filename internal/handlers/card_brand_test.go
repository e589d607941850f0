package handlers

import "testing"

func TestDetectCardBrand(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"4242424242424242", "Visa"},
		{"5105105105105100", "Mastercard"},
		{"5505105105105100", "Mastercard"},
		{"371449635398431", "Amex"},
		{"341449635398431", "Amex"},
		{"6011111111111117", "Discover"},
		{"6511111111111117", "Discover"},
		{"3530111333300000", "JCB"},
		{"2131000000000000", "JCB"},
		{"1800000000000000", "JCB"},
		{"9999999999999999", "Unknown"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		if got := detectCardBrand(tt.number); got != tt.want {
			t.Fatalf("detectCardBrand(%q) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestDetectCardBrandStripsWhitespace(t *testing.T) {
	if got := detectCardBrand("4242 4242 4242 4242"); got != "Visa" {
		t.Fatalf("expected Visa for spaced number, got %q", got)
	}
}

func TestCardLast4(t *testing.T) {
	if got := cardLast4("4242 4242 4242 4242"); got != "4242" {
		t.Fatalf("expected last4 4242, got %q", got)
	}
	if got := cardLast4("4111111111111234"); got != "1234" {
		t.Fatalf("expected last4 1234, got %q", got)
	}
	if got := cardLast4("123"); got != "123" {
		t.Fatalf("short input should round-trip, got %q", got)
	}
}
