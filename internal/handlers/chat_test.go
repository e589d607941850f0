package handlers

import (
	"strings"
	"testing"
)

func TestFallbackReplyMatchesKeywords(t *testing.T) {
	cases := []struct {
		message  string
		fragment string
	}{
		{"Кога ще пристигне доставката ми?", "куриер"},
		{"how long is shipping to Sofia?", "куриер"},
		{"Мога ли да платя с карта?", "Visa"},
		{"искам да върна продукт", "14 дни"},
		{"Кой размер да избера?", "размери"},
		{"Какъв е вашият телефон за контакт?", "поддръжка"},
	}
	for _, tc := range cases {
		reply := fallbackReply(tc.message)
		if !strings.Contains(reply, tc.fragment) {
			t.Errorf("fallbackReply(%q) = %q, expected to contain %q", tc.message, reply, tc.fragment)
		}
	}
}

func TestFallbackReplyIsCaseInsensitive(t *testing.T) {
	if fallbackReply("DELIVERY info please") != fallbackReply("delivery info please") {
		t.Error("expected keyword matching to ignore case")
	}
}

func TestFallbackReplyDefault(t *testing.T) {
	if got := fallbackReply("нещо съвсем друго"); got != defaultCannedReply {
		t.Errorf("expected default reply for unmatched message, got %q", got)
	}
}
