package handlers

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestAddressUpdateFieldsRejectsBlankRequired(t *testing.T) {
	req := updateAddressRequest{
		FirstName: strPtr("   "),
		City:      strPtr(""),
		Line1:     strPtr("12 Harbor St"),
	}

	set, details := addressUpdateFields(req)

	if len(details) != 2 {
		t.Fatalf("expected 2 validation details, got %d: %v", len(details), details)
	}
	for _, field := range []string{"firstName", "city"} {
		found := false
		for _, d := range details {
			if strings.HasPrefix(d, field+" ") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a detail for %s, got %v", field, details)
		}
	}
	if _, ok := set["firstName"]; ok {
		t.Error("blank firstName must not reach the update document")
	}
	if set["line1"] != "12 Harbor St" {
		t.Errorf("valid line1 should be kept, got %v", set["line1"])
	}
}

func TestAddressUpdateFieldsAllowsClearingOptional(t *testing.T) {
	req := updateAddressRequest{
		Line2: strPtr(""),
		Phone: strPtr("  "),
	}

	set, details := addressUpdateFields(req)

	if len(details) != 0 {
		t.Fatalf("optional fields may be cleared, got details %v", details)
	}
	if v, ok := set["line2"]; !ok || v != "" {
		t.Errorf("line2 should be set to empty string, got %v (present=%v)", v, ok)
	}
	if v, ok := set["phone"]; !ok || v != "" {
		t.Errorf("phone should be set to empty string, got %v (present=%v)", v, ok)
	}
}

func TestAddressUpdateFieldsTrimsValues(t *testing.T) {
	req := updateAddressRequest{
		Country:    strPtr("  Norway  "),
		PostalCode: strPtr(" 0150 "),
	}

	set, details := addressUpdateFields(req)

	if len(details) != 0 {
		t.Fatalf("unexpected details %v", details)
	}
	if set["country"] != "Norway" {
		t.Errorf("country not trimmed: %v", set["country"])
	}
	if set["postalCode"] != "0150" {
		t.Errorf("postalCode not trimmed: %v", set["postalCode"])
	}
}

func TestAddressUpdateFieldsIgnoresAbsentFields(t *testing.T) {
	set, details := addressUpdateFields(updateAddressRequest{})

	if len(details) != 0 {
		t.Fatalf("unexpected details %v", details)
	}
	if len(set) != 0 {
		t.Errorf("absent fields must not appear in the update document: %v", set)
	}
}
