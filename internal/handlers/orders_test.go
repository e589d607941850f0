package handlers

import (
	"strings"
	"testing"

	"storefront-backend/internal/models"
)

func TestDeliveryFeeForBelowThreshold(t *testing.T) {
	settings := models.StoreSettings{DeliveryFee: 5, FreeDeliveryThreshold: 100}
	if got := deliveryFeeFor(99.99, settings); got != 5 {
		t.Errorf("expected fee 5 below threshold, got %v", got)
	}
}

func TestDeliveryFeeForAtAndAboveThreshold(t *testing.T) {
	settings := models.StoreSettings{DeliveryFee: 5, FreeDeliveryThreshold: 100}
	if got := deliveryFeeFor(100, settings); got != 0 {
		t.Errorf("expected free delivery at threshold, got %v", got)
	}
	if got := deliveryFeeFor(250, settings); got != 0 {
		t.Errorf("expected free delivery above threshold, got %v", got)
	}
}

func TestDeliveryFeeForDisabledThreshold(t *testing.T) {
	settings := models.StoreSettings{DeliveryFee: 5, FreeDeliveryThreshold: 0}
	if got := deliveryFeeFor(1000, settings); got != 5 {
		t.Errorf("expected fee 5 when threshold is disabled, got %v", got)
	}
}

func TestIllegalTransitionErrorCarriesStates(t *testing.T) {
	err := illegalTransitionError{From: models.StatusDelivered, To: models.StatusPending}
	if err.Error() != "illegal status transition" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if err.From != models.StatusDelivered || err.To != models.StatusPending {
		t.Fatalf("expected from/to preserved, got %s -> %s", err.From, err.To)
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	number := newOrderNumber()
	if !strings.HasPrefix(number, "ORD-") {
		t.Fatalf("expected ORD- prefix, got %q", number)
	}
	if len(number) != len("ORD-")+12 {
		t.Errorf("expected 12 characters after the prefix, got %q", number)
	}
	if number != strings.ToUpper(number) {
		t.Errorf("expected uppercase order number, got %q", number)
	}
	if newOrderNumber() == number {
		t.Error("expected consecutive order numbers to differ")
	}
}
