package models

import "testing"

func TestCanTransitionHappyPath(t *testing.T) {
	steps := []struct {
		from, to OrderStatus
	}{
		{StatusPending, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
	}
	for _, step := range steps {
		if !CanTransition(step.from, step.to) {
			t.Errorf("expected %s -> %s to be allowed", step.from, step.to)
		}
	}
}

func TestCanTransitionCancellation(t *testing.T) {
	if !CanTransition(StatusPending, StatusCancelled) {
		t.Error("expected PENDING -> CANCELLED to be allowed")
	}
	if !CanTransition(StatusProcessing, StatusCancelled) {
		t.Error("expected PROCESSING -> CANCELLED to be allowed")
	}
	if CanTransition(StatusShipped, StatusCancelled) {
		t.Error("expected SHIPPED -> CANCELLED to be rejected")
	}
}

func TestCanTransitionTerminalStates(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusDelivered, StatusCancelled} {
		for _, to := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
			if CanTransition(terminal, to) {
				t.Errorf("expected no transition out of %s, got %s allowed", terminal, to)
			}
		}
	}
}

func TestCanTransitionRejectsSkips(t *testing.T) {
	if CanTransition(StatusPending, StatusShipped) {
		t.Error("expected PENDING -> SHIPPED to be rejected")
	}
	if CanTransition(StatusPending, StatusDelivered) {
		t.Error("expected PENDING -> DELIVERED to be rejected")
	}
	if CanTransition(StatusShipped, StatusProcessing) {
		t.Error("expected SHIPPED -> PROCESSING to be rejected")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if status, ok := ParseOrderStatus("SHIPPED"); !ok || status != StatusShipped {
		t.Errorf("expected SHIPPED to parse, got %q ok=%v", status, ok)
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Error("expected lowercase status to be rejected")
	}
	if _, ok := ParseOrderStatus("RETURNED"); ok {
		t.Error("expected unknown status to be rejected")
	}
}
