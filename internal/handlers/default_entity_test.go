package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveDefaultFlagFirstEntityForced(t *testing.T) {
	if !resolveDefaultFlag(0, false) {
		t.Fatal("first entity should be default even when not requested")
	}
	if !resolveDefaultFlag(0, true) {
		t.Fatal("first entity should be default when requested")
	}
}

func TestResolveDefaultFlagFollowsRequestAfterFirst(t *testing.T) {
	if resolveDefaultFlag(3, false) {
		t.Fatal("later entity should not become default unless requested")
	}
	if !resolveDefaultFlag(3, true) {
		t.Fatal("later entity should become default when requested")
	}
}

func TestPickDefaultSurvivorPrefersOldest(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	oldest := defaultCandidate{ID: primitive.NewObjectID(), CreatedAt: base}
	middle := defaultCandidate{ID: primitive.NewObjectID(), CreatedAt: base.Add(time.Hour)}
	newest := defaultCandidate{ID: primitive.NewObjectID(), CreatedAt: base.Add(48 * time.Hour)}

	// Input order must not matter.
	survivor, ok := pickDefaultSurvivor([]defaultCandidate{newest, oldest, middle})
	if !ok {
		t.Fatal("expected a survivor among three candidates")
	}
	if survivor != oldest.ID {
		t.Fatalf("expected oldest entity %s promoted, got %s", oldest.ID.Hex(), survivor.Hex())
	}
}

func TestPickDefaultSurvivorTieBreaksOnID(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := defaultCandidate{ID: primitive.NewObjectID(), CreatedAt: at}
	b := defaultCandidate{ID: primitive.NewObjectID(), CreatedAt: at}

	want := a.ID
	if b.ID.Hex() < a.ID.Hex() {
		want = b.ID
	}

	survivor, ok := pickDefaultSurvivor([]defaultCandidate{a, b})
	if !ok {
		t.Fatal("expected a survivor")
	}
	if survivor != want {
		t.Fatalf("expected deterministic tie-break on id, got %s want %s", survivor.Hex(), want.Hex())
	}
}

func TestPickDefaultSurvivorEmpty(t *testing.T) {
	if _, ok := pickDefaultSurvivor(nil); ok {
		t.Fatal("expected no survivor for an empty slice")
	}
}
