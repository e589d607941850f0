package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

type stringListDoc struct {
	Category StringList `bson:"category"`
}

func TestStringListDecodesLegacySingleString(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"category": " Shoes "})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc stringListDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Category) != 1 || doc.Category[0] != "Shoes" {
		t.Fatalf("expected [Shoes], got %v", doc.Category)
	}
}

func TestStringListDecodesArray(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"category": []string{"Shoes", "Sale"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc stringListDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Category) != 2 || doc.Category[0] != "Shoes" || doc.Category[1] != "Sale" {
		t.Fatalf("expected [Shoes Sale], got %v", doc.Category)
	}
}

func TestStringListDecodesNull(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"category": nil})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc stringListDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Category != nil {
		t.Fatalf("expected nil for null value, got %v", doc.Category)
	}
}
