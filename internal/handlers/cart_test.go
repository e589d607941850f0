package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/models"
)

func TestMergeCartItemCombinesSameVariant(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Color: "black", Size: "M", Quantity: 2},
	}

	items = mergeCartItem(items, models.CartItem{ProductID: productID, Color: "black", Size: "M", Quantity: 3})

	if len(items) != 1 {
		t.Fatalf("expected 1 line after merge, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", items[0].Quantity)
	}
}

func TestMergeCartItemKeepsDistinctVariants(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Color: "black", Size: "M", Quantity: 1},
	}

	items = mergeCartItem(items, models.CartItem{ProductID: productID, Color: "black", Size: "L", Quantity: 1})
	items = mergeCartItem(items, models.CartItem{ProductID: primitive.NewObjectID(), Color: "black", Size: "M", Quantity: 1})

	if len(items) != 3 {
		t.Fatalf("expected 3 distinct lines, got %d", len(items))
	}
}

func TestMergeCartItemAppendsToEmptyCart(t *testing.T) {
	items := mergeCartItem(nil, models.CartItem{ProductID: primitive.NewObjectID(), Quantity: 1})
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
}
