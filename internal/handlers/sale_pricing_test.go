package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"storefront-backend/internal/models"
)

func TestValidateSaleFieldsMissingSalePrice(t *testing.T) {
	err := validateSaleFields(100, true, 0, false)
	if err == nil {
		t.Fatal("expected validation error when saleEnabled=true and salePrice is missing")
	}
}

func TestValidateSaleFieldsSalePriceGreaterOrEqualPrice(t *testing.T) {
	tests := []float64{100, 120}
	for _, salePrice := range tests {
		err := validateSaleFields(100, true, salePrice, true)
		if err == nil {
			t.Fatalf("expected validation error for salePrice=%v", salePrice)
		}
	}
}

func TestNormalizeProductDocumentIncludesSaleFields(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":        "Test",
		"price":       100.0,
		"saleEnabled": true,
		"salePrice":   80.0,
		"stock":       5,
		"category":    []string{"Cat"},
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if !product.SaleEnabled || product.SalePrice != 80 {
		t.Fatalf("expected sale fields to be preserved, got saleEnabled=%v salePrice=%v", product.SaleEnabled, product.SalePrice)
	}
	if !product.IsOnSale {
		t.Fatal("expected IsOnSale to be true")
	}
}

func TestProductJSONAlwaysIncludesSalePrice(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":        "Test",
		"price":       120.0,
		"saleEnabled": true,
		"salePrice":   99.0,
		"stock":       10,
		"category":    []string{"Dresses"},
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}

	body, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}

	jsonBody := string(body)
	if !strings.Contains(jsonBody, "\"salePrice\":99") {
		t.Fatalf("expected salePrice in response json, got %s", jsonBody)
	}
	if !strings.Contains(jsonBody, "\"isOnSale\":true") {
		t.Fatalf("expected isOnSale=true in response json, got %s", jsonBody)
	}
}

func TestEffectiveProductPriceUsesSalePriceWhenOnSale(t *testing.T) {
	if got := effectiveProductPrice(100, true, 75); got != 75 {
		t.Fatalf("expected sale price 75, got %v", got)
	}
	if got := effectiveProductPrice(100, false, 75); got != 100 {
		t.Fatalf("expected regular price 100 when sale disabled, got %v", got)
	}
}

func TestApplySaleUpdateDisablingClearsSalePrice(t *testing.T) {
	existing := models.Product{Price: 100, SaleEnabled: true, SalePrice: 80}
	disabled := false
	set := bson.M{}

	if err := applySaleUpdate(existing, nil, nil, &disabled, set); err != nil {
		t.Fatalf("applySaleUpdate returned error: %v", err)
	}
	if set["saleEnabled"] != false {
		t.Fatalf("expected saleEnabled=false in update, got %v", set["saleEnabled"])
	}
	if set["salePrice"] != float64(0) {
		t.Fatalf("expected salePrice zeroed in update, got %v", set["salePrice"])
	}
}

func TestApplySaleUpdateRejectsSalePriceAbovePrice(t *testing.T) {
	existing := models.Product{Price: 100, SaleEnabled: true, SalePrice: 80}
	salePrice := 120.0

	if err := applySaleUpdate(existing, nil, &salePrice, nil, bson.M{}); err == nil {
		t.Fatal("expected error when new salePrice exceeds price")
	}
}

func TestApplySaleUpdateValidatesAgainstNewPrice(t *testing.T) {
	existing := models.Product{Price: 100, SaleEnabled: true, SalePrice: 80}
	price := 70.0

	if err := applySaleUpdate(existing, &price, nil, nil, bson.M{}); err == nil {
		t.Fatal("expected error when the lowered price undercuts the kept salePrice")
	}
}
