package handlers

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"storefront-backend/internal/models"
)

var (
	errSalePriceMissing  = errors.New("salePrice is required when saleEnabled is true")
	errSalePriceNotBelow = errors.New("salePrice must be greater than 0 and less than price")
)

// isProductOnSale reports whether the discount is actually effective: a
// salePrice at or above the regular price is ignored rather than displayed.
func isProductOnSale(price float64, saleEnabled bool, salePrice float64) bool {
	return saleEnabled && salePrice > 0 && salePrice < price
}

// effectiveProductPrice is what the customer pays; order lines snapshot it.
func effectiveProductPrice(price float64, saleEnabled bool, salePrice float64) float64 {
	if isProductOnSale(price, saleEnabled, salePrice) {
		return salePrice
	}
	return price
}

// validateSaleFields rejects sale configurations that could never show a
// discount. salePriceSet distinguishes "absent" from an explicit zero.
func validateSaleFields(price float64, saleEnabled bool, salePrice float64, salePriceSet bool) error {
	if !saleEnabled {
		return nil
	}
	if !salePriceSet {
		return errSalePriceMissing
	}
	if salePrice <= 0 || salePrice >= price {
		return errSalePriceNotBelow
	}
	return nil
}

// applySaleUpdate merges a partial sale change into the update document and
// validates the pair that would result. Disabling a sale also zeroes the
// stored salePrice so a stale discount cannot resurface when the sale is
// re-enabled later.
func applySaleUpdate(existing models.Product, price, salePrice *float64, saleEnabled *bool, set bson.M) error {
	nextPrice := existing.Price
	if price != nil {
		nextPrice = *price
	}

	enabled := existing.SaleEnabled
	sale := existing.SalePrice
	saleSet := existing.SalePrice > 0

	if saleEnabled != nil {
		enabled = *saleEnabled
		set["saleEnabled"] = enabled
		if !enabled {
			sale = 0
			saleSet = false
			set["salePrice"] = float64(0)
		}
	}

	if salePrice != nil {
		sale = *salePrice
		saleSet = true
		set["salePrice"] = sale
	}

	return validateSaleFields(nextPrice, enabled, sale, saleSet)
}
