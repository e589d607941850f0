package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoreSettings is the singleton admin-managed configuration document.
// DeliveryFee and FreeDeliveryThreshold feed checkout totals.
type StoreSettings struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StoreName             string             `bson:"storeName" json:"storeName"`
	SupportEmail          string             `bson:"supportEmail" json:"supportEmail"`
	Currency              string             `bson:"currency" json:"currency"`
	DeliveryFee           float64            `bson:"deliveryFee" json:"deliveryFee"`
	FreeDeliveryThreshold float64            `bson:"freeDeliveryThreshold" json:"freeDeliveryThreshold"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultStoreSettings seeds the settings collection on first read.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		StoreName:             "Storefront",
		SupportEmail:          "support@storefront.local",
		Currency:              "BGN",
		DeliveryFee:           5,
		FreeDeliveryThreshold: 100,
		UpdatedAt:             time.Now(),
	}
}
