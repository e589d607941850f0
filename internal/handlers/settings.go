package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/internal/models"
)

type updateSettingsRequest struct {
	StoreName             *string  `json:"storeName"`
	SupportEmail          *string  `json:"supportEmail"`
	Currency              *string  `json:"currency"`
	DeliveryFee           *float64 `json:"deliveryFee"`
	FreeDeliveryThreshold *float64 `json:"freeDeliveryThreshold"`
}

// loadStoreSettings reads the singleton settings document, falling back to
// defaults when none exists yet.
func loadStoreSettings(ctx context.Context, db *mongo.Database) models.StoreSettings {
	var settings models.StoreSettings
	err := db.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil {
		return models.DefaultStoreSettings()
	}
	return settings
}

func GetSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.JSON(http.StatusOK, loadStoreSettings(ctx, db))
	}
}

func UpdateSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		settings := loadStoreSettings(ctx, db)

		if req.StoreName != nil {
			settings.StoreName = strings.TrimSpace(*req.StoreName)
		}
		if req.SupportEmail != nil {
			settings.SupportEmail = strings.ToLower(strings.TrimSpace(*req.SupportEmail))
		}
		if req.Currency != nil {
			settings.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
		}
		if req.DeliveryFee != nil {
			if *req.DeliveryFee < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "deliveryFee must not be negative"})
				return
			}
			settings.DeliveryFee = *req.DeliveryFee
		}
		if req.FreeDeliveryThreshold != nil {
			if *req.FreeDeliveryThreshold < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "freeDeliveryThreshold must not be negative"})
				return
			}
			settings.FreeDeliveryThreshold = *req.FreeDeliveryThreshold
		}
		settings.UpdatedAt = time.Now()

		update := bson.M{"$set": bson.M{
			"storeName":             settings.StoreName,
			"supportEmail":          settings.SupportEmail,
			"currency":              settings.Currency,
			"deliveryFee":           settings.DeliveryFee,
			"freeDeliveryThreshold": settings.FreeDeliveryThreshold,
			"updatedAt":             settings.UpdatedAt,
		}}

		opts := options.Update().SetUpsert(true)
		if _, err := db.Collection("settings").UpdateOne(ctx, bson.M{}, update, opts); err != nil {
			log.Println("[SETTINGS] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[SETTINGS] [INFO] settings updated")
		c.JSON(http.StatusOK, settings)
	}
}
