package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/internal/models"
)

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func GetWishlist(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var wishlist models.Wishlist
		if err := db.Collection("wishlists").FindOne(ctx, bson.M{"userId": userID}).Decode(&wishlist); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusOK, gin.H{"data": []models.Product{}})
				return
			}
			log.Println("[WISHLIST] [ERROR] load failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if len(wishlist.ProductIDs) == 0 {
			c.JSON(http.StatusOK, gin.H{"data": []models.Product{}})
			return
		}

		cursor, err := db.Collection("products").Find(ctx, bson.M{
			"_id":       bson.M{"$in": wishlist.ProductIDs},
			"isDeleted": bson.M{"$ne": true},
		})
		if err != nil {
			log.Println("[WISHLIST] [ERROR] list products failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0, len(wishlist.ProductIDs))
		if err := cursor.All(ctx, &products); err != nil {
			log.Println("[WISHLIST] [ERROR] decode products failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		// Preserve the order items were wished in.
		productByID := make(map[primitive.ObjectID]models.Product, len(products))
		for _, product := range products {
			productByID[product.ID] = product
		}
		ordered := make([]models.Product, 0, len(products))
		for _, id := range wishlist.ProductIDs {
			if product, exists := productByID[id]; exists {
				ordered = append(ordered, product)
			}
		}

		c.JSON(http.StatusOK, gin.H{"data": ordered})
	}
}

func AddWishlistItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req wishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"isDeleted": bson.M{"$ne": true},
		}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
				return
			}
			log.Println("[WISHLIST] [ERROR] product lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		opts := options.Update().SetUpsert(true)
		_, err = db.Collection("wishlists").UpdateOne(ctx, bson.M{"userId": userID}, bson.M{
			"$addToSet": bson.M{"productIds": productID},
			"$set":      bson.M{"updatedAt": time.Now()},
		}, opts)
		if err != nil {
			log.Println("[WISHLIST] [ERROR] add failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "wishlist updated"})
	}
}

func RemoveWishlistItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := objectIDParam(c, "productId")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err = db.Collection("wishlists").UpdateOne(ctx, bson.M{"userId": userID}, bson.M{
			"$pull": bson.M{"productIds": productID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			log.Println("[WISHLIST] [ERROR] remove failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "wishlist updated"})
	}
}
