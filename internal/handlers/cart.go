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

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type updateCartItemRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

// mergeCartItem adds the new line into items, combining quantities when the
// same product variant is already present.
func mergeCartItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	for i, existing := range items {
		if existing.ProductID == item.ProductID && existing.Color == item.Color && existing.Size == item.Size {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

func saveCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, items []models.CartItem) error {
	opts := options.Update().SetUpsert(true)
	_, err := db.Collection("carts").UpdateOne(ctx, bson.M{"userId": userID}, bson.M{
		"$set": bson.M{"items": items, "updatedAt": time.Now()},
	}, opts)
	return err
}

func loadCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] load failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": cart.Items, "updatedAt": cart.UpdatedAt})
	}
}

func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}
		if req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be greater than zero"})
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
			log.Println("[CART] [ERROR] product lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] load failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		cart.Items = mergeCartItem(cart.Items, models.CartItem{
			ProductID: productID,
			Quantity:  req.Quantity,
			Color:     strings.TrimSpace(req.Color),
			Size:      strings.TrimSpace(req.Size),
		})

		if err := saveCart(ctx, db, userID, cart.Items); err != nil {
			log.Println("[CART] [ERROR] save failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": cart.Items})
	}
}

func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
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

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be greater than zero"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] load failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		color := strings.TrimSpace(req.Color)
		size := strings.TrimSpace(req.Size)

		found := false
		for i, item := range cart.Items {
			if item.ProductID == productID && item.Color == color && item.Size == size {
				cart.Items[i].Quantity = req.Quantity
				found = true
				break
			}
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}

		if err := saveCart(ctx, db, userID, cart.Items); err != nil {
			log.Println("[CART] [ERROR] save failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": cart.Items})
	}
}

func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
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

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] load failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		color := strings.TrimSpace(c.Query("color"))
		size := strings.TrimSpace(c.Query("size"))

		remaining := make([]models.CartItem, 0, len(cart.Items))
		found := false
		for _, item := range cart.Items {
			if item.ProductID == productID && item.Color == color && item.Size == size {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}

		if err := saveCart(ctx, db, userID, remaining); err != nil {
			log.Println("[CART] [ERROR] save failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": remaining})
	}
}

func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := saveCart(ctx, db, userID, []models.CartItem{}); err != nil {
			log.Println("[CART] [ERROR] clear failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
