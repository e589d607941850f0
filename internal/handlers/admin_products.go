package handlers

import (
	"context"
	"log"
	"math"
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

type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price" binding:"required"`
	SaleEnabled bool     `json:"saleEnabled"`
	SalePrice   float64  `json:"salePrice"`
	Category    []string `json:"category" binding:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Stock       *int     `json:"stock" binding:"required"`
	IsActive    *bool    `json:"isActive"`
	IsCampaign  bool     `json:"isCampaign"`
}

type ProductUpdateRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price"`
	SaleEnabled *bool     `json:"saleEnabled"`
	SalePrice   *float64  `json:"salePrice"`
	Category    *[]string `json:"category"`
	Description *string   `json:"description"`
	Brand       *string   `json:"brand"`
	Colors      *[]string `json:"colors"`
	Sizes       *[]string `json:"sizes"`
	Stock       *int      `json:"stock"`
	IsActive    *bool     `json:"isActive"`
	IsCampaign  *bool     `json:"isCampaign"`
}

func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{
			"isDeleted": bson.M{"$ne": true},
		}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = bson.M{"$in": []string{category}}
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"brand": bson.M{"$regex": search, "$options": "i"}},
				{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		if isActive := strings.TrimSpace(c.Query("isActive")); isActive != "" {
			filter["isActive"] = strings.EqualFold(isActive, "true")
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": products,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}

		if err := validateSaleFields(req.Price, req.SaleEnabled, req.SalePrice, req.SalePrice > 0); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		categories := normalizeCategories(req.Category)
		if len(categories) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category required"})
			return
		}

		stock := *req.Stock
		if stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be zero or greater"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Price:       req.Price,
			SaleEnabled: req.SaleEnabled,
			SalePrice:   req.SalePrice,
			IsOnSale:    isProductOnSale(req.Price, req.SaleEnabled, req.SalePrice),
			Category:    models.StringList(categories),
			Description: strings.TrimSpace(req.Description),
			Brand:       strings.TrimSpace(req.Brand),
			Colors:      models.StringList(normalizeCategories(req.Colors)),
			Sizes:       models.StringList(normalizeCategories(req.Sizes)),
			Stock:       stock,
			InStock:     stock > 0,
			IsActive:    isActive,
			IsCampaign:  req.IsCampaign,
			CreatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[PRODUCT] [INFO] product created:", product.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		activeFilter := bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, activeFilter).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		updateSet := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
				return
			}
			updateSet["name"] = name
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.Category != nil {
			categories := normalizeCategories(*req.Category)
			if len(categories) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "category required"})
				return
			}
			updateSet["category"] = models.StringList(categories)
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Brand != nil {
			updateSet["brand"] = strings.TrimSpace(*req.Brand)
		}
		if req.Colors != nil {
			updateSet["colors"] = models.StringList(normalizeCategories(*req.Colors))
		}
		if req.Sizes != nil {
			updateSet["sizes"] = models.StringList(normalizeCategories(*req.Sizes))
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be zero or greater"})
				return
			}
			updateSet["stock"] = *req.Stock
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.IsCampaign != nil {
			updateSet["isCampaign"] = *req.IsCampaign
		}

		if err := applySaleUpdate(existing, req.Price, req.SalePrice, req.SaleEnabled, updateSet); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if len(updateSet) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		result, err := db.Collection("products").UpdateOne(ctx, activeFilter, bson.M{"$set": updateSet})
		if err != nil {
			log.Println("[PRODUCT] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		var raw bson.M
		if err := db.Collection("products").FindOne(ctx, activeFilter).Decode(&raw); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		updated, err := normalizeProductDocument(raw)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// UploadProductImage replaces the product image; the previous file is
// removed from disk after the document update succeeds.
func UploadProductImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		activeFilter := bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, activeFilter).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		relPath, err := saveUpload(c, file)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] image save failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if _, err := db.Collection("products").UpdateOne(ctx, activeFilter, bson.M{
			"$set": bson.M{"imagePath": relPath},
		}); err != nil {
			log.Println("[PRODUCT] [ERROR] image update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if existing.ImagePath != "" && existing.ImagePath != relPath {
			if err := safeDeleteUpload(existing.ImagePath); err != nil {
				log.Printf("[PRODUCT] [ERROR] old image delete failed: %v", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"imagePath": relPath})
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		activeFilter := bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, activeFilter).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		res, err := db.Collection("products").UpdateOne(ctx, activeFilter, bson.M{"$set": bson.M{
			"isDeleted": true,
			"deletedAt": time.Now(),
			"isActive":  false,
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		if err := safeDeleteUpload(existing.ImagePath); err != nil {
			log.Printf("[PRODUCT] [ERROR] image delete failed: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
