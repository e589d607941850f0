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

type createPaymentMethodRequest struct {
	Type       string `json:"type" binding:"required"`
	CardNumber string `json:"cardNumber"`
	ExpMonth   int    `json:"expMonth"`
	ExpYear    int    `json:"expYear"`
	HolderName string `json:"holderName"`
	Label      string `json:"label"`
	IsDefault  bool   `json:"isDefault"`
}

type updatePaymentMethodRequest struct {
	ExpMonth   *int    `json:"expMonth"`
	ExpYear    *int    `json:"expYear"`
	HolderName *string `json:"holderName"`
	Label      *string `json:"label"`
	IsDefault  *bool   `json:"isDefault"`
}

func validateCardFields(req createPaymentMethodRequest) []string {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(req.CardNumber) == "" {
		missing = append(missing, "cardNumber is required")
	}
	if req.ExpMonth < 1 || req.ExpMonth > 12 {
		missing = append(missing, "expMonth is required")
	}
	if req.ExpYear == 0 {
		missing = append(missing, "expYear is required")
	}
	if strings.TrimSpace(req.HolderName) == "" {
		missing = append(missing, "holderName is required")
	}
	return missing
}

func GetPaymentMethods(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
		cursor, err := db.Collection("payment_methods").Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] list failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		methods := make([]models.PaymentMethod, 0)
		if err := cursor.All(ctx, &methods); err != nil {
			log.Println("[PAYMENT] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, methods)
	}
}

func GetPaymentMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		methodID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var method models.PaymentMethod
		if err := db.Collection("payment_methods").FindOne(ctx, bson.M{"_id": methodID, "userId": userID}).Decode(&method); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}

		c.JSON(http.StatusOK, method)
	}
}

func CreatePaymentMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req createPaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		methodType := strings.ToLower(strings.TrimSpace(req.Type))
		if methodType != models.PaymentMethodCard && methodType != models.PaymentMethodOther {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be card or other"})
			return
		}

		now := time.Now()
		method := models.PaymentMethod{
			UserID:     userID,
			Type:       methodType,
			Label:      strings.TrimSpace(req.Label),
			HolderName: strings.TrimSpace(req.HolderName),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if methodType == models.PaymentMethodCard {
			if missing := validateCardFields(req); len(missing) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": missing})
				return
			}
			method.CardLast4 = cardLast4(req.CardNumber)
			method.CardBrand = detectCardBrand(req.CardNumber)
			method.ExpMonth = req.ExpMonth
			method.ExpYear = req.ExpYear
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("payment_methods")

		err := withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			count, err := coll.CountDocuments(sessCtx, bson.M{"userId": userID})
			if err != nil {
				return err
			}

			method.IsDefault = resolveDefaultFlag(count, req.IsDefault)
			if method.IsDefault && count > 0 {
				if err := clearDefaults(sessCtx, coll, userID, primitive.NilObjectID); err != nil {
					return err
				}
			}

			res, err := coll.InsertOne(sessCtx, method)
			if err != nil {
				return err
			}
			method.ID, _ = res.InsertedID.(primitive.ObjectID)
			return nil
		})
		if err != nil {
			log.Println("[PAYMENT] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[PAYMENT] [INFO] payment method created:", method.ID.Hex())
		c.JSON(http.StatusCreated, method)
	}
}

func UpdatePaymentMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		methodID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		var req updatePaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("payment_methods")

		var updated models.PaymentMethod
		err = withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			var method models.PaymentMethod
			if err := coll.FindOne(sessCtx, bson.M{"_id": methodID, "userId": userID}).Decode(&method); err != nil {
				return err
			}

			set := bson.M{"updatedAt": time.Now()}
			if req.ExpMonth != nil {
				set["expMonth"] = *req.ExpMonth
			}
			if req.ExpYear != nil {
				set["expYear"] = *req.ExpYear
			}
			if req.HolderName != nil {
				set["holderName"] = strings.TrimSpace(*req.HolderName)
			}
			if req.Label != nil {
				set["label"] = strings.TrimSpace(*req.Label)
			}

			if req.IsDefault != nil && *req.IsDefault && !method.IsDefault {
				if err := clearDefaults(sessCtx, coll, userID, methodID); err != nil {
					return err
				}
				set["isDefault"] = true
			}

			if _, err := coll.UpdateByID(sessCtx, methodID, bson.M{"$set": set}); err != nil {
				return err
			}
			return coll.FindOne(sessCtx, bson.M{"_id": methodID}).Decode(&updated)
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}
		if err != nil {
			log.Println("[PAYMENT] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[PAYMENT] [INFO] payment method updated:", methodID.Hex())
		c.JSON(http.StatusOK, updated)
	}
}

func DeletePaymentMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		methodID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("payment_methods")

		err = withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			var method models.PaymentMethod
			if err := coll.FindOne(sessCtx, bson.M{"_id": methodID, "userId": userID}).Decode(&method); err != nil {
				return err
			}

			if _, err := coll.DeleteOne(sessCtx, bson.M{"_id": methodID}); err != nil {
				return err
			}

			if method.IsDefault {
				return promoteOldest(sessCtx, coll, userID)
			}
			return nil
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}
		if err != nil {
			log.Println("[PAYMENT] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[PAYMENT] [INFO] payment method deleted:", methodID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "payment method deleted"})
	}
}

func SetDefaultPaymentMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		methodID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("payment_methods")

		var method models.PaymentMethod
		err = withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			if err := coll.FindOne(sessCtx, bson.M{"_id": methodID, "userId": userID}).Err(); err != nil {
				return err
			}
			if err := setDefault(sessCtx, coll, userID, methodID); err != nil {
				return err
			}
			return coll.FindOne(sessCtx, bson.M{"_id": methodID}).Decode(&method)
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}
		if err != nil {
			log.Println("[PAYMENT] [ERROR] set default failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[PAYMENT] [INFO] default payment method set:", methodID.Hex())
		c.JSON(http.StatusOK, method)
	}
}
