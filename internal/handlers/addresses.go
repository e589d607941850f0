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

type createAddressRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	Region     string `json:"region" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}

type updateAddressRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city"`
	Region     *string `json:"region"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
	Phone      *string `json:"phone"`
	IsDefault  *bool   `json:"isDefault"`
}

func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
		cursor, err := db.Collection("addresses").Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			log.Println("[ADDRESS] [ERROR] list failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		addresses := make([]models.Address, 0)
		if err := cursor.All(ctx, &addresses); err != nil {
			log.Println("[ADDRESS] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, addresses)
	}
}

func GetAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var address models.Address
		if err := db.Collection("addresses").FindOne(ctx, bson.M{"_id": addressID, "userId": userID}).Decode(&address); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}

		c.JSON(http.StatusOK, address)
	}
}

func CreateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req createAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("addresses")

		now := time.Now()
		address := models.Address{
			UserID:     userID,
			FirstName:  strings.TrimSpace(req.FirstName),
			LastName:   strings.TrimSpace(req.LastName),
			Line1:      strings.TrimSpace(req.Line1),
			Line2:      strings.TrimSpace(req.Line2),
			City:       strings.TrimSpace(req.City),
			Region:     strings.TrimSpace(req.Region),
			PostalCode: strings.TrimSpace(req.PostalCode),
			Country:    strings.TrimSpace(req.Country),
			Phone:      strings.TrimSpace(req.Phone),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		err := withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			count, err := coll.CountDocuments(sessCtx, bson.M{"userId": userID})
			if err != nil {
				return err
			}

			address.IsDefault = resolveDefaultFlag(count, req.IsDefault)
			if address.IsDefault && count > 0 {
				if err := clearDefaults(sessCtx, coll, userID, primitive.NilObjectID); err != nil {
					return err
				}
			}

			res, err := coll.InsertOne(sessCtx, address)
			if err != nil {
				return err
			}
			address.ID, _ = res.InsertedID.(primitive.ObjectID)
			return nil
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID.Hex())
		c.JSON(http.StatusCreated, address)
	}
}

// addressUpdateFields turns a partial update request into a $set document.
// Required fields reject blank values so a document can never lose them;
// line2 and phone may be cleared. Returned details name the offending fields.
func addressUpdateFields(req updateAddressRequest) (bson.M, []string) {
	set := bson.M{}
	var details []string

	applyRequired := func(field string, value *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			details = append(details, field+" must not be blank")
			return
		}
		set[field] = trimmed
	}
	applyOptional := func(field string, value *string) {
		if value != nil {
			set[field] = strings.TrimSpace(*value)
		}
	}

	applyRequired("firstName", req.FirstName)
	applyRequired("lastName", req.LastName)
	applyRequired("line1", req.Line1)
	applyOptional("line2", req.Line2)
	applyRequired("city", req.City)
	applyRequired("region", req.Region)
	applyRequired("postalCode", req.PostalCode)
	applyRequired("country", req.Country)
	applyOptional("phone", req.Phone)

	return set, details
}

func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
			return
		}

		var req updateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		set, details := addressUpdateFields(req)
		if len(details) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": details})
			return
		}
		set["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("addresses")

		var updated models.Address
		err = withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			var address models.Address
			if err := coll.FindOne(sessCtx, bson.M{"_id": addressID, "userId": userID}).Decode(&address); err != nil {
				return err
			}

			if req.IsDefault != nil && *req.IsDefault && !address.IsDefault {
				if err := clearDefaults(sessCtx, coll, userID, addressID); err != nil {
					return err
				}
				set["isDefault"] = true
			}

			if _, err := coll.UpdateByID(sessCtx, addressID, bson.M{"$set": set}); err != nil {
				return err
			}
			return coll.FindOne(sessCtx, bson.M{"_id": addressID}).Decode(&updated)
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		if err != nil {
			log.Println("[ADDRESS] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address updated:", addressID.Hex())
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("addresses")

		err = withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			var address models.Address
			if err := coll.FindOne(sessCtx, bson.M{"_id": addressID, "userId": userID}).Decode(&address); err != nil {
				return err
			}

			if _, err := coll.DeleteOne(sessCtx, bson.M{"_id": addressID}); err != nil {
				return err
			}

			if address.IsDefault {
				return promoteOldest(sessCtx, coll, userID)
			}
			return nil
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		if err != nil {
			log.Println("[ADDRESS] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address deleted:", addressID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}

func SetDefaultAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("addresses")

		var address models.Address
		err = withTransaction(ctx, db, func(sessCtx mongo.SessionContext) error {
			if err := coll.FindOne(sessCtx, bson.M{"_id": addressID, "userId": userID}).Err(); err != nil {
				return err
			}
			if err := setDefault(sessCtx, coll, userID, addressID); err != nil {
				return err
			}
			return coll.FindOne(sessCtx, bson.M{"_id": addressID}).Decode(&address)
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		if err != nil {
			log.Println("[ADDRESS] [ERROR] set default failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] default address set:", addressID.Hex())
		c.JSON(http.StatusOK, address)
	}
}
