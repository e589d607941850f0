package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront-backend/internal/mailer"
	"storefront-backend/internal/models"
)

const resetTokenTTL = time.Hour

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateResetToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

func resetMailBody(baseURL, token string) string {
	return fmt.Sprintf(
		"We received a request to reset your password.\r\n\r\n"+
			"Open the link below within one hour to choose a new one:\r\n%s/reset-password?token=%s\r\n\r\n"+
			"If you did not request this, you can ignore this message.",
		baseURL, token,
	)
}

func ForgotPassword(db *mongo.Database, mail mailer.Mailer, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "unable to process request"})
				return
			}
			log.Println("[RESET] [ERROR] user lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if user.PasswordHash == "" {
			// OAuth-only account, nothing to reset.
			c.JSON(http.StatusBadRequest, gin.H{"error": "password reset is not available for this account"})
			return
		}

		plain := generateResetToken()
		if plain == "" {
			log.Println("[RESET] [ERROR] token generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		tokens := db.Collection("password_reset_tokens")

		// Supersede outstanding tokens so only the newest one works.
		if _, err := tokens.DeleteMany(ctx, bson.M{"email": email}); err != nil {
			log.Println("[RESET] [ERROR] token cleanup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		record := models.PasswordResetToken{
			Email:     email,
			TokenHash: hashToken(plain),
			ExpiresAt: time.Now().Add(resetTokenTTL),
			CreatedAt: time.Now(),
		}

		res, err := tokens.InsertOne(ctx, record)
		if err != nil {
			log.Println("[RESET] [ERROR] token insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := mail.Send(email, "Reset your password", resetMailBody(baseURL, plain)); err != nil {
			log.Println("[RESET] [ERROR] reset mail failed:", err)
			// Remove the record so no credential exists that was never
			// delivered. A slow send may have exhausted the request
			// deadline, so the rollback gets its own context.
			rollbackCtx, rollbackCancel := context.WithTimeout(context.Background(), 5*time.Second)
			if _, delErr := tokens.DeleteOne(rollbackCtx, bson.M{"_id": res.InsertedID}); delErr != nil {
				log.Println("[RESET] [ERROR] token rollback failed:", delErr)
			}
			rollbackCancel()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send reset email"})
			return
		}

		log.Println("[RESET] [INFO] reset token issued for:", email)
		c.JSON(http.StatusOK, gin.H{"message": "password reset email sent"})
	}
}

func ResetPassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		plain := strings.TrimSpace(req.Token)
		if plain == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		tokens := db.Collection("password_reset_tokens")

		var record models.PasswordResetToken
		if err := tokens.FindOne(ctx, bson.M{"tokenHash": hashToken(plain)}).Decode(&record); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
			return
		}

		if time.Now().After(record.ExpiresAt) {
			_, _ = tokens.DeleteOne(ctx, bson.M{"_id": record.ID})
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[RESET] [ERROR] password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		res, err := db.Collection("users").UpdateOne(ctx, bson.M{"email": record.Email}, bson.M{
			"$set": bson.M{
				"passwordHash": string(hash),
				"updatedAt":    time.Now(),
			},
		})
		if err != nil {
			log.Println("[RESET] [ERROR] password update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
			return
		}

		// Single use.
		_, _ = tokens.DeleteOne(ctx, bson.M{"_id": record.ID})

		log.Println("[RESET] [INFO] password reset for:", record.Email)
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}
