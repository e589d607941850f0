package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthCookieName is the HTTP-only session cookie set by signin.
const AuthCookieName = "auth-token"

// tokenFromRequest prefers the session cookie and falls back to a Bearer
// header for non-browser clients.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func parseClaims(raw, secret string) (jwt.MapClaims, bool) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// authenticate validates the session token and injects userId and role into
// the request context. It aborts with 401 and returns false on failure; it
// never advances the handler chain, so callers decide when to c.Next().
func authenticate(c *gin.Context, secret string) bool {
	raw := tokenFromRequest(c)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return false
	}

	claims, ok := parseClaims(raw, secret)
	if !ok {
		log.Println("[AUTH] [ERROR] token validation failed")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		log.Println("[AUTH] [ERROR] userId claim missing")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		log.Println("[AUTH] [ERROR] invalid userId claim")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}

	role, _ := claims["role"].(string)

	c.Set("userId", userID)
	c.Set("role", role)
	return true
}

// UserAuth validates the session token and injects userId and role into the
// request context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

// AdminAuth allows only authenticated users carrying the admin role. The
// role check happens before the chain advances, so the route handler never
// runs for a non-admin.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}

		role, _ := c.Get("role")
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
