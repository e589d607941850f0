package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"email":  "user@example.com",
		"role":   role,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func adminTestRouter(handlerRan *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/admin/products/:id", AdminAuth(testSecret), func(c *gin.Context) {
		*handlerRan = true
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	})
	return r
}

func TestAdminAuthRejectsNonAdminBeforeHandler(t *testing.T) {
	handlerRan := false
	r := adminTestRouter(&handlerRan)

	req := httptest.NewRequest(http.MethodDelete, "/admin/products/abc", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: signTestToken(t, "user")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin user, got %d", w.Code)
	}
	if handlerRan {
		t.Fatal("route handler must not run for a non-admin user")
	}
}

func TestAdminAuthAllowsAdmin(t *testing.T) {
	handlerRan := false
	r := adminTestRouter(&handlerRan)

	req := httptest.NewRequest(http.MethodDelete, "/admin/products/abc", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: signTestToken(t, "admin")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin user, got %d", w.Code)
	}
	if !handlerRan {
		t.Fatal("route handler should run for an admin user")
	}
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	handlerRan := false
	r := adminTestRouter(&handlerRan)

	req := httptest.NewRequest(http.MethodDelete, "/admin/products/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
	if handlerRan {
		t.Fatal("route handler must not run without a token")
	}
}

func TestUserAuthAcceptsBearerHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", UserAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d", w.Code)
	}
}
