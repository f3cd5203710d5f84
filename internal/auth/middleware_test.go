package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"maeum/backend/internal/auth"
	"maeum/backend/internal/config"
	"maeum/backend/internal/database"
	"maeum/backend/internal/testutil"
	"maeum/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func protectedRouter(adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{auth.AuthMiddleware()}
	if adminOnly {
		handlers = append(handlers, auth.AdminMiddleware())
	}
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/protected", handlers...)
	return router
}

func get(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	router := protectedRouter(false)

	token, err := jwt.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := get(router, tc.header); w.Code != tc.want {
				t.Fatalf("code = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	token, err := jwt.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	config.AppConfig = &config.Config{JWTSecret: "rotated-secret"}
	router := protectedRouter(false)
	if w := get(router, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Fatalf("token under old secret = %d, want 401", w.Code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	database.DB = testutil.DB(t)
	router := protectedRouter(true)

	admin := testutil.SeedUser(t, database.DB, "admin", "admin")
	user := testutil.SeedUser(t, database.DB, "member", "user")

	adminToken, err := jwt.GenerateToken(admin.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	userToken, err := jwt.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if w := get(router, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Fatalf("admin = %d, want 200: %s", w.Code, w.Body.String())
	}
	if w := get(router, "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Fatalf("plain user = %d, want 403", w.Code)
	}
}
