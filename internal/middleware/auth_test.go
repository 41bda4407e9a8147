package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nordhaul/pickup-coordinator/internal/config"
)

func authedRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/secret", AuthMiddleware(cfg), func(c *gin.Context) {
		id, _ := c.Get(ContextUserID)
		role, _ := c.Get(ContextUserRole)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := authedRouter(t, cfg)

	get := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/secret", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing header", func(t *testing.T) {
		if w := get(""); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("not bearer", func(t *testing.T) {
		if w := get("Basic abc"); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"sub": 1.0})
		if w := get("Bearer " + token); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": 1.0,
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		if w := get("Bearer " + token); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("valid", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub":  7.0,
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		w := get("Bearer " + token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})
}
