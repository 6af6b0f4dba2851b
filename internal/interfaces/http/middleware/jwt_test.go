package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/infrastructure/auth"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(cfg JWTMiddlewareConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddleware(cfg))
	router.GET("/test", handler)
	return router
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newTestTokenPair(t, jwtService)

	var seen *auth.Claims
	var sessionID string
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: jwtService}, func(c *gin.Context) {
		seen, _ = auth.ClaimsFromContext(c.Request.Context())
		sessionID = auth.SessionIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, input.UserID.String(), seen.UserID)
	assert.Equal(t, input.TenantID.String(), seen.TenantID)
	assert.Equal(t, "sess-1", sessionID)
}

func TestJWTAuthMiddleware_NoCredentialsPassesThrough(t *testing.T) {
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: newTestJWTService()}, func(c *gin.Context) {
		_, ok := auth.ClaimsFromContext(c.Request.Context())
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_SessionHeader(t *testing.T) {
	cfg := JWTMiddlewareConfig{JWTService: newTestJWTService(), AllowSessionHeader: true}

	var sessionID string
	router := newAuthRouter(cfg, func(c *gin.Context) {
		sessionID = auth.SessionIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(SessionHeader, "sess-from-header")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-from-header", sessionID)

	t.Run("ignored when not allowed", func(t *testing.T) {
		cfg.AllowSessionHeader = false
		router := newAuthRouter(cfg, func(c *gin.Context) {
			assert.Empty(t, auth.SessionIDFromContext(c.Request.Context()))
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"malformed header", "Token abc", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token used as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}

	router := newAuthRouter(JWTMiddlewareConfig{JWTService: jwtService}, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService)
	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	revocations := auth.NewMemoryRevocationList()
	require.NoError(t, revocations.Revoke(context.Background(), claims.ID, time.Minute))

	router := newAuthRouter(JWTMiddlewareConfig{JWTService: jwtService, Revocations: revocations}, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeResponse(t, w).Error.Code)
}
