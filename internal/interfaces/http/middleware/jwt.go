package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/infrastructure/auth"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys and headers
const (
	JWTClaimsKey    = "jwt_claims"
	AuthHeaderKey   = "Authorization"
	SessionHeader   = "X-Session-ID"
	BearerPrefix    = "Bearer "
	sessionIDMaxLen = 128
)

// JWTMiddlewareConfig holds configuration for the authentication middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Revocations rejects tokens revoked at logout; optional
	Revocations auth.RevocationList
	// AllowSessionHeader accepts a bare X-Session-ID when no bearer token is sent
	AllowSessionHeader bool
	Logger             *zap.Logger
}

// JWTAuthMiddleware validates the bearer token, if any, and places its claims
// and session id on the request context. It does not require a caller; pair
// it with RequireScope for protected routes.
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		authHeader := c.GetHeader(AuthHeaderKey)

		if authHeader == "" {
			if cfg.AllowSessionHeader {
				if sid := strings.TrimSpace(c.GetHeader(SessionHeader)); sid != "" && len(sid) <= sessionIDMaxLen {
					c.Request = c.Request.WithContext(auth.WithSessionID(ctx, sid))
				}
			}
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortAuth(c, cfg.Logger, auth.ErrInvalidToken)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			abortAuth(c, cfg.Logger, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortAuth(c, cfg.Logger, err)
			return
		}

		if cfg.Revocations != nil && claims.ID != "" {
			revoked, err := cfg.Revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				// fail open: an unreachable revocation store must not lock everyone out
				cfg.Logger.Error("Failed to check token revocation",
					zap.String("jti", claims.ID),
					zap.Error(err))
			} else if revoked {
				abortAuth(c, cfg.Logger, auth.ErrTokenRevoked)
				return
			}
		}

		ctx = auth.WithClaims(ctx, claims)
		if claims.SessionID != "" {
			ctx = auth.WithSessionID(ctx, claims.SessionID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(JWTClaimsKey, claims)

		c.Next()
	}
}

func abortAuth(c *gin.Context, logger *zap.Logger, err error) {
	code, message := dto.ErrCodeTokenInvalid, "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidTokenType):
		message = "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	}

	logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path))

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}
