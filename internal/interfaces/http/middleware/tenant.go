package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ScopeKey holds the resolved identity.Scope in gin.Context
const ScopeKey = "tenant_scope"

// RequireScope resolves the caller's tenant and principal. Requests without
// a token principal or a live session are rejected before any handler runs,
// so no store query is ever issued without a tenant.
func RequireScope(resolver *identity.TenantResolver, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		scope, err := resolver.ResolveScope(c.Request.Context())
		if err != nil {
			requestID := c.GetString(RequestIDKey)
			if errors.Is(err, shared.ErrNotAuthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeAuthRequired, "Authentication required", requestID))
				return
			}
			if de, ok := shared.IsDomainError(err); ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponseWithRequestID(de.Code, de.Message, requestID))
				return
			}
			log.Error("Tenant resolution failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
			return
		}

		c.Set(ScopeKey, scope)
		ctx := logger.WithScope(c.Request.Context(), scope.TenantID.String(), scope.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetScope returns the scope resolved by RequireScope
func GetScope(c *gin.Context) (identity.Scope, bool) {
	v, ok := c.Get(ScopeKey)
	if !ok {
		return identity.Scope{}, false
	}
	scope, ok := v.(identity.Scope)
	return scope, ok && !scope.IsZero()
}

// GetTenantID returns the resolved tenant id, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	scope, _ := GetScope(c)
	return scope.TenantID
}
