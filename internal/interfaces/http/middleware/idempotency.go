package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyHeader names the client-chosen key for a create request
const IdempotencyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// Idempotency rejects a replayed Idempotency-Key with 409 DUPLICATE_REQUEST.
// Keys are claimed per tenant for ttl; a request that fails with a 4xx/5xx
// releases its key so the client can retry. Requests without the header
// pass through. Must run after RequireScope.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if key == "" || store == nil {
			c.Next()
			return
		}
		requestID := c.GetString(RequestIDKey)
		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Idempotency-Key is too long", requestID))
			return
		}

		scope, ok := GetScope(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeAuthRequired, "Authentication required", requestID))
			return
		}

		storeKey := scope.TenantID.String() + ":" + c.FullPath() + ":" + key
		ctx := c.Request.Context()
		claimed, err := store.Claim(ctx, storeKey, ttl)
		if err != nil {
			// without the store we cannot tell a replay apart; let the request through
			log.Error("Idempotency claim failed", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, shared.ErrDuplicateRequest.Message, requestID))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, storeKey); err != nil {
				log.Warn("Idempotency release failed", zap.Error(err))
			}
		}
	}
}
