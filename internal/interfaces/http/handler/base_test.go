package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/export"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	type payload struct {
		Name string `json:"name" binding:"required"`
	}
	var validationErr error
	v := validator.New()
	v.SetTagName("binding")
	middleware.RegisterValidations(v)
	validationErr = v.Struct(payload{})
	require.Error(t, validationErr)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND", shared.ErrNotFound.Message},
		{"wrapped not found", fmt.Errorf("load invoice: %w", shared.ErrNotFound), http.StatusNotFound, "NOT_FOUND", ""},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS", ""},
		{"not authenticated", shared.ErrNotAuthenticated, http.StatusUnauthorized, "AUTH_REQUIRED", ""},
		{"identifier exhausted", shared.ErrIdentifierExhausted, http.StatusServiceUnavailable, "IDENTIFIER_EXHAUSTED", ""},
		{"invalid family", shared.NewDomainError("INVALID_RATE", "Rate cannot be negative"), http.StatusBadRequest, "INVALID_RATE", "Rate cannot be negative"},
		{"rule violation", shared.NewDomainError("PAID_EXCEEDS_TOTAL", "nope"), http.StatusUnprocessableEntity, "PAID_EXCEEDS_TOTAL", ""},
		{"account locked", shared.NewDomainError("ACCOUNT_LOCKED", "locked"), http.StatusForbidden, "ACCOUNT_LOCKED", ""},
		{"export unavailable", shared.NewDomainError("EXPORT_UNAVAILABLE", "off"), http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", ""},
		{"render timeout", fmt.Errorf("render: %w", export.NewRenderError(export.ErrCodeRenderTimeout, "timed out", context.DeadlineExceeded)), http.StatusGatewayTimeout, "RENDER_TIMEOUT", "timed out"},
		{"render failed", export.NewRenderError(export.ErrCodeRenderFailed, "chrome crashed", errors.New("ws closed")), http.StatusInternalServerError, "RENDER_FAILED", "chrome crashed"},
		{"invalid document", export.NewRenderError(export.ErrCodeInvalidDocument, "no invoice", nil), http.StatusBadRequest, "INVALID_DOCUMENT", ""},
		{"validator errors", validationErr, http.StatusBadRequest, dto.ErrCodeValidation, ""},
		{"store error hides message", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := newRouter(identity.Scope{})
			router.GET("/test", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doJSON(t, router, http.MethodGet, "/test", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotEmpty(t, env.Error.RequestID)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, env.Error.Message)
			}
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestBaseHandler_ScopeAndPathID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("missing scope is 401", func(t *testing.T) {
		router := newRouter(identity.Scope{})
		router.GET("/items/:id", func(c *gin.Context) {
			if _, ok := h.scope(c); ok {
				c.Status(http.StatusOK)
			}
		})
		w := doJSON(t, router, http.MethodGet, "/items/x", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeAuthRequired, decode(t, w).Error.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		router := newRouter(newScope())
		router.GET("/items/:id", func(c *gin.Context) {
			if _, ok := h.pathID(c, "id"); ok {
				c.Status(http.StatusOK)
			}
		})
		w := doJSON(t, router, http.MethodGet, "/items/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
	})
}

func TestPageOf(t *testing.T) {
	page, size := pageOf(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = pageOf(3, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)
}
