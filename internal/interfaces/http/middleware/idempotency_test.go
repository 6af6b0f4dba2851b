package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/cache"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingStore) Release(context.Context, string) error { return nil }
func (failingStore) Close() error                          { return nil }

func newIdempotentRouter(store shared.IdempotencyStore, tenant uuid.UUID, status *int) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ScopeKey, identity.Scope{TenantID: tenant, UserID: tenant})
		c.Next()
	})
	router.POST("/invoices", Idempotency(store, time.Hour, nil), func(c *gin.Context) {
		c.Status(*status)
	})
	return router
}

func postWithKey(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplayRejected(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()
	status := http.StatusCreated
	router := newIdempotentRouter(store, uuid.New(), &status)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "key-1").Code)

	w := postWithKey(router, "key-1")
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeDuplicateRequest, resp.Error.Code)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "key-2").Code)
}

func TestIdempotency_KeysArePerTenant(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()
	status := http.StatusCreated

	assert.Equal(t, http.StatusCreated, postWithKey(newIdempotentRouter(store, uuid.New(), &status), "shared").Code)
	assert.Equal(t, http.StatusCreated, postWithKey(newIdempotentRouter(store, uuid.New(), &status), "shared").Code)
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()
	status := http.StatusUnprocessableEntity
	router := newIdempotentRouter(store, uuid.New(), &status)

	assert.Equal(t, http.StatusUnprocessableEntity, postWithKey(router, "retry-me").Code)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, postWithKey(router, "retry-me").Code)
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()
	status := http.StatusCreated
	router := newIdempotentRouter(store, uuid.New(), &status)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
	assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
	assert.Equal(t, 0, store.Size())
}

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	status := http.StatusCreated
	router := newIdempotentRouter(failingStore{}, uuid.New(), &status)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "k").Code)
	assert.Equal(t, http.StatusCreated, postWithKey(router, "k").Code)
}
