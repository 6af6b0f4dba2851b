package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRouter(h *HealthHandler) *gin.Engine {
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/health/live", h.Live)
	router.GET("/health/ready", h.Ready)
	return router
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	t.Run("all checks pass", func(t *testing.T) {
		router := healthRouter(NewHealthHandler("1.2.3", map[string]ReadinessCheck{"database": ok, "redis": ok}))

		w := doJSON(t, router, http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeData[HealthResponse](t, w)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.NotEmpty(t, resp.GoVersion)
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, resp.Checks)
	})

	t.Run("failing check makes the service unready", func(t *testing.T) {
		router := healthRouter(NewHealthHandler("1.2.3", map[string]ReadinessCheck{"database": ok, "redis": down}))

		w := doJSON(t, router, http.MethodGet, "/health/ready", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "unavailable", resp.Status)
		assert.Equal(t, "unavailable", resp.Checks["redis"])
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("liveness ignores dependencies", func(t *testing.T) {
		router := healthRouter(NewHealthHandler("1.2.3", map[string]ReadinessCheck{"redis": down}))

		w := doJSON(t, router, http.MethodGet, "/health/live", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("check receives a deadline", func(t *testing.T) {
		var hadDeadline bool
		probe := func(ctx context.Context) error {
			_, hadDeadline = ctx.Deadline()
			return nil
		}
		router := healthRouter(NewHealthHandler("", map[string]ReadinessCheck{"probe": probe}))

		w := doJSON(t, router, http.MethodGet, "/health/ready", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hadDeadline)
	})
}
