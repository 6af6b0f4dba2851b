package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/interfaces/http/dto"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]ReadinessCheck
	timeout   time.Duration
}

// NewHealthHandler creates a HealthHandler running checks on readiness probes
func NewHealthHandler(version string, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		timeout:   2 * time.Second,
	}
}

// HealthResponse describes the running service
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Version   string            `json:"version,omitempty" example:"1.0.0"`
	GoVersion string            `json:"go_version,omitempty" example:"go1.25.5"`
	Uptime    string            `json:"uptime,omitempty" example:"1h30m45s"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @ID           getHealth
// @Summary      Service health
// @Description  Version, uptime and dependency status
// @Tags         health
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp, ready := h.runChecks(c.Request.Context())
	resp.Version = h.version
	resp.GoVersion = runtime.Version()
	resp.Uptime = time.Since(h.startTime).Round(time.Second).String()
	h.respond(c, resp, ready)
}

// Live godoc
// @ID           getHealthLive
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Router       /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	h.Success(c, HealthResponse{Status: "ok"})
}

// Ready godoc
// @ID           getHealthReady
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	resp, ready := h.runChecks(c.Request.Context())
	h.respond(c, resp, ready)
}

func (h *HealthHandler) runChecks(ctx context.Context) (HealthResponse, bool) {
	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	ready := true

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := h.checks[name](checkCtx)
		cancel()
		if err != nil {
			resp.Checks[name] = "unavailable"
			ready = false
			continue
		}
		resp.Checks[name] = "ok"
	}
	if !ready {
		resp.Status = "unavailable"
	}
	return resp, ready
}

func (h *HealthHandler) respond(c *gin.Context, resp HealthResponse, ready bool) {
	if !ready {
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}
