package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicer/backend/internal/application/settings"
	"github.com/invoicer/backend/internal/interfaces/http/middleware"
)

// SettingsHandler serves the caller's tenant settings
type SettingsHandler struct {
	BaseHandler
	settingsService *settings.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get godoc
// @ID           getSettings
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[settings.SettingsResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	result, err := h.settingsService.Get(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Save godoc
// @ID           saveSettings
// @Summary      Save settings
// @Description  Upserts settings; omitted blocks keep their stored value
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body  settings.SaveSettingsRequest  true  "Settings"
// @Success      200 {object} APIResponse[settings.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) Save(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req settings.SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.settingsService.Save(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
