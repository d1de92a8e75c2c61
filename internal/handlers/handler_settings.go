package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/dto"
	"github.com/fairlance/treasury_backend/internal/middleware"
)

// settingsHandler handles HTTP requests for operational settings.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

// newSettingsHandler creates a new settingsHandler.
func newSettingsHandler(settingsService portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{settingsService: settingsService}
}

// getSettings godoc
// @Summary Get a workspace's operational settings
// @Description Retrieves the stored settings, or the documented defaults when none were ever saved
// @Tags settings
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Success 200 {object} dto.SettingsResponse "Settings"
// @Router /workspaces/{workspaceID}/wallet/settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	settings, err := h.settingsService.GetSettings(c.Request.Context(), workspaceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve settings")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}

// updateSettings godoc
// @Summary Replace a workspace's operational settings
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   settings body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} dto.SettingsResponse "Updated settings"
// @Failure 400 {object} map[string]string "Invalid settings"
// @Router /workspaces/{workspaceID}/wallet/settings [put]
func (h *settingsHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), workspaceID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update settings")
		return
	}

	logger.Info("Operational settings updated", slog.String("workspace_id", workspaceID))
	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}

// registerSettingsRoutes registers settings specific routes
func registerSettingsRoutes(group *gin.RouterGroup, settingsService portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(settingsService)

	group.GET("/settings", h.getSettings)
	group.PUT("/settings", h.updateSettings)
}
