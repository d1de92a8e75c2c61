package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/middleware"
)

// overviewHandler handles HTTP requests for the treasury overview.
type overviewHandler struct {
	overviewService portssvc.OverviewSvc
}

// newOverviewHandler creates a new overviewHandler.
func newOverviewHandler(overviewService portssvc.OverviewSvc) *overviewHandler {
	return &overviewHandler{overviewService: overviewService}
}

// getOverview godoc
// @Summary Get the treasury overview
// @Description Assembles the read-only treasury snapshot for a workspace: totals, pending payouts, currency breakdown, net flows, alerts and compliance posture
// @Tags overview
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Success 200 {object} domain.OverviewSnapshot "Overview snapshot"
// @Failure 403 {object} map[string]string "Actor is not a wallet operator"
// @Router /workspaces/{workspaceID}/wallet/overview [get]
func (h *overviewHandler) getOverview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.overviewService.GetOverview(c.Request.Context(), workspaceID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build treasury overview")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// registerOverviewRoutes registers overview specific routes
func registerOverviewRoutes(group *gin.RouterGroup, overviewService portssvc.OverviewSvc) {
	h := newOverviewHandler(overviewService)

	group.GET("/overview", h.getOverview)
}
