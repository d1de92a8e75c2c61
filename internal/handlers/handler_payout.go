package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/dto"
	"github.com/fairlance/treasury_backend/internal/middleware"
)

// payoutHandler handles HTTP requests related to payout requests.
type payoutHandler struct {
	payoutService portssvc.PayoutSvcFacade
}

// newPayoutHandler creates a new payoutHandler.
func newPayoutHandler(payoutService portssvc.PayoutSvcFacade) *payoutHandler {
	return &payoutHandler{payoutService: payoutService}
}

// createPayout godoc
// @Summary Open a payout request
// @Description Registers a payout request in pending_review against an active wallet account
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   payout body dto.CreatePayoutRequest true "Payout details"
// @Success 201 {object} dto.PayoutResponse "Created payout"
// @Failure 422 {object} map[string]string "Amount exceeds available balance"
// @Router /workspaces/{workspaceID}/wallet/payouts [post]
func (h *payoutHandler) createPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	var req dto.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPayout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payout, err := h.payoutService.CreatePayout(c.Request.Context(), workspaceID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payout request")
		return
	}

	logger.Info("Payout request created", slog.String("payout_id", payout.PayoutID))
	c.JSON(http.StatusCreated, dto.ToPayoutResponse(payout))
}

// getPayout godoc
// @Summary Get a payout request
// @Tags payouts
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   payoutID path string true "Payout ID"
// @Success 200 {object} dto.PayoutResponse "Payout"
// @Failure 404 {object} map[string]string "Payout not found"
// @Router /workspaces/{workspaceID}/wallet/payouts/{payoutID} [get]
func (h *payoutHandler) getPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	payoutID := c.Param("payoutID")

	payout, err := h.payoutService.GetPayoutByID(c.Request.Context(), workspaceID, payoutID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payout")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// listPayouts godoc
// @Summary List a workspace's payout requests
// @Description Retrieves a page of payouts, newest request first, optionally filtered by status
// @Tags payouts
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   status query []string false "Status filter" collectionFormat(multi)
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListPayoutsResponse "Page of payouts"
// @Router /workspaces/{workspaceID}/wallet/payouts [get]
func (h *payoutHandler) listPayouts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	var params dto.ListPayoutsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listPayouts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	statuses := make([]domain.PayoutStatus, len(params.Status))
	for i, s := range params.Status {
		statuses[i] = domain.PayoutStatus(s)
	}

	payouts, nextToken, err := h.payoutService.ListPayouts(c.Request.Context(), workspaceID, statuses, params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payouts")
		return
	}

	c.JSON(http.StatusOK, dto.ListPayoutsResponse{
		Payouts:   dto.ToPayoutResponses(payouts),
		NextToken: nextToken,
	})
}

// listPayoutEvents godoc
// @Summary Get a payout's transition trail
// @Description Retrieves every recorded status transition of a payout, oldest first
// @Tags payouts
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   payoutID path string true "Payout ID"
// @Success 200 {array} dto.PayoutEventResponse "Events"
// @Failure 404 {object} map[string]string "Payout not found"
// @Router /workspaces/{workspaceID}/wallet/payouts/{payoutID}/events [get]
func (h *payoutHandler) listPayoutEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	payoutID := c.Param("payoutID")

	events, err := h.payoutService.ListPayoutEvents(c.Request.Context(), workspaceID, payoutID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payout events")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayoutEventResponses(events))
}

// review dispatches the shared body-bind and actor plumbing of the approve,
// reject and cancel endpoints.
func (h *payoutHandler) review(c *gin.Context, action string,
	call func(ctx *gin.Context, workspaceID, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	payoutID := c.Param("payoutID")

	var req dto.ReviewPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for payout review", slog.String("error", err.Error()), slog.String("action", action))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payout, err := call(c, workspaceID, payoutID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to "+action+" payout")
		return
	}

	logger.Info("Payout "+action+"ed", slog.String("payout_id", payoutID), slog.String("status", string(payout.Status)))
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// approvePayout godoc
// @Summary Approve a payout request
// @Description Moves a pending payout to approved and places a hold on the source account
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   payoutID path string true "Payout ID"
// @Param   review body dto.ReviewPayoutRequest true "Optional reason"
// @Success 200 {object} dto.PayoutResponse "Approved payout"
// @Failure 403 {object} map[string]string "Dual control forbids self-review"
// @Failure 409 {object} map[string]string "Payout is not pending review"
// @Router /workspaces/{workspaceID}/wallet/payouts/{payoutID}/approve [post]
func (h *payoutHandler) approvePayout(c *gin.Context) {
	h.review(c, "approve", func(ctx *gin.Context, workspaceID, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error) {
		return h.payoutService.ApprovePayout(ctx.Request.Context(), workspaceID, payoutID, req, actor)
	})
}

// rejectPayout godoc
// @Summary Reject a payout request
// @Description Moves a payout to rejected; a reason is mandatory
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   payoutID path string true "Payout ID"
// @Param   review body dto.ReviewPayoutRequest true "Reason"
// @Success 200 {object} dto.PayoutResponse "Rejected payout"
// @Failure 400 {object} map[string]string "Reason missing"
// @Router /workspaces/{workspaceID}/wallet/payouts/{payoutID}/reject [post]
func (h *payoutHandler) rejectPayout(c *gin.Context) {
	h.review(c, "reject", func(ctx *gin.Context, workspaceID, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error) {
		return h.payoutService.RejectPayout(ctx.Request.Context(), workspaceID, payoutID, req, actor)
	})
}

// cancelPayout godoc
// @Summary Cancel a payout request
// @Description Moves a pending payout to cancelled
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   payoutID path string true "Payout ID"
// @Param   review body dto.ReviewPayoutRequest true "Optional reason"
// @Success 200 {object} dto.PayoutResponse "Cancelled payout"
// @Failure 409 {object} map[string]string "Payout is not pending review"
// @Router /workspaces/{workspaceID}/wallet/payouts/{payoutID}/cancel [post]
func (h *payoutHandler) cancelPayout(c *gin.Context) {
	h.review(c, "cancel", func(ctx *gin.Context, workspaceID, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error) {
		return h.payoutService.CancelPayout(ctx.Request.Context(), workspaceID, payoutID, req, actor)
	})
}

// settlePayout godoc
// @Summary Settle an approved payout
// @Description Hands the payout to the settlement provider. On success the hold is released, the account debited and the payout marked processed. On provider failure the payout requeues for review or is rejected past the retry ceiling.
// @Tags payouts
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   payoutID path string true "Payout ID"
// @Success 200 {object} dto.PayoutResponse "Settled payout"
// @Failure 409 {object} map[string]string "Payout is not approved"
// @Failure 502 {object} dto.PayoutResponse "Provider failure; payout requeued or rejected"
// @Router /workspaces/{workspaceID}/wallet/payouts/{payoutID}/settle [post]
func (h *payoutHandler) settlePayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	payoutID := c.Param("payoutID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payout, err := h.payoutService.SettlePayout(c.Request.Context(), workspaceID, payoutID, actor)
	if err != nil {
		// A provider failure still hands back the requeued or rejected
		// payout so the caller sees where it landed.
		if payout != nil {
			logger.Warn("Settlement failed at provider",
				slog.String("payout_id", payoutID), slog.String("status", string(payout.Status)))
			c.JSON(http.StatusBadGateway, dto.ToPayoutResponse(payout))
			return
		}
		respondServiceError(c, logger, err, "Failed to settle payout")
		return
	}

	logger.Info("Payout settled", slog.String("payout_id", payoutID))
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// registerPayoutRoutes registers payout specific routes
func registerPayoutRoutes(group *gin.RouterGroup, payoutService portssvc.PayoutSvcFacade) {
	h := newPayoutHandler(payoutService)

	payouts := group.Group("/payouts")
	{
		payouts.POST("", h.createPayout)
		payouts.GET("", h.listPayouts)
		payouts.GET("/:payoutID", h.getPayout)
		payouts.GET("/:payoutID/events", h.listPayoutEvents)
		payouts.POST("/:payoutID/approve", h.approvePayout)
		payouts.POST("/:payoutID/reject", h.rejectPayout)
		payouts.POST("/:payoutID/cancel", h.cancelPayout)
		payouts.POST("/:payoutID/settle", h.settlePayout)
	}
}
