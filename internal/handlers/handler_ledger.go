package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/dto"
	"github.com/fairlance/treasury_backend/internal/middleware"
)

// ledgerHandler handles HTTP requests related to ledger entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// appendEntry godoc
// @Summary Append a ledger entry
// @Description Records a credit, debit, hold, release or adjustment against an account. Replaying a reference returns the original entry.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   accountID path string true "Account ID"
// @Param   entry body dto.AppendEntryRequest true "Entry details"
// @Success 201 {object} dto.LedgerEntryResponse "Recorded entry"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} map[string]string "Entry violates a balance rule"
// @Router /workspaces/{workspaceID}/wallet/accounts/{accountID}/entries [post]
func (h *ledgerHandler) appendEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	var req dto.AppendEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for appendEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	req.AccountID = c.Param("accountID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.AppendEntry(c.Request.Context(), workspaceID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to append ledger entry")
		return
	}

	logger.Info("Ledger entry appended",
		slog.String("entry_id", entry.EntryID),
		slog.String("account_id", entry.AccountID),
		slog.String("entry_type", string(entry.EntryType)))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// listEntries godoc
// @Summary List an account's ledger entries
// @Description Retrieves a page of entries, newest first, with an opaque continuation token
// @Tags ledger
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Continuation token"
// @Param   since query string false "Lower bound, RFC 3339"
// @Param   until query string false "Upper bound, RFC 3339"
// @Success 200 {object} dto.ListEntriesResponse "Page of entries"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /workspaces/{workspaceID}/wallet/accounts/{accountID}/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	accountID := c.Param("accountID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filter, err := parseEntriesFilter(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, nextToken, err := h.ledgerService.ListEntries(c.Request.Context(), workspaceID, accountID, params.Limit, params.NextToken, filter)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list ledger entries")
		return
	}

	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	})
}

func parseEntriesFilter(params dto.ListEntriesParams) (portsrepo.ListEntriesFilter, error) {
	var filter portsrepo.ListEntriesFilter
	if params.Since != nil && *params.Since != "" {
		since, err := time.Parse(time.RFC3339, *params.Since)
		if err != nil {
			return filter, err
		}
		filter.Since = &since
	}
	if params.Until != nil && *params.Until != "" {
		until, err := time.Parse(time.RFC3339, *params.Until)
		if err != nil {
			return filter, err
		}
		filter.Until = &until
	}
	return filter, nil
}

// registerLedgerRoutes registers ledger specific routes
func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	group.POST("/accounts/:accountID/entries", h.appendEntry)
	group.GET("/accounts/:accountID/entries", h.listEntries)
}
