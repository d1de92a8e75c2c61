package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
	"github.com/fairlance/treasury_backend/internal/dto"
	"github.com/fairlance/treasury_backend/internal/middleware"
)

// walletHandler handles HTTP requests related to wallet accounts.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(walletService portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{walletService: walletService}
}

// createAccount godoc
// @Summary Register a wallet account
// @Description Registers a new wallet account in pending status, or returns the existing account for the same owner, type and currency
// @Tags wallet-accounts
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   account body dto.CreateWalletAccountRequest true "Account details"
// @Success 201 {object} dto.WalletAccountResponse "Created account"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 403 {object} map[string]string "Actor is not a wallet operator"
// @Router /workspaces/{workspaceID}/wallet/accounts [post]
func (h *walletHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	var req dto.CreateWalletAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.walletService.CreateAccount(c.Request.Context(), workspaceID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create wallet account")
		return
	}

	logger.Info("Wallet account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToWalletAccountResponse(account))
}

// getAccount godoc
// @Summary Get a wallet account
// @Description Retrieves a wallet account with its balance snapshot
// @Tags wallet-accounts
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.WalletAccountResponse "Account"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /workspaces/{workspaceID}/wallet/accounts/{accountID} [get]
func (h *walletHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	accountID := c.Param("accountID")

	account, err := h.walletService.GetAccountByID(c.Request.Context(), workspaceID, accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve wallet account")
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletAccountResponse(account))
}

// listAccounts godoc
// @Summary List a workspace's wallet accounts
// @Tags wallet-accounts
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Success 200 {object} dto.ListWalletAccountsResponse "Accounts"
// @Router /workspaces/{workspaceID}/wallet/accounts [get]
func (h *walletHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")

	accounts, err := h.walletService.ListAccounts(c.Request.Context(), workspaceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list wallet accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListWalletAccountsResponse{Accounts: dto.ToListWalletAccountResponse(accounts)})
}

// changeAccountStatus godoc
// @Summary Change a wallet account's status
// @Description Moves an account through its lifecycle (pending, active, suspended, closed)
// @Tags wallet-accounts
// @Accept  json
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   accountID path string true "Account ID"
// @Param   status body dto.ChangeAccountStatusRequest true "Target status"
// @Success 200 {object} dto.WalletAccountResponse "Updated account"
// @Failure 409 {object} map[string]string "Illegal transition"
// @Router /workspaces/{workspaceID}/wallet/accounts/{accountID}/status [put]
func (h *walletHandler) changeAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	accountID := c.Param("accountID")

	var req dto.ChangeAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for changeAccountStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.walletService.ChangeAccountStatus(c.Request.Context(), workspaceID, accountID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to change account status")
		return
	}

	logger.Info("Wallet account status changed",
		slog.String("account_id", accountID), slog.String("status", string(account.Status)))
	c.JSON(http.StatusOK, dto.ToWalletAccountResponse(account))
}

// reconcileAccount godoc
// @Summary Reconcile a wallet account
// @Description Replays the account's full ledger and compares the result against the stored balances
// @Tags wallet-accounts
// @Produce  json
// @Param   workspaceID path string true "Workspace ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.ReconciliationResponse "Reconciliation report"
// @Failure 409 {object} dto.ReconciliationResponse "Divergence found"
// @Router /workspaces/{workspaceID}/wallet/accounts/{accountID}/reconcile [post]
func (h *walletHandler) reconcileAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspaceID")
	accountID := c.Param("accountID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.walletService.Reconcile(c.Request.Context(), workspaceID, accountID, actor)
	if err != nil {
		// A divergence still carries the full report; surface it with the
		// conflict status instead of a bare error string.
		if report != nil && errors.Is(err, apperrors.ErrReconciliation) {
			logger.Warn("Reconciliation divergence", slog.String("account_id", accountID))
			c.JSON(http.StatusConflict, dto.ToReconciliationResponse(report))
			return
		}
		respondServiceError(c, logger, err, "Failed to reconcile wallet account")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(report))
}

// registerWalletRoutes registers wallet account specific routes
func registerWalletRoutes(group *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID/status", h.changeAccountStatus)
		accounts.POST("/:accountID/reconcile", h.reconcileAccount)
	}
}
