package dto

import (
	"time"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWalletAccountRequest defines the data needed to register a wallet account.
type CreateWalletAccountRequest struct {
	OwnerID      string             `json:"ownerID" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=user freelancer company agency"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	ProviderKey  string             `json:"providerKey" binding:"required"`
}

// ChangeAccountStatusRequest defines the data for a status transition.
type ChangeAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=pending active suspended closed"`
	Reason string               `json:"reason"` // Optional context, recorded in logs only
}

// WalletAccountResponse defines the data returned for a wallet account.
// Mirrors domain.WalletAccount.
type WalletAccountResponse struct {
	AccountID          string               `json:"accountID"`
	WorkspaceID        string               `json:"workspaceID"`
	OwnerID            string               `json:"ownerID"`
	AccountType        domain.AccountType   `json:"accountType"`
	CurrencyCode       string               `json:"currencyCode"`
	ProviderKey        string               `json:"providerKey"`
	Status             domain.AccountStatus `json:"status"`
	CurrentBalance     decimal.Decimal      `json:"currentBalance"`
	AvailableBalance   decimal.Decimal      `json:"availableBalance"`
	PendingHoldBalance decimal.Decimal      `json:"pendingHoldBalance"`
	CreatedAt          time.Time            `json:"createdAt"`
	CreatedBy          string               `json:"createdBy"`
	LastUpdatedAt      time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy      string               `json:"lastUpdatedBy"`
}

// ToWalletAccountResponse converts a domain.WalletAccount to its response DTO.
func ToWalletAccountResponse(acc *domain.WalletAccount) WalletAccountResponse {
	return WalletAccountResponse{
		AccountID:          acc.AccountID,
		WorkspaceID:        acc.WorkspaceID,
		OwnerID:            acc.OwnerID,
		AccountType:        acc.AccountType,
		CurrencyCode:       acc.CurrencyCode,
		ProviderKey:        acc.ProviderKey,
		Status:             acc.Status,
		CurrentBalance:     acc.CurrentBalance,
		AvailableBalance:   acc.AvailableBalance,
		PendingHoldBalance: acc.PendingHoldBalance,
		CreatedAt:          acc.CreatedAt,
		CreatedBy:          acc.CreatedBy,
		LastUpdatedAt:      acc.LastUpdatedAt,
		LastUpdatedBy:      acc.LastUpdatedBy,
	}
}

// ToListWalletAccountResponse converts a slice of domain accounts to DTOs.
func ToListWalletAccountResponse(accounts []domain.WalletAccount) []WalletAccountResponse {
	res := make([]WalletAccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToWalletAccountResponse(&acc)
	}
	return res
}

// ListWalletAccountsResponse wraps the list of accounts.
type ListWalletAccountsResponse struct {
	Accounts []WalletAccountResponse `json:"accounts"`
}

// ReconciliationResponse reports the outcome of a ledger replay.
type ReconciliationResponse struct {
	AccountID           string          `json:"accountID"`
	Consistent          bool            `json:"consistent"`
	CachedCurrent       decimal.Decimal `json:"cachedCurrent"`
	ReplayedCurrent     decimal.Decimal `json:"replayedCurrent"`
	CachedPendingHold   decimal.Decimal `json:"cachedPendingHold"`
	ReplayedPendingHold decimal.Decimal `json:"replayedPendingHold"`
	FirstBadEntryID     string          `json:"firstBadEntryID,omitempty"`
	EntryCount          int             `json:"entryCount"`
}

// ToReconciliationResponse converts a domain report to its response DTO.
func ToReconciliationResponse(r *domain.ReconciliationReport) ReconciliationResponse {
	return ReconciliationResponse{
		AccountID:           r.AccountID,
		Consistent:          r.Consistent,
		CachedCurrent:       r.CachedCurrent,
		ReplayedCurrent:     r.ReplayedCurrent,
		CachedPendingHold:   r.CachedPendingHold,
		ReplayedPendingHold: r.ReplayedPendingHold,
		FirstBadEntryID:     r.FirstBadEntryID,
		EntryCount:          r.EntryCount,
	}
}
