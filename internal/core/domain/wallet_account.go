package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType identifies which side of the marketplace owns a wallet account.
type AccountType string

const (
	AccountTypeUser       AccountType = "user"
	AccountTypeFreelancer AccountType = "freelancer"
	AccountTypeCompany    AccountType = "company"
	AccountTypeAgency     AccountType = "agency"
)

// AccountStatus is the lifecycle state of a wallet account.
// Accounts are never hard-deleted; closure is a status transition.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// WalletAccount is one custody bucket per (owner, account type, currency).
// Balance fields are caches derived from the ledger; the ledger is the
// source of truth and reconciliation verifies the two agree.
type WalletAccount struct {
	AccountID          string          `json:"accountID"`
	WorkspaceID        string          `json:"workspaceID"`
	OwnerID            string          `json:"ownerID"`
	AccountType        AccountType     `json:"accountType"`
	CurrencyCode       string          `json:"currencyCode"` // ISO 4217
	ProviderKey        string          `json:"providerKey"`  // opaque custody provider reference
	Status             AccountStatus   `json:"status"`
	CurrentBalance     decimal.Decimal `json:"currentBalance"`
	AvailableBalance   decimal.Decimal `json:"availableBalance"`
	PendingHoldBalance decimal.Decimal `json:"pendingHoldBalance"`
	AuditFields
}

// CheckBalanceInvariant reports whether currentBalance == availableBalance + pendingHoldBalance.
func (a WalletAccount) CheckBalanceInvariant() bool {
	return a.CurrentBalance.Equal(a.AvailableBalance.Add(a.PendingHoldBalance))
}

// IsWritable reports whether the account can receive the given entry type.
// Pending accounts accept credits only (the first credit activates them);
// suspended and closed accounts accept nothing.
func (a WalletAccount) IsWritable(entryType EntryType) bool {
	switch a.Status {
	case AccountStatusActive:
		return true
	case AccountStatusPending:
		return entryType == EntryCredit
	default:
		return false
	}
}
