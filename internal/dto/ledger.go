package dto

import (
	"time"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AppendEntryRequest defines the data needed to append one ledger entry.
// Amount is positive for every type except adjustment, which carries its sign
// and must not be zero.
type AppendEntryRequest struct {
	AccountID         string           `json:"-"` // taken from the URL path
	EntryType         domain.EntryType `json:"entryType" binding:"required,oneof=credit debit hold release adjustment"`
	Amount            decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode      string           `json:"currencyCode" binding:"required,len=3"`
	Reference         string           `json:"reference" binding:"required"`
	ExternalReference *string          `json:"externalReference"`
	Note              string           `json:"note"`
	Metadata          domain.Metadata  `json:"metadata"`
	OccurredAt        *time.Time       `json:"occurredAt"` // defaults to now when omitted
}

// LedgerEntryResponse defines the data returned for a ledger entry.
// Mirrors domain.LedgerEntry.
type LedgerEntryResponse struct {
	EntryID           string           `json:"entryID"`
	AccountID         string           `json:"accountID"`
	EntryType         domain.EntryType `json:"entryType"`
	Amount            decimal.Decimal  `json:"amount"`
	CurrencyCode      string           `json:"currencyCode"`
	Reference         string           `json:"reference"`
	ExternalReference *string          `json:"externalReference,omitempty"`
	ActorID           string           `json:"actorID"`
	Note              string           `json:"note"`
	Metadata          domain.Metadata  `json:"metadata,omitempty"`
	OccurredAt        time.Time        `json:"occurredAt"`
	BalanceAfter      decimal.Decimal  `json:"balanceAfter"`
	CreatedAt         time.Time        `json:"createdAt"`
	CreatedBy         string           `json:"createdBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:           e.EntryID,
		AccountID:         e.AccountID,
		EntryType:         e.EntryType,
		Amount:            e.Amount,
		CurrencyCode:      e.CurrencyCode,
		Reference:         e.Reference,
		ExternalReference: e.ExternalReference,
		ActorID:           e.ActorID,
		Note:              e.Note,
		Metadata:          e.Metadata,
		OccurredAt:        e.OccurredAt,
		BalanceAfter:      e.BalanceAfter,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}

// ToLedgerEntryResponses converts a slice of entries to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToLedgerEntryResponse(&e)
	}
	return responses
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Since     *string `form:"since"` // RFC 3339
	Until     *string `form:"until"` // RFC 3339
}

// ListEntriesResponse wraps one page of entries with its continuation token.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
