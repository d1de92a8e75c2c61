package mapping

import (
	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/models"
)

// ToModelLedgerEntry converts a domain ledger entry to its model form.
func ToModelLedgerEntry(d domain.LedgerEntry) models.WalletLedgerEntry {
	return models.WalletLedgerEntry{
		EntryID:           d.EntryID,
		AccountID:         d.AccountID,
		EntryType:         string(d.EntryType),
		Amount:            d.Amount,
		CurrencyCode:      d.CurrencyCode,
		Reference:         d.Reference,
		ExternalReference: d.ExternalReference,
		ActorID:           d.ActorID,
		Note:              d.Note,
		Metadata:          ToModelMetadata(d.Metadata),
		OccurredAt:        d.OccurredAt,
		BalanceAfter:      d.BalanceAfter,
		CreatedAt:         d.CreatedAt,
		CreatedBy:         d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model ledger entry to its domain form.
func ToDomainLedgerEntry(m models.WalletLedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:           m.EntryID,
		AccountID:         m.AccountID,
		EntryType:         domain.EntryType(m.EntryType),
		Amount:            m.Amount,
		CurrencyCode:      m.CurrencyCode,
		Reference:         m.Reference,
		ExternalReference: m.ExternalReference,
		ActorID:           m.ActorID,
		Note:              m.Note,
		Metadata:          ToDomainMetadata(m.Metadata),
		OccurredAt:        m.OccurredAt,
		BalanceAfter:      m.BalanceAfter,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model ledger entries.
func ToDomainLedgerEntrySlice(ms []models.WalletLedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
