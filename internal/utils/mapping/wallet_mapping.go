package mapping

import (
	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/models"
)

// ToModelWalletAccount converts a domain wallet account to its model form.
func ToModelWalletAccount(d domain.WalletAccount) models.WalletAccount {
	return models.WalletAccount{
		AccountID:          d.AccountID,
		WorkspaceID:        d.WorkspaceID,
		OwnerID:            d.OwnerID,
		AccountType:        string(d.AccountType),
		CurrencyCode:       d.CurrencyCode,
		ProviderKey:        d.ProviderKey,
		Status:             string(d.Status),
		CurrentBalance:     d.CurrentBalance,
		AvailableBalance:   d.AvailableBalance,
		PendingHoldBalance: d.PendingHoldBalance,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWalletAccount converts a model wallet account to its domain form.
func ToDomainWalletAccount(m models.WalletAccount) domain.WalletAccount {
	return domain.WalletAccount{
		AccountID:          m.AccountID,
		WorkspaceID:        m.WorkspaceID,
		OwnerID:            m.OwnerID,
		AccountType:        domain.AccountType(m.AccountType),
		CurrencyCode:       m.CurrencyCode,
		ProviderKey:        m.ProviderKey,
		Status:             domain.AccountStatus(m.Status),
		CurrentBalance:     m.CurrentBalance,
		AvailableBalance:   m.AvailableBalance,
		PendingHoldBalance: m.PendingHoldBalance,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainWalletAccountSlice converts a slice of model accounts.
func ToDomainWalletAccountSlice(ms []models.WalletAccount) []domain.WalletAccount {
	ds := make([]domain.WalletAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWalletAccount(m)
	}
	return ds
}
