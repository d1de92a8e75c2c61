package mapping

import (
	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/models"
)

// ToModelSettings converts domain operational settings to their model form.
func ToModelSettings(d domain.OperationalSettings) models.WalletOperationalSetting {
	return models.WalletOperationalSetting{
		WorkspaceID:              d.WorkspaceID,
		LowBalanceAlertThreshold: d.LowBalanceAlertThreshold,
		AutoSweepEnabled:         d.AutoSweepEnabled,
		AutoSweepThreshold:       d.AutoSweepThreshold,
		ReconciliationCadence:    d.ReconciliationCadence,
		DualControlEnabled:       d.DualControlEnabled,
		PayoutWindow:             d.PayoutWindow,
		RiskTier:                 d.RiskTier,
		ComplianceContact:        d.ComplianceContact,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSettings converts model operational settings to their domain form.
func ToDomainSettings(m models.WalletOperationalSetting) domain.OperationalSettings {
	return domain.OperationalSettings{
		WorkspaceID:              m.WorkspaceID,
		LowBalanceAlertThreshold: m.LowBalanceAlertThreshold,
		AutoSweepEnabled:         m.AutoSweepEnabled,
		AutoSweepThreshold:       m.AutoSweepThreshold,
		ReconciliationCadence:    m.ReconciliationCadence,
		DualControlEnabled:       m.DualControlEnabled,
		PayoutWindow:             m.PayoutWindow,
		RiskTier:                 m.RiskTier,
		ComplianceContact:        m.ComplianceContact,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}
