package dto

import (
	"time"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest replaces a workspace's operational settings wholesale.
// Thresholds must be non-negative; cadence, window and tier come from small
// closed vocabularies.
type UpdateSettingsRequest struct {
	LowBalanceAlertThreshold decimal.Decimal `json:"lowBalanceAlertThreshold"`
	AutoSweepEnabled         bool            `json:"autoSweepEnabled"`
	AutoSweepThreshold       decimal.Decimal `json:"autoSweepThreshold"`
	ReconciliationCadence    string          `json:"reconciliationCadence" binding:"required,oneof=daily weekly monthly"`
	DualControlEnabled       bool            `json:"dualControlEnabled"`
	PayoutWindow             string          `json:"payoutWindow" binding:"required,oneof=business-days all-days"`
	RiskTier                 string          `json:"riskTier" binding:"required,oneof=standard elevated high"`
	ComplianceContact        string          `json:"complianceContact"`
}

// SettingsResponse defines the data returned for operational settings.
// Mirrors domain.OperationalSettings.
type SettingsResponse struct {
	WorkspaceID              string          `json:"workspaceID"`
	LowBalanceAlertThreshold decimal.Decimal `json:"lowBalanceAlertThreshold"`
	AutoSweepEnabled         bool            `json:"autoSweepEnabled"`
	AutoSweepThreshold       decimal.Decimal `json:"autoSweepThreshold"`
	ReconciliationCadence    string          `json:"reconciliationCadence"`
	DualControlEnabled       bool            `json:"dualControlEnabled"`
	PayoutWindow             string          `json:"payoutWindow"`
	RiskTier                 string          `json:"riskTier"`
	ComplianceContact        string          `json:"complianceContact"`
	CreatedAt                time.Time       `json:"createdAt"`
	LastUpdatedAt            time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy            string          `json:"lastUpdatedBy"`
}

// ToSettingsResponse converts domain settings to the response DTO.
func ToSettingsResponse(s *domain.OperationalSettings) SettingsResponse {
	return SettingsResponse{
		WorkspaceID:              s.WorkspaceID,
		LowBalanceAlertThreshold: s.LowBalanceAlertThreshold,
		AutoSweepEnabled:         s.AutoSweepEnabled,
		AutoSweepThreshold:       s.AutoSweepThreshold,
		ReconciliationCadence:    s.ReconciliationCadence,
		DualControlEnabled:       s.DualControlEnabled,
		PayoutWindow:             s.PayoutWindow,
		RiskTier:                 s.RiskTier,
		ComplianceContact:        s.ComplianceContact,
		CreatedAt:                s.CreatedAt,
		LastUpdatedAt:            s.LastUpdatedAt,
		LastUpdatedBy:            s.LastUpdatedBy,
	}
}
