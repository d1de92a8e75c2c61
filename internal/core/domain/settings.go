package domain

import (
	"github.com/shopspring/decimal"
)

// OperationalSettings are per-workspace guardrail thresholds and policy
// flags. The engine treats them as advisory input and never mutates them
// outside the administrative upsert.
type OperationalSettings struct {
	WorkspaceID              string          `json:"workspaceID"`
	LowBalanceAlertThreshold decimal.Decimal `json:"lowBalanceAlertThreshold"`
	AutoSweepEnabled         bool            `json:"autoSweepEnabled"`
	AutoSweepThreshold       decimal.Decimal `json:"autoSweepThreshold"`
	ReconciliationCadence    string          `json:"reconciliationCadence"`
	DualControlEnabled       bool            `json:"dualControlEnabled"`
	PayoutWindow             string          `json:"payoutWindow"`
	RiskTier                 string          `json:"riskTier"`
	ComplianceContact        string          `json:"complianceContact"`
	AuditFields
}

// DefaultSettings are applied when a workspace has no custom policy:
// dual control off and thresholds that never trip.
func DefaultSettings(workspaceID string) OperationalSettings {
	return OperationalSettings{
		WorkspaceID:              workspaceID,
		LowBalanceAlertThreshold: decimal.Zero,
		AutoSweepEnabled:         false,
		AutoSweepThreshold:       decimal.Zero,
		ReconciliationCadence:    "daily",
		DualControlEnabled:       false,
		PayoutWindow:             "business-days",
		RiskTier:                 "standard",
	}
}
