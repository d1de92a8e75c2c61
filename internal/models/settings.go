package models

import "github.com/shopspring/decimal"

// WalletOperationalSetting mirrors the wallet_operational_settings table.
type WalletOperationalSetting struct {
	WorkspaceID              string          `db:"workspace_id"`
	LowBalanceAlertThreshold decimal.Decimal `db:"low_balance_alert_threshold"`
	AutoSweepEnabled         bool            `db:"auto_sweep_enabled"`
	AutoSweepThreshold       decimal.Decimal `db:"auto_sweep_threshold"`
	ReconciliationCadence    string          `db:"reconciliation_cadence"`
	DualControlEnabled       bool            `db:"dual_control_enabled"`
	PayoutWindow             string          `db:"payout_window"`
	RiskTier                 string          `db:"risk_tier"`
	ComplianceContact        string          `db:"compliance_contact"`
	AuditFields
}
