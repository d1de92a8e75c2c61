package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertSeverity grades operator-facing alerts.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Well-known alert identifiers emitted by the overview aggregator.
const (
	AlertFundingSourceMissing = "funding-source-missing"
	AlertTransferRulesMissing = "transfer-rules-missing"
	AlertLowBalance           = "low-balance"
	AlertPayoutQueue          = "payout-queue"
)

// Alert is a guardrail or configuration warning surfaced on the overview.
type Alert struct {
	ID       string        `json:"id"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// OverviewTotals are workspace-wide sums. TotalBalance is a plain numeric sum
// across currencies; no conversion is performed.
type OverviewTotals struct {
	TotalBalance        decimal.Decimal `json:"totalBalance"`
	PendingPayoutAmount decimal.Decimal `json:"pendingPayoutAmount"`
}

// PendingPayoutSummary counts payout requests still in flight.
type PendingPayoutSummary struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// CurrencyExposure is one currency bucket of the breakdown, in the stable
// first-encountered order of the underlying accounts.
type CurrencyExposure struct {
	CurrencyCode string          `json:"currencyCode"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	AccountCount int             `json:"accountCount"`
}

// UpcomingPayout projects a not-yet-processed payout for the overview.
type UpcomingPayout struct {
	Amount       decimal.Decimal `json:"amount"`
	ScheduledFor time.Time       `json:"scheduledFor"`
	Destination  string          `json:"destination"`
	Channel      string          `json:"channel"`
}

// RecentTransfer projects a ledger entry for the overview feed.
type RecentTransfer struct {
	Channel    string          `json:"channel"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// ComplianceSummary projects the guardrail settings plus derived KYC status.
type ComplianceSummary struct {
	DualControlEnabled    bool   `json:"dualControlEnabled"`
	AutoSweepEnabled      bool   `json:"autoSweepEnabled"`
	RiskTier              string `json:"riskTier"`
	ReconciliationCadence string `json:"reconciliationCadence"`
	PayoutWindow          string `json:"payoutWindow"`
	ComplianceContact     string `json:"complianceContact"`
	KYCStatus             string `json:"kycStatus"`
}

// OverviewSnapshot is the decision-ready treasury view for one workspace.
// It is a best-effort, read-only snapshot stamped with RefreshedAt.
type OverviewSnapshot struct {
	WorkspaceID       string               `json:"workspaceID"`
	Currency          string               `json:"currency"` // dominant currency
	Totals            OverviewTotals       `json:"totals"`
	PendingPayouts    PendingPayoutSummary `json:"pendingPayouts"`
	CurrencyBreakdown []CurrencyExposure   `json:"currencyBreakdown"`
	UpcomingPayouts   []UpcomingPayout     `json:"upcomingPayouts"`
	RecentTransfers   []RecentTransfer     `json:"recentTransfers"`
	NetFlows          []decimal.Decimal    `json:"netFlows"` // oldest first
	Alerts            []Alert              `json:"alerts"`
	Compliance        ComplianceSummary    `json:"compliance"`
	RefreshedAt       time.Time            `json:"refreshedAt"`
}

// ReconciliationReport describes a divergence found while replaying a ledger.
type ReconciliationReport struct {
	AccountID           string          `json:"accountID"`
	CachedCurrent       decimal.Decimal `json:"cachedCurrent"`
	ReplayedCurrent     decimal.Decimal `json:"replayedCurrent"`
	CachedPendingHold   decimal.Decimal `json:"cachedPendingHold"`
	ReplayedPendingHold decimal.Decimal `json:"replayedPendingHold"`
	FirstBadEntryID     string          `json:"firstBadEntryID,omitempty"`
	EntryCount          int             `json:"entryCount"`
	Consistent          bool            `json:"consistent"`
}
