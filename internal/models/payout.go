package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletPayoutRequest mirrors the wallet_payout_requests table.
type WalletPayoutRequest struct {
	PayoutID         string          `db:"payout_id"`
	WorkspaceID      string          `db:"workspace_id"`
	AccountID        string          `db:"account_id"`
	FundingSourceID  string          `db:"funding_source_id"`
	Amount           decimal.Decimal `db:"amount"`
	CurrencyCode     string          `db:"currency_code"`
	Status           string          `db:"status"`
	RequesterID      string          `db:"requester_id"`
	ReviewerID       *string         `db:"reviewer_id"`
	ProcessorID      *string         `db:"processor_id"`
	Note             string          `db:"note"`
	DestinationLabel string          `db:"destination_label"`
	Channel          string          `db:"channel"`
	ScheduledFor     *time.Time      `db:"scheduled_for"`
	RetryCount       int             `db:"retry_count"`
	RequestedAt      time.Time       `db:"requested_at"`
	ReviewedAt       *time.Time      `db:"reviewed_at"`
	ProcessedAt      *time.Time      `db:"processed_at"`
	Metadata         []byte          `db:"metadata"` // jsonb
	AuditFields
}

// WalletPayoutEvent mirrors the wallet_payout_events table (append-only).
type WalletPayoutEvent struct {
	EventID    string    `db:"event_id"`
	PayoutID   string    `db:"payout_id"`
	FromStatus string    `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	ActorID    string    `db:"actor_id"`
	Reason     string    `db:"reason"`
	OccurredAt time.Time `db:"occurred_at"`
}
