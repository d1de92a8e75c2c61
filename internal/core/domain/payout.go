package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus is the state of a payout request in the approval workflow.
type PayoutStatus string

const (
	PayoutPendingReview PayoutStatus = "pending_review"
	PayoutApproved      PayoutStatus = "approved"
	PayoutProcessing    PayoutStatus = "processing"
	PayoutProcessed     PayoutStatus = "processed"
	PayoutRejected      PayoutStatus = "rejected"
	PayoutCancelled     PayoutStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s PayoutStatus) IsTerminal() bool {
	switch s {
	case PayoutProcessed, PayoutRejected, PayoutCancelled:
		return true
	}
	return false
}

// payoutTransitions enumerates the legal state machine edges.
// processing -> pending_review is the bounded requeue on provider failure.
var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutPendingReview: {PayoutApproved, PayoutRejected, PayoutCancelled},
	PayoutApproved:      {PayoutProcessing},
	PayoutProcessing:    {PayoutProcessed, PayoutPendingReview, PayoutRejected},
}

// CanTransition reports whether from -> to is a legal payout transition.
func CanTransition(from, to PayoutStatus) bool {
	for _, next := range payoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PayoutRequest moves funds out of a wallet account to an external funding
// source. It holds a weak account reference (id only); the account owns its
// ledger, not the payout.
type PayoutRequest struct {
	PayoutID         string          `json:"payoutID"`
	WorkspaceID      string          `json:"workspaceID"`
	AccountID        string          `json:"accountID"`
	FundingSourceID  string          `json:"fundingSourceID"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Status           PayoutStatus    `json:"status"`
	RequesterID      string          `json:"requesterID"`
	ReviewerID       *string         `json:"reviewerID,omitempty"`
	ProcessorID      *string         `json:"processorID,omitempty"`
	Note             string          `json:"note"`
	DestinationLabel string          `json:"destinationLabel"`
	Channel          string          `json:"channel"`
	ScheduledFor     *time.Time      `json:"scheduledFor,omitempty"`
	RetryCount       int             `json:"retryCount"`
	RequestedAt      time.Time       `json:"requestedAt"`
	ReviewedAt       *time.Time      `json:"reviewedAt,omitempty"`
	ProcessedAt      *time.Time      `json:"processedAt,omitempty"`
	Metadata         Metadata        `json:"metadata,omitempty"`
	AuditFields
}

// EffectiveTime is the instant used to order upcoming payouts: the scheduled
// time when present, otherwise the request time.
func (p PayoutRequest) EffectiveTime() time.Time {
	if p.ScheduledFor != nil {
		return *p.ScheduledFor
	}
	return p.RequestedAt
}

// PayoutEvent is one append-only row of the transition audit trail.
type PayoutEvent struct {
	EventID    string       `json:"eventID"`
	PayoutID   string       `json:"payoutID"`
	FromStatus PayoutStatus `json:"fromStatus"`
	ToStatus   PayoutStatus `json:"toStatus"`
	ActorID    string       `json:"actorID"`
	Reason     string       `json:"reason"`
	OccurredAt time.Time    `json:"occurredAt"`
}
