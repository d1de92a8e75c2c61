// Package events publishes payout lifecycle notifications to RabbitMQ.
// Downstream consumers (notifications, analytics) subscribe to the
// wallet_events topic exchange; the engine itself never consumes them.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

const exchangeName = "wallet_events"

// PayoutEventMessage is the payload published on every payout transition.
type PayoutEventMessage struct {
	PayoutID    string              `json:"payout_id"`
	WorkspaceID string              `json:"workspace_id"`
	AccountID   string              `json:"account_id"`
	Amount      decimal.Decimal     `json:"amount"`
	Currency    string              `json:"currency"`
	FromStatus  domain.PayoutStatus `json:"from_status"`
	ToStatus    domain.PayoutStatus `json:"to_status"`
	ActorID     string              `json:"actor_id"`
	Reason      string              `json:"reason,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// RoutingKey derives the topic routing key from the transition's destination,
// e.g. "payout.approved" or "payout.pending_review".
func (m PayoutEventMessage) RoutingKey() string {
	return "payout." + string(m.ToStatus)
}

// Publisher is the outbound port for payout lifecycle events. Publishing is
// best effort: callers log failures and continue, state changes never depend
// on broker availability.
type Publisher interface {
	PublishPayoutEvent(ctx context.Context, msg PayoutEventMessage) error
	Close()
}

// NewPayoutEventMessage builds the broker payload for a committed transition.
func NewPayoutEventMessage(payout domain.PayoutRequest, event domain.PayoutEvent) PayoutEventMessage {
	return PayoutEventMessage{
		PayoutID:    payout.PayoutID,
		WorkspaceID: payout.WorkspaceID,
		AccountID:   payout.AccountID,
		Amount:      payout.Amount,
		Currency:    payout.CurrencyCode,
		FromStatus:  event.FromStatus,
		ToStatus:    event.ToStatus,
		ActorID:     event.ActorID,
		Reason:      event.Reason,
		Timestamp:   event.OccurredAt,
	}
}
