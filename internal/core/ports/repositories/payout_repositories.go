package repositories

import (
	"context"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

// PayoutReader defines read operations for payout requests.
type PayoutReader interface {
	// FindPayoutByID retrieves a payout request by its unique identifier.
	FindPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutRequest, error)

	// ListPayoutsByWorkspace retrieves payouts for a workspace, optionally
	// filtered to a status set, newest request first.
	ListPayoutsByWorkspace(ctx context.Context, workspaceID string, statuses []domain.PayoutStatus, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error)

	// ListPayoutEvents retrieves the append-only transition trail for a payout,
	// oldest first.
	ListPayoutEvents(ctx context.Context, payoutID string) ([]domain.PayoutEvent, error)
}

// PayoutWriter defines write operations for payout requests.
type PayoutWriter interface {
	// SavePayout persists a new payout request together with its creation event.
	SavePayout(ctx context.Context, payout domain.PayoutRequest, event domain.PayoutEvent) error

	// UpdatePayoutTransition persists a status transition (mutable row) and
	// appends its audit event atomically. The payout's status column guards
	// against concurrent transitions: the update matches on the event's
	// from-status and reports a conflict when the row has moved on.
	UpdatePayoutTransition(ctx context.Context, payout domain.PayoutRequest, event domain.PayoutEvent) error
}

// PayoutRepositoryFacade combines payout read and write interfaces.
type PayoutRepositoryFacade interface {
	PayoutReader
	PayoutWriter
}
