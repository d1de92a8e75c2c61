package services

import (
	"context"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/dto"
)

// PayoutReaderSvc defines read operations for payout requests
type PayoutReaderSvc interface {
	// GetPayoutByID retrieves a payout request by its unique identifier.
	GetPayoutByID(ctx context.Context, workspaceID string, payoutID string) (*domain.PayoutRequest, error)

	// ListPayouts retrieves a page of a workspace's payouts, optionally
	// filtered by status, newest request first.
	ListPayouts(ctx context.Context, workspaceID string, statuses []domain.PayoutStatus, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error)

	// ListPayoutEvents retrieves a payout's transition trail, oldest first.
	ListPayoutEvents(ctx context.Context, workspaceID string, payoutID string) ([]domain.PayoutEvent, error)
}

// PayoutWriterSvc defines the payout lifecycle operations
type PayoutWriterSvc interface {
	// CreatePayout registers a payout request in pending_review.
	CreatePayout(ctx context.Context, workspaceID string, req dto.CreatePayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error)

	// ApprovePayout moves a payout to approved and places a hold on the
	// source account for the payout amount.
	ApprovePayout(ctx context.Context, workspaceID string, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error)

	// RejectPayout moves a payout to rejected with a mandatory reason.
	RejectPayout(ctx context.Context, workspaceID string, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error)

	// CancelPayout moves a pending payout to cancelled.
	CancelPayout(ctx context.Context, workspaceID string, payoutID string, req dto.ReviewPayoutRequest, actor domain.Actor) (*domain.PayoutRequest, error)

	// SettlePayout moves an approved payout to processing, hands it to the
	// settlement provider and, on success, releases the hold, debits the
	// source account and marks the payout processed. On provider failure the
	// hold is released and the payout returns to pending_review until the
	// retry ceiling is hit, after which it is rejected.
	SettlePayout(ctx context.Context, workspaceID string, payoutID string, actor domain.Actor) (*domain.PayoutRequest, error)
}

// PayoutSvcFacade combines all payout service interfaces
type PayoutSvcFacade interface {
	PayoutReaderSvc
	PayoutWriterSvc
}

// SettlementProvider is the outbound port to the external payment rail.
// Settle returns the provider's external reference for a completed transfer.
type SettlementProvider interface {
	Settle(ctx context.Context, payout domain.PayoutRequest) (string, error)
}
