package dto

import (
	"time"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePayoutRequest defines the data needed to open a payout request.
type CreatePayoutRequest struct {
	AccountID        string          `json:"accountID" binding:"required"`
	FundingSourceID  string          `json:"fundingSourceID" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3"`
	Note             string          `json:"note"`
	DestinationLabel string          `json:"destinationLabel"`
	Channel          string          `json:"channel" binding:"required"`
	ScheduledFor     *time.Time      `json:"scheduledFor"`
	Metadata         domain.Metadata `json:"metadata"`
}

// ReviewPayoutRequest carries the reviewer's reason for an approve, reject or
// cancel decision. Reject requires a reason; approve and cancel accept one.
type ReviewPayoutRequest struct {
	Reason string `json:"reason"`
}

// PayoutResponse defines the data returned for a payout request.
// Mirrors domain.PayoutRequest.
type PayoutResponse struct {
	PayoutID         string              `json:"payoutID"`
	WorkspaceID      string              `json:"workspaceID"`
	AccountID        string              `json:"accountID"`
	FundingSourceID  string              `json:"fundingSourceID"`
	Amount           decimal.Decimal     `json:"amount"`
	CurrencyCode     string              `json:"currencyCode"`
	Status           domain.PayoutStatus `json:"status"`
	RequesterID      string              `json:"requesterID"`
	ReviewerID       *string             `json:"reviewerID,omitempty"`
	ProcessorID      *string             `json:"processorID,omitempty"`
	Note             string              `json:"note"`
	DestinationLabel string              `json:"destinationLabel"`
	Channel          string              `json:"channel"`
	ScheduledFor     *time.Time          `json:"scheduledFor,omitempty"`
	RetryCount       int                 `json:"retryCount"`
	RequestedAt      time.Time           `json:"requestedAt"`
	ReviewedAt       *time.Time          `json:"reviewedAt,omitempty"`
	ProcessedAt      *time.Time          `json:"processedAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	CreatedBy        string              `json:"createdBy"`
	LastUpdatedAt    time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy    string              `json:"lastUpdatedBy"`
}

// ToPayoutResponse converts a domain.PayoutRequest to its response DTO.
func ToPayoutResponse(p *domain.PayoutRequest) PayoutResponse {
	return PayoutResponse{
		PayoutID:         p.PayoutID,
		WorkspaceID:      p.WorkspaceID,
		AccountID:        p.AccountID,
		FundingSourceID:  p.FundingSourceID,
		Amount:           p.Amount,
		CurrencyCode:     p.CurrencyCode,
		Status:           p.Status,
		RequesterID:      p.RequesterID,
		ReviewerID:       p.ReviewerID,
		ProcessorID:      p.ProcessorID,
		Note:             p.Note,
		DestinationLabel: p.DestinationLabel,
		Channel:          p.Channel,
		ScheduledFor:     p.ScheduledFor,
		RetryCount:       p.RetryCount,
		RequestedAt:      p.RequestedAt,
		ReviewedAt:       p.ReviewedAt,
		ProcessedAt:      p.ProcessedAt,
		CreatedAt:        p.CreatedAt,
		CreatedBy:        p.CreatedBy,
		LastUpdatedAt:    p.LastUpdatedAt,
		LastUpdatedBy:    p.LastUpdatedBy,
	}
}

// ToPayoutResponses converts a slice of payouts to DTOs.
func ToPayoutResponses(payouts []domain.PayoutRequest) []PayoutResponse {
	responses := make([]PayoutResponse, len(payouts))
	for i, p := range payouts {
		responses[i] = ToPayoutResponse(&p)
	}
	return responses
}

// PayoutEventResponse is one row of a payout's transition trail.
type PayoutEventResponse struct {
	EventID    string              `json:"eventID"`
	PayoutID   string              `json:"payoutID"`
	FromStatus domain.PayoutStatus `json:"fromStatus"`
	ToStatus   domain.PayoutStatus `json:"toStatus"`
	ActorID    string              `json:"actorID"`
	Reason     string              `json:"reason"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// ToPayoutEventResponses converts a slice of events to DTOs.
func ToPayoutEventResponses(events []domain.PayoutEvent) []PayoutEventResponse {
	responses := make([]PayoutEventResponse, len(events))
	for i, e := range events {
		responses[i] = PayoutEventResponse{
			EventID:    e.EventID,
			PayoutID:   e.PayoutID,
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			ActorID:    e.ActorID,
			Reason:     e.Reason,
			OccurredAt: e.OccurredAt,
		}
	}
	return responses
}

// ListPayoutsParams defines query parameters for listing payouts.
type ListPayoutsParams struct {
	Status    []string `form:"status"`
	Limit     int      `form:"limit,default=20"`
	NextToken *string  `form:"nextToken"`
}

// ListPayoutsResponse wraps one page of payouts with its continuation token.
type ListPayoutsResponse struct {
	Payouts   []PayoutResponse `json:"payouts"`
	NextToken *string          `json:"nextToken,omitempty"`
}
