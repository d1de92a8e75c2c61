package mapping

import (
	"github.com/fairlance/treasury_backend/internal/core/domain"
	"github.com/fairlance/treasury_backend/internal/models"
)

// ToModelPayoutRequest converts a domain payout request to its model form.
func ToModelPayoutRequest(d domain.PayoutRequest) models.WalletPayoutRequest {
	return models.WalletPayoutRequest{
		PayoutID:         d.PayoutID,
		WorkspaceID:      d.WorkspaceID,
		AccountID:        d.AccountID,
		FundingSourceID:  d.FundingSourceID,
		Amount:           d.Amount,
		CurrencyCode:     d.CurrencyCode,
		Status:           string(d.Status),
		RequesterID:      d.RequesterID,
		ReviewerID:       d.ReviewerID,
		ProcessorID:      d.ProcessorID,
		Note:             d.Note,
		DestinationLabel: d.DestinationLabel,
		Channel:          d.Channel,
		ScheduledFor:     d.ScheduledFor,
		RetryCount:       d.RetryCount,
		RequestedAt:      d.RequestedAt,
		ReviewedAt:       d.ReviewedAt,
		ProcessedAt:      d.ProcessedAt,
		Metadata:         ToModelMetadata(d.Metadata),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayoutRequest converts a model payout request to its domain form.
func ToDomainPayoutRequest(m models.WalletPayoutRequest) domain.PayoutRequest {
	return domain.PayoutRequest{
		PayoutID:         m.PayoutID,
		WorkspaceID:      m.WorkspaceID,
		AccountID:        m.AccountID,
		FundingSourceID:  m.FundingSourceID,
		Amount:           m.Amount,
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.PayoutStatus(m.Status),
		RequesterID:      m.RequesterID,
		ReviewerID:       m.ReviewerID,
		ProcessorID:      m.ProcessorID,
		Note:             m.Note,
		DestinationLabel: m.DestinationLabel,
		Channel:          m.Channel,
		ScheduledFor:     m.ScheduledFor,
		RetryCount:       m.RetryCount,
		RequestedAt:      m.RequestedAt,
		ReviewedAt:       m.ReviewedAt,
		ProcessedAt:      m.ProcessedAt,
		Metadata:         ToDomainMetadata(m.Metadata),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayoutRequestSlice converts a slice of model payout requests.
func ToDomainPayoutRequestSlice(ms []models.WalletPayoutRequest) []domain.PayoutRequest {
	ds := make([]domain.PayoutRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayoutRequest(m)
	}
	return ds
}

// ToDomainPayoutEvent converts a model payout event to its domain form.
func ToDomainPayoutEvent(m models.WalletPayoutEvent) domain.PayoutEvent {
	return domain.PayoutEvent{
		EventID:    m.EventID,
		PayoutID:   m.PayoutID,
		FromStatus: domain.PayoutStatus(m.FromStatus),
		ToStatus:   domain.PayoutStatus(m.ToStatus),
		ActorID:    m.ActorID,
		Reason:     m.Reason,
		OccurredAt: m.OccurredAt,
	}
}
