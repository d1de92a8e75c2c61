package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	"github.com/fairlance/treasury_backend/internal/models"
	"github.com/fairlance/treasury_backend/internal/utils/mapping"
	"github.com/fairlance/treasury_backend/internal/utils/pagination"
)

const payoutColumns = `payout_id, workspace_id, account_id, funding_source_id, amount, currency_code, status,
	       requester_id, reviewer_id, processor_id, note, destination_label, channel, scheduled_for,
	       retry_count, requested_at, reviewed_at, processed_at, metadata,
	       created_at, created_by, last_updated_at, last_updated_by`

const payoutEventColumns = `event_id, payout_id, from_status, to_status, actor_id, reason, occurred_at`

type PgxPayoutRepository struct {
	BaseRepository
}

// newPgxPayoutRepository creates a new repository for payout request data.
func newPgxPayoutRepository(pool *pgxpool.Pool) *PgxPayoutRepository {
	return &PgxPayoutRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayoutRepositoryFacade = (*PgxPayoutRepository)(nil)

func scanPayout(row pgx.Row) (*models.WalletPayoutRequest, error) {
	var m models.WalletPayoutRequest
	err := row.Scan(
		&m.PayoutID,
		&m.WorkspaceID,
		&m.AccountID,
		&m.FundingSourceID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Status,
		&m.RequesterID,
		&m.ReviewerID,
		&m.ProcessorID,
		&m.Note,
		&m.DestinationLabel,
		&m.Channel,
		&m.ScheduledFor,
		&m.RetryCount,
		&m.RequestedAt,
		&m.ReviewedAt,
		&m.ProcessedAt,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanPayoutEvent(row pgx.Row) (*models.WalletPayoutEvent, error) {
	var m models.WalletPayoutEvent
	err := row.Scan(
		&m.EventID,
		&m.PayoutID,
		&m.FromStatus,
		&m.ToStatus,
		&m.ActorID,
		&m.Reason,
		&m.OccurredAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func insertPayoutEvent(ctx context.Context, tx pgx.Tx, event domain.PayoutEvent) error {
	query := `
		INSERT INTO wallet_payout_events (` + payoutEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		event.EventID,
		event.PayoutID,
		string(event.FromStatus),
		string(event.ToStatus),
		event.ActorID,
		event.Reason,
		event.OccurredAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payout event "+event.EventID, err)
	}
	return nil
}

// SavePayout persists a new payout request together with its creation event
// in one transaction.
func (r *PgxPayoutRepository) SavePayout(ctx context.Context, payout domain.PayoutRequest, event domain.PayoutEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPayoutRequest(payout)
	query := `
		INSERT INTO wallet_payout_requests (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	if _, err := tx.Exec(ctx, query,
		m.PayoutID,
		m.WorkspaceID,
		m.AccountID,
		m.FundingSourceID,
		m.Amount,
		m.CurrencyCode,
		m.Status,
		m.RequesterID,
		m.ReviewerID,
		m.ProcessorID,
		m.Note,
		m.DestinationLabel,
		m.Channel,
		m.ScheduledFor,
		m.RetryCount,
		m.RequestedAt,
		m.ReviewedAt,
		m.ProcessedAt,
		m.Metadata,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payout %s already exists", apperrors.ErrDuplicate, payout.PayoutID)
		}
		return apperrors.NewAppError(500, "failed to insert payout "+payout.PayoutID, err)
	}

	if err := insertPayoutEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindPayoutByID retrieves a payout request by its primary key.
func (r *PgxPayoutRepository) FindPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM wallet_payout_requests WHERE payout_id = $1;`

	m, err := scanPayout(r.Pool.QueryRow(ctx, query, payoutID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payout " + payoutID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to query payout "+payoutID, err)
	}
	payout := mapping.ToDomainPayoutRequest(*m)
	return &payout, nil
}

// UpdatePayoutTransition persists a status transition and its event
// atomically. The update matches on the event's from-status so a payout that
// has moved on since it was read is reported as a conflict instead of being
// silently overwritten.
func (r *PgxPayoutRepository) UpdatePayoutTransition(ctx context.Context, payout domain.PayoutRequest, event domain.PayoutEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPayoutRequest(payout)
	query := `
		UPDATE wallet_payout_requests
		SET status = $3, reviewer_id = $4, processor_id = $5, retry_count = $6,
		    reviewed_at = $7, processed_at = $8, last_updated_at = $9, last_updated_by = $10
		WHERE payout_id = $1 AND status = $2;
	`
	tag, err := tx.Exec(ctx, query,
		m.PayoutID,
		string(event.FromStatus),
		m.Status,
		m.ReviewerID,
		m.ProcessorID,
		m.RetryCount,
		m.ReviewedAt,
		m.ProcessedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payout "+payout.PayoutID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payout %s is no longer %s", apperrors.ErrConflict, payout.PayoutID, event.FromStatus)
	}

	if err := insertPayoutEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ListPayoutsByWorkspace retrieves a page of payouts, newest first, optionally
// narrowed to a set of statuses.
func (r *PgxPayoutRepository) ListPayoutsByWorkspace(ctx context.Context, workspaceID string, statuses []domain.PayoutStatus, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + payoutColumns + `
		FROM wallet_payout_requests
		WHERE workspace_id = $1
	`
	args := []interface{}{workspaceID}

	if len(statuses) > 0 {
		statusStrings := make([]string, len(statuses))
		for i, s := range statuses {
			statusStrings[i] = string(s)
		}
		args = append(args, statusStrings)
		baseQuery += ` AND status = ANY($` + strconv.Itoa(len(args)) + `)`
	}

	if nextToken != nil && *nextToken != "" {
		lastRequestedAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastRequestedAt, lastCreatedAt)
		baseQuery += ` AND (requested_at, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY requested_at DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query payouts for workspace "+workspaceID, err)
	}
	defer rows.Close()

	collected := make([]models.WalletPayoutRequest, 0)
	for rows.Next() {
		m, err := scanPayout(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan payout row", err)
		}
		collected = append(collected, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating payout rows", err)
	}

	var nextTokenVal *string
	if len(collected) > limit {
		last := collected[limit-1]
		token := pagination.EncodeToken(last.RequestedAt, last.CreatedAt)
		nextTokenVal = &token
		collected = collected[:limit]
	}

	return mapping.ToDomainPayoutRequestSlice(collected), nextTokenVal, nil
}

// ListPayoutEvents retrieves the full audit trail of a payout, oldest first.
func (r *PgxPayoutRepository) ListPayoutEvents(ctx context.Context, payoutID string) ([]domain.PayoutEvent, error) {
	query := `
		SELECT ` + payoutEventColumns + `
		FROM wallet_payout_events
		WHERE payout_id = $1
		ORDER BY occurred_at ASC, event_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, payoutID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query events of payout "+payoutID, err)
	}
	defer rows.Close()

	events := make([]domain.PayoutEvent, 0)
	for rows.Next() {
		m, err := scanPayoutEvent(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payout event row", err)
		}
		events = append(events, mapping.ToDomainPayoutEvent(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payout event rows", err)
	}
	return events, nil
}
