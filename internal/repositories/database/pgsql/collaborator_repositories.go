package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
)

type PgxFundingSourceRepository struct {
	BaseRepository
}

func newPgxFundingSourceRepository(pool *pgxpool.Pool) *PgxFundingSourceRepository {
	return &PgxFundingSourceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FundingSourceReader = (*PgxFundingSourceRepository)(nil)

// CountActiveByWorkspace returns how many active funding sources the
// workspace has on file.
func (r *PgxFundingSourceRepository) CountActiveByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	query := `SELECT COUNT(*) FROM funding_sources WHERE workspace_id = $1 AND status = 'active';`

	var count int
	if err := r.Pool.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count funding sources for workspace "+workspaceID, err)
	}
	return count, nil
}

type PgxTransferRuleRepository struct {
	BaseRepository
}

func newPgxTransferRuleRepository(pool *pgxpool.Pool) *PgxTransferRuleRepository {
	return &PgxTransferRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransferRuleReader = (*PgxTransferRuleRepository)(nil)

// CountEnabledByWorkspace returns how many enabled transfer rules the
// workspace has configured.
func (r *PgxTransferRuleRepository) CountEnabledByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	query := `SELECT COUNT(*) FROM transfer_rules WHERE workspace_id = $1 AND enabled = TRUE;`

	var count int
	if err := r.Pool.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count transfer rules for workspace "+workspaceID, err)
	}
	return count, nil
}
