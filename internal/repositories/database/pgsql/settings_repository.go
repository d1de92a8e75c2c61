package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	"github.com/fairlance/treasury_backend/internal/models"
	"github.com/fairlance/treasury_backend/internal/utils/mapping"
)

const settingsColumns = `workspace_id, low_balance_alert_threshold, auto_sweep_enabled, auto_sweep_threshold,
	       reconciliation_cadence, dual_control_enabled, payout_window, risk_tier, compliance_contact,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxSettingsRepository struct {
	BaseRepository
}

// newPgxSettingsRepository creates a new repository for operational settings.
func newPgxSettingsRepository(pool *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

func scanSettings(row pgx.Row) (*models.WalletOperationalSetting, error) {
	var m models.WalletOperationalSetting
	err := row.Scan(
		&m.WorkspaceID,
		&m.LowBalanceAlertThreshold,
		&m.AutoSweepEnabled,
		&m.AutoSweepThreshold,
		&m.ReconciliationCadence,
		&m.DualControlEnabled,
		&m.PayoutWindow,
		&m.RiskTier,
		&m.ComplianceContact,
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

// FindSettingsByWorkspace retrieves the stored settings row. Workspaces that
// never saved settings get a not found error; callers decide whether to fall
// back to defaults.
func (r *PgxSettingsRepository) FindSettingsByWorkspace(ctx context.Context, workspaceID string) (*domain.OperationalSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM wallet_operational_settings WHERE workspace_id = $1;`

	m, err := scanSettings(r.Pool.QueryRow(ctx, query, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no settings saved for workspace " + workspaceID)
		}
		return nil, apperrors.NewAppError(500, "failed to query settings for workspace "+workspaceID, err)
	}
	settings := mapping.ToDomainSettings(*m)
	return &settings, nil
}

// UpsertSettings inserts or fully replaces the workspace's settings row.
// The original created_at and created_by survive the replace.
func (r *PgxSettingsRepository) UpsertSettings(ctx context.Context, settings domain.OperationalSettings) (*domain.OperationalSettings, error) {
	m := mapping.ToModelSettings(settings)
	query := `
		INSERT INTO wallet_operational_settings (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (workspace_id) DO UPDATE
		SET low_balance_alert_threshold = EXCLUDED.low_balance_alert_threshold,
		    auto_sweep_enabled = EXCLUDED.auto_sweep_enabled,
		    auto_sweep_threshold = EXCLUDED.auto_sweep_threshold,
		    reconciliation_cadence = EXCLUDED.reconciliation_cadence,
		    dual_control_enabled = EXCLUDED.dual_control_enabled,
		    payout_window = EXCLUDED.payout_window,
		    risk_tier = EXCLUDED.risk_tier,
		    compliance_contact = EXCLUDED.compliance_contact,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	if _, err := r.Pool.Exec(ctx, query,
		m.WorkspaceID,
		m.LowBalanceAlertThreshold,
		m.AutoSweepEnabled,
		m.AutoSweepThreshold,
		m.ReconciliationCadence,
		m.DualControlEnabled,
		m.PayoutWindow,
		m.RiskTier,
		m.ComplianceContact,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	); err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert settings for workspace "+settings.WorkspaceID, err)
	}
	return &settings, nil
}
