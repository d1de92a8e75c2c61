package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	"github.com/fairlance/treasury_backend/internal/models"
	"github.com/fairlance/treasury_backend/internal/utils/mapping"
)

const walletAccountColumns = `account_id, workspace_id, owner_id, account_type, currency_code, provider_key, status,
	       current_balance, available_balance, pending_hold_balance,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallet account data.
func newPgxWalletRepository(pool *pgxpool.Pool) *PgxWalletRepository {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WalletAccountRepositoryFacade = (*PgxWalletRepository)(nil)

func scanWalletAccount(row pgx.Row) (*models.WalletAccount, error) {
	var m models.WalletAccount
	err := row.Scan(
		&m.AccountID,
		&m.WorkspaceID,
		&m.OwnerID,
		&m.AccountType,
		&m.CurrencyCode,
		&m.ProviderKey,
		&m.Status,
		&m.CurrentBalance,
		&m.AvailableBalance,
		&m.PendingHoldBalance,
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

// SaveAccount inserts a new wallet account.
func (r *PgxWalletRepository) SaveAccount(ctx context.Context, account domain.WalletAccount) error {
	m := mapping.ToModelWalletAccount(account)

	query := `
		INSERT INTO wallet_accounts (` + walletAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.WorkspaceID,
		m.OwnerID,
		m.AccountType,
		m.CurrencyCode,
		m.ProviderKey,
		m.Status,
		m.CurrentBalance,
		m.AvailableBalance,
		m.PendingHoldBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: wallet account for owner %s already exists", apperrors.ErrDuplicate, m.OwnerID)
		}
		return apperrors.NewAppError(500, "failed to save wallet account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves a wallet account by its primary key.
func (r *PgxWalletRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.WalletAccount, error) {
	query := `SELECT ` + walletAccountColumns + ` FROM wallet_accounts WHERE account_id = $1;`

	m, err := scanWalletAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("wallet account " + accountID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find wallet account "+accountID, err)
	}
	acc := mapping.ToDomainWalletAccount(*m)
	return &acc, nil
}

// FindAccountByOwner retrieves the non-closed account for an
// (owner, type, currency) tuple. The unique partial index on these columns
// guarantees at most one row matches.
func (r *PgxWalletRepository) FindAccountByOwner(ctx context.Context, ownerID string, accountType domain.AccountType, currencyCode string) (*domain.WalletAccount, error) {
	query := `
		SELECT ` + walletAccountColumns + `
		FROM wallet_accounts
		WHERE owner_id = $1 AND account_type = $2 AND currency_code = $3 AND status != 'closed';
	`
	m, err := scanWalletAccount(r.Pool.QueryRow(ctx, query, ownerID, string(accountType), currencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no wallet account for owner " + ownerID)
		}
		return nil, apperrors.NewAppError(500, "failed to find wallet account for owner "+ownerID, err)
	}
	acc := mapping.ToDomainWalletAccount(*m)
	return &acc, nil
}

// ListAccountsByWorkspace retrieves all accounts for a workspace, ordered by
// creation time so currency grouping downstream is stable.
func (r *PgxWalletRepository) ListAccountsByWorkspace(ctx context.Context, workspaceID string) ([]domain.WalletAccount, error) {
	query := `
		SELECT ` + walletAccountColumns + `
		FROM wallet_accounts
		WHERE workspace_id = $1
		ORDER BY created_at ASC, account_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list wallet accounts for workspace "+workspaceID, err)
	}
	defer rows.Close()

	accounts := make([]models.WalletAccount, 0)
	for rows.Next() {
		m, err := scanWalletAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan wallet account row", err)
		}
		accounts = append(accounts, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating wallet account rows", err)
	}

	return mapping.ToDomainWalletAccountSlice(accounts), nil
}

// UpdateAccountStatus transitions an account's lifecycle status.
func (r *PgxWalletRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, actorID string, now time.Time) error {
	query := `
		UPDATE wallet_accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, string(status), now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of wallet account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("wallet account " + accountID + " not found")
	}
	return nil
}

// findAccountForUpdate locks the account row for the duration of tx. This is
// the per-account critical section every balance-affecting write runs in.
func findAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*models.WalletAccount, error) {
	query := `SELECT ` + walletAccountColumns + ` FROM wallet_accounts WHERE account_id = $1 FOR UPDATE;`

	m, err := scanWalletAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("wallet account " + accountID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to lock wallet account "+accountID, err)
	}
	return m, nil
}
