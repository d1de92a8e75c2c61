package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairlance/treasury_backend/internal/apperrors"
	"github.com/fairlance/treasury_backend/internal/core/domain"
	portsrepo "github.com/fairlance/treasury_backend/internal/core/ports/repositories"
	"github.com/fairlance/treasury_backend/internal/models"
	"github.com/fairlance/treasury_backend/internal/utils/ledgermath"
	"github.com/fairlance/treasury_backend/internal/utils/mapping"
	"github.com/fairlance/treasury_backend/internal/utils/pagination"
)

const ledgerEntryColumns = `entry_id, account_id, entry_type, amount, currency_code, reference, external_reference,
	       actor_id, note, metadata, occurred_at, balance_after, created_at, created_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (*models.WalletLedgerEntry, error) {
	var m models.WalletLedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.EntryType,
		&m.Amount,
		&m.CurrencyCode,
		&m.Reference,
		&m.ExternalReference,
		&m.ActorID,
		&m.Note,
		&m.Metadata,
		&m.OccurredAt,
		&m.BalanceAfter,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// appendState tracks the running account state across one AppendEntries
// call. The replay and application rules live here, outside the SQL, so the
// loop in AppendEntries only moves rows.
type appendState struct {
	account  domain.WalletAccount
	balances ledgermath.Balances
	status   domain.AccountStatus
}

func newAppendState(account domain.WalletAccount) *appendState {
	return &appendState{
		account: account,
		balances: ledgermath.Balances{
			Current:     account.CurrentBalance,
			Available:   account.AvailableBalance,
			PendingHold: account.PendingHoldBalance,
		},
		status: account.Status,
	}
}

// resolve decides one entry's fate. When stored is non-nil the entry is an
// idempotent replay: the stored entry is returned as the result and the
// running state does not move. Otherwise the entry is validated against the
// current state, the balances advance, and the returned entry carries its
// balance snapshot. A credit on a pending account flips the state active.
func (s *appendState) resolve(entry domain.LedgerEntry, stored *domain.LedgerEntry) (domain.LedgerEntry, bool, error) {
	if stored != nil {
		return *stored, false, nil
	}

	if entry.CurrencyCode != s.account.CurrencyCode {
		return entry, false, fmt.Errorf("%w: entry currency %s, account currency %s", apperrors.ErrCurrencyMismatch, entry.CurrencyCode, s.account.CurrencyCode)
	}
	snapshot := s.account
	snapshot.Status = s.status
	if !snapshot.IsWritable(entry.EntryType) {
		return entry, false, fmt.Errorf("%w: account %s is %s and cannot accept %s entries", apperrors.ErrConflict, s.account.AccountID, s.status, entry.EntryType)
	}

	next, err := ledgermath.Apply(s.balances, entry.EntryType, entry.Amount)
	if err != nil {
		return entry, false, err
	}
	s.balances = next
	entry.BalanceAfter = next.Current

	if s.status == domain.AccountStatusPending && entry.EntryType == domain.EntryCredit {
		s.status = domain.AccountStatusActive
	}
	return entry, true, nil
}

// AppendEntry appends a single entry inside the account's critical section.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	saved, err := r.AppendEntries(ctx, []domain.LedgerEntry{entry})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// AppendEntries appends entries for one account in order, atomically. The
// account row is locked up front, each entry is applied to the running
// balances, and the balance columns are written back before commit. An entry
// whose (account, reference) already exists is returned as stored without a
// second application.
func (r *PgxLedgerRepository) AppendEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries to append", apperrors.ErrValidation)
	}
	accountID := entries[0].AccountID
	for _, e := range entries[1:] {
		if e.AccountID != accountID {
			return nil, fmt.Errorf("%w: entries in one append must target one account", apperrors.ErrValidation)
		}
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockedModel, err := findAccountForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	account := mapping.ToDomainWalletAccount(*lockedModel)

	state := newAppendState(account)
	results := make([]domain.LedgerEntry, 0, len(entries))
	applied := false
	lastActor := ""

	insertQuery := `
		INSERT INTO wallet_ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	for _, entry := range entries {
		existing, err := findEntryByReference(ctx, tx, accountID, entry.Reference)
		if err != nil {
			return nil, err
		}

		resolved, appliedNow, err := state.resolve(entry, existing)
		if err != nil {
			return nil, err
		}
		results = append(results, resolved)
		if !appliedNow {
			// Idempotent replay: the original result stands.
			continue
		}

		m := mapping.ToModelLedgerEntry(resolved)
		if _, err := tx.Exec(ctx, insertQuery,
			m.EntryID,
			m.AccountID,
			m.EntryType,
			m.Amount,
			m.CurrencyCode,
			m.Reference,
			m.ExternalReference,
			m.ActorID,
			m.Note,
			m.Metadata,
			m.OccurredAt,
			m.BalanceAfter,
			m.CreatedAt,
			m.CreatedBy,
		); err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("%w: reference %s already used for account %s", apperrors.ErrDuplicate, resolved.Reference, accountID)
			}
			return nil, apperrors.NewAppError(500, "failed to insert ledger entry "+m.EntryID, err)
		}

		applied = true
		lastActor = resolved.ActorID
	}

	if applied {
		updateQuery := `
			UPDATE wallet_accounts
			SET current_balance = $2, available_balance = $3, pending_hold_balance = $4,
			    status = $5, last_updated_at = $6, last_updated_by = $7
			WHERE account_id = $1;
		`
		if _, err := tx.Exec(ctx, updateQuery,
			accountID,
			state.balances.Current,
			state.balances.Available,
			state.balances.PendingHold,
			string(state.status),
			time.Now(),
			lastActor,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to update balances of wallet account "+accountID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return results, nil
}

// findEntryByReference looks up an entry by its idempotency key within tx.
// Returns nil without error when no row exists.
func findEntryByReference(ctx context.Context, tx pgx.Tx, accountID, reference string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM wallet_ledger_entries WHERE account_id = $1 AND reference = $2;`

	m, err := scanLedgerEntry(tx.QueryRow(ctx, query, accountID, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to check ledger reference "+reference, err)
	}
	entry := mapping.ToDomainLedgerEntry(*m)
	return &entry, nil
}

// ListEntriesByAccount retrieves a page of entries, newest first, using an
// (occurred_at, created_at) cursor token.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, workspaceID, accountID string, limit int, nextToken *string, filter portsrepo.ListEntriesFilter) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + qualifiedLedgerColumns("e") + `
		FROM wallet_ledger_entries e
		JOIN wallet_accounts a ON e.account_id = a.account_id
		WHERE e.account_id = $1 AND a.workspace_id = $2
	`
	args := []interface{}{accountID, workspaceID}

	if filter.Since != nil {
		args = append(args, *filter.Since)
		baseQuery += ` AND e.occurred_at >= $` + strconv.Itoa(len(args))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		baseQuery += ` AND e.occurred_at <= $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastOccurredAt, lastCreatedAt)
		baseQuery += ` AND (e.occurred_at, e.created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY e.occurred_at DESC, e.created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	collected, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(collected) > limit {
		last := collected[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.CreatedAt)
		nextTokenVal = &token
		collected = collected[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(collected), nextTokenVal, nil
}

// FindAllEntriesByAccount retrieves the full history in replay order.
func (r *PgxLedgerRepository) FindAllEntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM wallet_ledger_entries
		WHERE account_id = $1
		ORDER BY occurred_at ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query full ledger of account "+accountID, err)
	}
	defer rows.Close()

	collected, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(collected), nil
}

// ListRecentEntriesByWorkspace retrieves the newest entries across all of a
// workspace's accounts.
func (r *PgxLedgerRepository) ListRecentEntriesByWorkspace(ctx context.Context, workspaceID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + qualifiedLedgerColumns("e") + `
		FROM wallet_ledger_entries e
		JOIN wallet_accounts a ON e.account_id = a.account_id
		WHERE a.workspace_id = $1
		ORDER BY e.occurred_at DESC, e.created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recent ledger entries for workspace "+workspaceID, err)
	}
	defer rows.Close()

	collected, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(collected), nil
}

// ListEntriesByWorkspaceSince retrieves workspace entries within the window,
// oldest first.
func (r *PgxLedgerRepository) ListEntriesByWorkspaceSince(ctx context.Context, workspaceID string, since time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + qualifiedLedgerColumns("e") + `
		FROM wallet_ledger_entries e
		JOIN wallet_accounts a ON e.account_id = a.account_id
		WHERE a.workspace_id = $1 AND e.occurred_at >= $2
		ORDER BY e.occurred_at ASC, e.created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID, since)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query windowed ledger entries for workspace "+workspaceID, err)
	}
	defer rows.Close()

	collected, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(collected), nil
}

func qualifiedLedgerColumns(alias string) string {
	return alias + `.entry_id, ` + alias + `.account_id, ` + alias + `.entry_type, ` + alias + `.amount, ` +
		alias + `.currency_code, ` + alias + `.reference, ` + alias + `.external_reference, ` + alias + `.actor_id, ` +
		alias + `.note, ` + alias + `.metadata, ` + alias + `.occurred_at, ` + alias + `.balance_after, ` +
		alias + `.created_at, ` + alias + `.created_by`
}

func collectLedgerEntries(rows pgx.Rows) ([]models.WalletLedgerEntry, error) {
	entries := make([]models.WalletLedgerEntry, 0)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}
	return entries, nil
}
