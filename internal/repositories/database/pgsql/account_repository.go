package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shulepay/shulepay_backend/internal/apperrors"
	"github.com/shulepay/shulepay_backend/internal/core/domain"
	portsrepo "github.com/shulepay/shulepay_backend/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account and priority
// level configuration.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new fee account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, votehead, abbreviation, priority_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	var priorityID sql.NullString
	if account.PriorityID != "" {
		priorityID = sql.NullString{String: account.PriorityID, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Votehead,
		account.Abbreviation,
		priorityID,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, account.Votehead)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, votehead, abbreviation, priority_id, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1;
	`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves every configured account.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT account_id, votehead, abbreviation, priority_id, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		ORDER BY votehead;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// FindPriorityRanks returns accountID -> priority rank for every account
// that has a configured priority level.
func (r *PgxAccountRepository) FindPriorityRanks(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT a.account_id, p.rank
		FROM accounts a
		JOIN priority_levels p ON p.priority_id = a.priority_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load priority ranks: %w", err)
	}
	defer rows.Close()

	ranks := make(map[string]int)
	for rows.Next() {
		var accountID string
		var rank int
		if err := rows.Scan(&accountID, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan priority rank row: %w", err)
		}
		ranks[accountID] = rank
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating priority rank rows: %w", err)
	}
	return ranks, nil
}

// ListPriorityLevels retrieves every priority level ordered by rank
// descending.
func (r *PgxAccountRepository) ListPriorityLevels(ctx context.Context) ([]domain.PriorityLevel, error) {
	query := `
		SELECT priority_id, name, rank, created_at, created_by, last_updated_at, last_updated_by
		FROM priority_levels
		ORDER BY rank DESC, name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list priority levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.PriorityLevel
	for rows.Next() {
		var level domain.PriorityLevel
		if err := rows.Scan(
			&level.PriorityID,
			&level.Name,
			&level.Rank,
			&level.CreatedAt,
			&level.CreatedBy,
			&level.LastUpdatedAt,
			&level.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan priority level row: %w", err)
		}
		levels = append(levels, level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating priority level rows: %w", err)
	}
	return levels, nil
}

// SavePriorityLevel inserts a new priority level.
func (r *PgxAccountRepository) SavePriorityLevel(ctx context.Context, level domain.PriorityLevel) error {
	query := `
		INSERT INTO priority_levels (priority_id, name, rank, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		level.PriorityID,
		level.Name,
		level.Rank,
		level.CreatedAt,
		level.CreatedBy,
		level.LastUpdatedAt,
		level.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: priority level %s already exists", apperrors.ErrDuplicate, level.Name)
		}
		return fmt.Errorf("failed to save priority level %s: %w", level.PriorityID, err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var priorityID sql.NullString
	err := row.Scan(
		&account.AccountID,
		&account.Votehead,
		&account.Abbreviation,
		&priorityID,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if priorityID.Valid {
		account.PriorityID = priorityID.String
	}
	return &account, nil
}
