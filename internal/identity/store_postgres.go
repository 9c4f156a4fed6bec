// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

// PostgreSQL implementation of [AccountRepository].
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique violations) are mapped to
// domain-friendly [apperr.AppError] values via dberr so no storage detail
// leaks past this file.
//
// # Schema Table Mapping
//   - identity.account: Master account records and activation state.

package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/signet-id/signet/internal/platform/database/schema"
	"github.com/signet-id/signet/internal/platform/dberr"
)

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// accountColumns is the canonical select list for identity.account.
var accountColumns = strings.Join(schema.IdentityAccount.Columns(), ", ")

/*
Create persists a new account record into the identity.account table.

Description: Initializes timestamps and relies on the unique index on email
to reject duplicates racing past the service-level check.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: Duplicate-email validation error or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.IdentityAccount.Table, accountColumns,
	)

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Activated,
		account.ActivationToken,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return dberr.Wrap(err, "Account", "postgres_account_repo_create")
}

/*
FindByEmail retrieves an account record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountColumns, schema.IdentityAccount.Table, schema.IdentityAccount.Email,
	)

	return repository.scanOne(context, query, email)
}

/*
FindByID retrieves an account record by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountColumns, schema.IdentityAccount.Table, schema.IdentityAccount.ID,
	)

	return repository.scanOne(context, query, id)
}

/*
FindByActivationToken retrieves the account holding the given activation token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByActivationToken(context context.Context, token string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountColumns, schema.IdentityAccount.Table, schema.IdentityAccount.ActivationToken,
	)

	return repository.scanOne(context, query, token)
}

/*
MarkActivated updates the account's status to activated = TRUE.

Description: Intentionally idempotent — flipping an already-true flag is a
successful no-op, matching the permissive re-activation behavior.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresAccountRepository) MarkActivated(context context.Context, accountID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE, %s = $2 WHERE %s = $1`,
		schema.IdentityAccount.Table,
		schema.IdentityAccount.Activated,
		schema.IdentityAccount.UpdatedAt,
		schema.IdentityAccount.ID,
	)

	_, err := repository.pool.Exec(context, query, accountID, time.Now())
	return dberr.Wrap(err, "Account", "postgres_account_repo_mark_activated")
}

/*
FindAll returns every account record, newest first.

Parameters:
  - context: context.Context

Returns:
  - []*Account: All persisted accounts
  - error: Database errors
*/
func (repository *PostgresAccountRepository) FindAll(context context.Context) ([]*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC`,
		accountColumns, schema.IdentityAccount.Table, schema.IdentityAccount.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_all")
	}
	defer rows.Close()

	accounts := make([]*Account, 0)
	for rows.Next() {
		account := &Account{}
		if err := rows.Scan(
			&account.ID,
			&account.Email,
			&account.PasswordHash,
			&account.Activated,
			&account.ActivationToken,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Account", "postgres_account_repo_scan")
		}
		accounts = append(accounts, account)
	}

	return accounts, dberr.Wrap(rows.Err(), "Account", "postgres_account_repo_rows")
}

// scanOne runs a single-row account query and hydrates the entity.
func (repository *PostgresAccountRepository) scanOne(context context.Context, query string, argument any) (*Account, error) {
	account := &Account{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Activated,
		&account.ActivationToken,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find")
	}

	return account, nil
}
