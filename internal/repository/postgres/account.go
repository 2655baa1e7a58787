package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/lib/pq"
)

// AccountRepository implements account.Repository
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new linked-account repository
func NewAccountRepository(db *sql.DB) account.Repository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, aws_account_id, name, description, role_arn, external_id, state, last_verified_at, created_at, updated_at`

// Create inserts a new account record
func (r *AccountRepository) Create(ctx context.Context, a *account.LinkedAccount) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO linked_accounts (id, aws_account_id, name, description, role_arn, external_id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.AWSAccountID, a.Name, a.Description, a.RoleARN, a.ExternalID,
		string(a.State), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("AWS account " + a.AWSAccountID + " is already linked")
		}
		return errors.DatabaseError("Failed to create linked account", err)
	}

	return nil
}

// GetByID retrieves an account by internal id
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.LinkedAccount, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM linked_accounts WHERE id = $1`, id)
}

// GetByAWSAccountID retrieves an account by its external identifier
func (r *AccountRepository) GetByAWSAccountID(ctx context.Context, awsAccountID string) (*account.LinkedAccount, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM linked_accounts WHERE aws_account_id = $1`, awsAccountID)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg interface{}) (*account.LinkedAccount, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Linked account")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get linked account", err)
	}
	return a, nil
}

// List retrieves every linked account regardless of state
func (r *AccountRepository) List(ctx context.Context) ([]*account.LinkedAccount, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM linked_accounts ORDER BY created_at, id`)
}

// ListByState retrieves accounts in the given state
func (r *AccountRepository) ListByState(ctx context.Context, state account.VerificationState) ([]*account.LinkedAccount, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM linked_accounts WHERE state = $1 ORDER BY created_at, id`, string(state))
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...interface{}) ([]*account.LinkedAccount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list linked accounts", err)
	}
	defer rows.Close()

	var accounts []*account.LinkedAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan linked account", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate linked accounts", err)
	}

	return accounts, nil
}

// Update applies a partial update to the account's mutable fields
func (r *AccountRepository) Update(ctx context.Context, id string, update account.Update) (*account.LinkedAccount, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.RoleARN != nil {
		existing.RoleARN = *update.RoleARN
	}
	if update.ExternalID != nil {
		existing.ExternalID = *update.ExternalID
	}
	existing.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE linked_accounts
		SET name = $1, description = $2, role_arn = $3, external_id = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		existing.Name, existing.Description, existing.RoleARN, existing.ExternalID,
		existing.UpdatedAt, id,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update linked account", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}

	return existing, nil
}

// SetState stores a new verification state
func (r *AccountRepository) SetState(ctx context.Context, id string, state account.VerificationState) error {
	query := `UPDATE linked_accounts SET state = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, string(state), time.Now().UTC(), id)
	if err != nil {
		return errors.DatabaseError("Failed to update verification state", err)
	}
	return requireRow(result)
}

// MarkVerified stores the verified state and last-verified timestamp in
// one statement so the two can never disagree.
func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	now := time.Now().UTC()
	query := `UPDATE linked_accounts SET state = $1, last_verified_at = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, string(account.StateVerified), now, now, id)
	if err != nil {
		return errors.DatabaseError("Failed to mark account verified", err)
	}
	return requireRow(result)
}

// Delete removes the account record permanently
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM linked_accounts WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete linked account", err)
	}
	return requireRow(result)
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(s scanner) (*account.LinkedAccount, error) {
	var a account.LinkedAccount
	var state string
	var lastVerified sql.NullTime

	err := s.Scan(
		&a.ID, &a.AWSAccountID, &a.Name, &a.Description, &a.RoleARN, &a.ExternalID,
		&state, &lastVerified, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.State = account.VerificationState(state)
	if lastVerified.Valid {
		t := lastVerified.Time
		a.LastVerified = &t
	}
	return &a, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Linked account")
	}
	return nil
}

// isUniqueViolation recognizes duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
