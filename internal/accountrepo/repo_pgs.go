// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/dbpkg"
	"github.com/go-vault/vault-bank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (account_number, owner, holder_name, balance)
VALUES
    ($1, $2, $3, $4)
RETURNING account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountNumber,
		arg.Owner,
		arg.HolderName,
		arg.Balance,
	)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.HolderName,
		&a.Balance,
		&a.IsActive,
		&a.LastTransactionDate,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_owner_fkey":
				return a, domain.ErrOwnerNotFound
			case "accounts_owner_key":
				return a, domain.ErrAccountAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByNumberQuery = `
SELECT
	account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
FROM accounts
WHERE account_number = $1
`

// GetByNumber returns the account with the given account number.
func (r *RepoPGS) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByNumberQuery, number)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.HolderName,
		&a.Balance,
		&a.IsActive,
		&a.LastTransactionDate,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByNumberAndNameQuery = `
SELECT
	account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
FROM accounts
WHERE account_number = $1 AND holder_name = $2
`

// GetByNumberAndName returns the account matching both the account number
// and the holder name. A missing account and a name mismatch produce the
// same ErrAccountNotFound.
func (r *RepoPGS) GetByNumberAndName(ctx context.Context, number, name string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByNumberAndNameQuery, number, name)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.HolderName,
		&a.Balance,
		&a.IsActive,
		&a.LastTransactionDate,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByOwnerQuery = `
SELECT
	account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
FROM accounts
WHERE owner = $1
`

// GetByOwner returns the account owned by the given user.
func (r *RepoPGS) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByOwnerQuery, owner)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.HolderName,
		&a.Balance,
		&a.IsActive,
		&a.LastTransactionDate,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, last_transaction_date = now()
WHERE account_number = $2
RETURNING account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
`

// AddBalance applies a signed delta to the account's balance, stamps the
// last transaction date and returns the changed account. It must only be
// called inside the same transaction as its paired counter-entry.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, number)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.HolderName,
		&a.Balance,
		&a.IsActive,
		&a.LastTransactionDate,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientFunds
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const setBalanceQuery = `
UPDATE accounts
SET balance = $1, last_transaction_date = now()
WHERE account_number = $2
RETURNING account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
`

// SetBalance overrides the account's balance and returns the changed account.
func (r *RepoPGS) SetBalance(ctx context.Context, balance string, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setBalanceQuery, balance, number)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.HolderName,
		&a.Balance,
		&a.IsActive,
		&a.LastTransactionDate,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInvalidAmount
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listAccounts = `
SELECT
	account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
FROM accounts
ORDER BY created_at
LIMIT $1 OFFSET $2
`

// List returns the specified number of accounts.
func (r *RepoPGS) List(ctx context.Context, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listAccounts, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.AccountNumber,
			&a.Owner,
			&a.HolderName,
			&a.Balance,
			&a.IsActive,
			&a.LastTransactionDate,
			&a.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
