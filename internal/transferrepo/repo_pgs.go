// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"database/sql"

	"github.com/go-vault/vault-bank/internal/accountrepo"
	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/dbpkg"
	"github.com/go-vault/vault-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxTxAttempts bounds transparent retries of the transfer transaction on
// serialization failures. The transaction has no side effects until commit,
// so a retry is always safe.
const maxTxAttempts = 3

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transfer RepoPGS scoped to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transfer RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transactions (sender_account, recipient_account, sender_name, recipient_name, amount, type, status)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, sender_account, recipient_account, sender_name, recipient_name, amount, type, status, timestamp
`

func (r *RepoPGS) create(ctx context.Context, senderAccount, recipientAccount, senderName, recipientName, amount string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		senderAccount,
		recipientAccount,
		senderName,
		recipientName,
		amount,
		domain.TransactionTypeTransfer,
		domain.TransactionStatusComplete,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.SenderAccount,
		&t.RecipientAccount,
		&t.SenderName,
		&t.RecipientName,
		&t.Amount,
		&t.Type,
		&t.Status,
		&t.Timestamp,
	)

	if err != nil {
		l.Error().Err(err).Send()
		return t, err
	}

	return t, nil
}

const getQuery = `
SELECT
	id, sender_account, recipient_account, sender_name, recipient_name, amount, type, status, timestamp
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.SenderAccount,
		&t.RecipientAccount,
		&t.SenderName,
		&t.RecipientName,
		&t.Amount,
		&t.Type,
		&t.Status,
		&t.Timestamp,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listAllQuery = `
SELECT
	id, sender_account, recipient_account, sender_name, recipient_name, amount, type, status, timestamp
FROM transactions
WHERE sender_account = $1 OR recipient_account = $1
ORDER BY timestamp DESC, id DESC
LIMIT $2 OFFSET $3
`

const listSentQuery = `
SELECT
	id, sender_account, recipient_account, sender_name, recipient_name, amount, type, status, timestamp
FROM transactions
WHERE sender_account = $1
ORDER BY timestamp DESC, id DESC
LIMIT $2 OFFSET $3
`

const listReceivedQuery = `
SELECT
	id, sender_account, recipient_account, sender_name, recipient_name, amount, type, status, timestamp
FROM transactions
WHERE recipient_account = $1
ORDER BY timestamp DESC, id DESC
LIMIT $2 OFFSET $3
`

// List returns the transaction history for the given account, most
// recent first.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	query := listAllQuery

	switch arg.Direction {
	case domain.DirectionSent:
		query = listSentQuery
	case domain.DirectionReceived:
		query = listReceivedQuery
	}

	rows, err := r.db.QueryContext(ctx, query, arg.AccountNumber, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.SenderAccount,
			&t.RecipientAccount,
			&t.SenderName,
			&t.RecipientName,
			&t.Amount,
			&t.Type,
			&t.Status,
			&t.Timestamp,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const lockByNumberQuery = `
SELECT
	account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
FROM accounts
WHERE account_number = $1
FOR UPDATE
`

const lockByNumberAndNameQuery = `
SELECT
	account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at
FROM accounts
WHERE account_number = $1 AND holder_name = $2
FOR UPDATE
`

func scanAccount(row *sql.Row) (domain.Account, error) {
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

	return a, err
}

// lockAccounts reads both accounts with row locks, always in ascending
// account number order to avoid deadlocks between concurrent transfers.
// The recipient is matched on both number and holder name; a name mismatch
// is indistinguishable from a missing account.
func (r *RepoPGS) lockAccounts(ctx context.Context, tx *sql.Tx, arg domain.CreateTransferParams) (sender, recipient domain.Account, err error) {
	l := zerolog.Ctx(ctx)

	lockSender := func() error {
		sender, err = scanAccount(tx.QueryRowContext(ctx, lockByNumberQuery, arg.SenderAccount))
		if err == sql.ErrNoRows {
			// The sender is derived from an authenticated session and must exist.
			l.Error().Str("sender_account", arg.SenderAccount).Msg("sender account missing")
			return errorspkg.ErrInternal
		}

		return err
	}

	lockRecipient := func() error {
		recipient, err = scanAccount(tx.QueryRowContext(ctx, lockByNumberAndNameQuery, arg.RecipientAccount, arg.RecipientName))
		if err == sql.ErrNoRows {
			return domain.ErrRecipientNotFound
		}

		return err
	}

	if arg.SenderAccount < arg.RecipientAccount {
		if err = lockSender(); err != nil {
			return sender, recipient, err
		}
		err = lockRecipient()
	} else {
		if err = lockRecipient(); err != nil {
			return sender, recipient, err
		}
		err = lockSender()
	}

	return sender, recipient, err
}

// Transfer moves money between two accounts.
//
// It re-reads both accounts under row locks, re-validates the recipient
// and the sender balance, updates both balances and records the
// transaction within a single database transaction. Any failure aborts
// the transaction with no persisted effect.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var (
		result domain.TransferTxResult
		err    error
	)

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		result, err = r.transferTx(ctx, arg)
		if err == nil || !dbpkg.IsSerializationFailure(err) {
			break
		}

		l.Info().Int("attempt", attempt+1).Msg("retrying transfer transaction after conflict")
	}

	if err != nil {
		switch err {
		case domain.ErrRecipientNotFound,
			domain.ErrRecipientInactive,
			domain.ErrInsufficientFunds,
			errorspkg.ErrInternal,
			errorspkg.ErrUnavailable:
			return result, err
		}

		l.Error().Err(err).Send()

		return result, translateTxError(err)
	}

	return result, nil
}

// translateTxError classifies an infrastructure failure for the caller.
// A conflict that exhausted the retry budget and a broken connection are
// both transient, so they map to ErrUnavailable rather than ErrInternal.
func translateTxError(err error) error {
	if dbpkg.IsSerializationFailure(err) || dbpkg.IsConnectionError(err) {
		return errorspkg.ErrUnavailable
	}

	return errorspkg.ErrInternal
}

func (r *RepoPGS) transferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, translateTxError(err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	sender, recipient, err := r.lockAccounts(ctx, tx, arg)
	if err != nil {
		return result, err
	}

	if !recipient.IsActive {
		return result, domain.ErrRecipientInactive
	}

	senderBalance, err := decimal.NewFromString(sender.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	if senderBalance.LessThan(amount) {
		return result, domain.ErrInsufficientFunds
	}

	accountRepo := accountrepo.NewRepoPGS(tx)

	result.SenderAccount, err = accountRepo.AddBalance(ctx, "-"+arg.Amount, arg.SenderAccount)
	if err != nil {
		return result, err
	}

	result.RecipientAccount, err = accountRepo.AddBalance(ctx, arg.Amount, arg.RecipientAccount)
	if err != nil {
		return result, err
	}

	txRepo := NewTxRepoPGS(tx)

	result.Transaction, err = txRepo.create(ctx,
		sender.AccountNumber,
		recipient.AccountNumber,
		sender.HolderName,
		arg.RecipientName,
		arg.Amount,
	)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, err
	}

	return result, nil
}
