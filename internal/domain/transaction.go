package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates that the amount is not a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTransferLimitExceeded indicates that the amount is over the per-transaction ceiling.
	ErrTransferLimitExceeded = errors.New("transfer limit exceeded")
	// ErrInvalidAccountNumber indicates that the account number is not 16 digits.
	ErrInvalidAccountNumber = errors.New("invalid account number")
	// ErrSelfTransfer indicates a transfer to the sender's own account.
	ErrSelfTransfer = errors.New("cannot transfer to own account")
	// ErrRecipientNotFound indicates that no account matches the given
	// number and name pair. A name mismatch is deliberately
	// indistinguishable from a missing account.
	ErrRecipientNotFound = errors.New("recipient account not found or name mismatch")
	// ErrRecipientInactive indicates that the recipient account cannot receive funds.
	ErrRecipientInactive = errors.New("recipient account is inactive")
	// ErrInsufficientFunds indicates that the sender's balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction types and statuses. A transaction either fully commits as
// COMPLETED or is never recorded.
const (
	TransactionTypeTransfer   = "TRANSFER"
	TransactionStatusComplete = "COMPLETED"
)

// Transaction holds an immutable record of a completed transfer.
// Names are denormalized snapshots taken at transfer time.
type Transaction struct {
	ID               int64     `json:"id"`
	SenderAccount    string    `json:"sender_account"`
	RecipientAccount string    `json:"recipient_account"`
	SenderName       string    `json:"sender_name"`
	RecipientName    string    `json:"recipient_name"`
	Amount           string    `json:"amount"` // must be positive
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
}

// CreateTransferParams is the input data for the transfer transaction.
type CreateTransferParams struct {
	SenderAccount    string `json:"sender_account"`
	RecipientAccount string `json:"recipient_account"`
	RecipientName    string `json:"recipient_name"`
	Amount           string `json:"amount"`
}

// Transaction listing directions.
const (
	DirectionAll      = "ALL"
	DirectionSent     = "SENT"
	DirectionReceived = "RECEIVED"
)

// ListTransactionsParams is the input data to get transaction history
// for an account.
type ListTransactionsParams struct {
	AccountNumber string `json:"account_number"`
	Direction     string `json:"direction"`
	Limit         int32  `json:"limit"`
	Offset        int32  `json:"offset"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	Transaction      Transaction `json:"transaction"`
	SenderAccount    Account     `json:"sender_account"`
	RecipientAccount Account     `json:"recipient_account"`
}
