// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the user already has an account.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrAccountNumbersExhausted indicates that no unique account number
	// could be provisioned within the attempt budget.
	ErrAccountNumbersExhausted = errors.New("could not generate a unique account number")
)

// Account holds balance data for a single user account.
//
// AccountNumber is a 16-digit string and never changes once assigned.
// Balance is a non-negative decimal string mutated only by transfers
// and the admin balance override.
type Account struct {
	AccountNumber       string     `json:"account_number"`
	Owner               string     `json:"owner"`
	HolderName          string     `json:"holder_name"`
	Balance             string     `json:"balance"`
	IsActive            bool       `json:"is_active"`
	LastTransactionDate *time.Time `json:"last_transaction_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	AccountNumber string `json:"account_number"`
	Owner         string `json:"owner"`
	HolderName    string `json:"holder_name"`
	Balance       string `json:"balance"`
}
