package domain

import (
	"errors"
	"time"
)

var (
	// ErrBeneficiaryAlreadyExists indicates that the owner already saved this account number.
	ErrBeneficiaryAlreadyExists = errors.New("beneficiary already exists")
	// ErrBeneficiaryNotFound indicates that the beneficiary is not found.
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
)

// Beneficiary holds a saved transfer recipient for a user.
type Beneficiary struct {
	ID            int64     `json:"id"`
	Owner         string    `json:"owner"`
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateBeneficiaryParams is the input data to save a beneficiary.
type CreateBeneficiaryParams struct {
	Owner         string `json:"owner"`
	AccountNumber string `json:"account_number"`
	Name          string `json:"name"`
}
