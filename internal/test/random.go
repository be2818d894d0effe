// Package test provides random entity helpers shared by unit tests.
package test

import (
	"time"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/randompkg"
)

// RandomAccountNumber returns a random well-formed account number.
func RandomAccountNumber() string {
	return "2024" + randompkg.Digits(12)
}

// RandomAccount returns random active account owned by the given owner.
func RandomAccount(owner string) domain.Account {
	return domain.Account{
		AccountNumber: RandomAccountNumber(),
		Owner:         owner,
		HolderName:    randompkg.Owner() + " " + randompkg.Owner(),
		Balance:       randompkg.MoneyAmountBetween(1000, 10_000),
		IsActive:      true,
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomUser returns a random user with the regular role.
func RandomUser() domain.User {
	return domain.User{
		Username:  randompkg.Owner(),
		FullName:  randompkg.Owner() + " " + randompkg.Owner(),
		Email:     randompkg.Email(),
		Role:      domain.RoleUser,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}
