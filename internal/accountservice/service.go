// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/randompkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Account number candidates start with a fixed bank prefix followed by
// 12 random decimal digits.
const (
	numberPrefix      = "2024"
	numberRandomPart  = 12
	maxNumberAttempts = 10
)

// Initial balances granted at account opening.
const (
	initialBalance      = "1000"
	initialBalanceAdmin = "1000000"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	GetByNumber(ctx context.Context, number string) (domain.Account, error)
	GetByNumberAndName(ctx context.Context, number, name string) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
	SetBalance(ctx context.Context, balance, number string) (domain.Account, error)
	List(ctx context.Context, limit, offset int32) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// generateAccountNumber provisions a unique account number.
//
// It probes the directory for each candidate and retries on collision up
// to maxNumberAttempts. Exhausting the budget is a provisioning error,
// not an assumption.
func (s *Service) generateAccountNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := numberPrefix + randompkg.Digits(numberRandomPart)

		_, err := s.repo.GetByNumber(ctx, candidate)
		if err == domain.ErrAccountNotFound {
			return candidate, nil
		}

		if err != nil {
			return "", err
		}
	}

	return "", domain.ErrAccountNumbersExhausted
}

// Open provisions an account with a fresh unique number and the initial
// balance for the given role.
func (s *Service) Open(ctx context.Context, owner, holderName, role string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	number, err := s.generateAccountNumber(ctx)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, err
	}

	balance := initialBalance
	if role == domain.RoleAdmin {
		balance = initialBalanceAdmin
	}

	arg := domain.CreateAccountParams{
		AccountNumber: number,
		Owner:         owner,
		HolderName:    holderName,
		Balance:       balance,
	}

	account, err := s.repo.Create(ctx, arg)
	if err != nil {
		return account, err
	}

	return account, nil
}

// GetByOwner returns the account owned by the given user.
func (s *Service) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	return s.repo.GetByOwner(ctx, owner)
}

// GetByNumber returns the account with the given number.
func (s *Service) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	return s.repo.GetByNumber(ctx, number)
}

// List returns accounts page by page.
func (s *Service) List(ctx context.Context, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// SetBalance overrides the balance of the given account.
func (s *Service) SetBalance(ctx context.Context, balance, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	balanceDecimal, err := decimal.NewFromString(balance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if balanceDecimal.IsNegative() {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	return s.repo.SetBalance(ctx, balance, number)
}
