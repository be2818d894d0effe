// Package beneficiaryservice manages business logic layer of beneficiaries.
package beneficiaryservice

import (
	"context"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/accnumpkg"
)

// Repo provides data access layer interface needed by beneficiary service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package beneficiaryservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateBeneficiaryParams) (domain.Beneficiary, error)
	List(ctx context.Context, owner string) ([]domain.Beneficiary, error)
	Delete(ctx context.Context, id int64, owner string) error
}

// Service facilitates beneficiary service layer logic.
type Service struct {
	repo Repo
}

// New returns beneficiary service struct to manage beneficiary bussines logic.
func New(br Repo) *Service {
	return &Service{repo: br}
}

// Add saves a beneficiary for the given owner. Duplicate account numbers
// per owner are rejected.
func (s *Service) Add(ctx context.Context, owner, accountNumber, name string) (domain.Beneficiary, error) {
	if !accnumpkg.IsValidAccountNumber(accountNumber) {
		return domain.Beneficiary{}, domain.ErrInvalidAccountNumber
	}

	arg := domain.CreateBeneficiaryParams{
		Owner:         owner,
		AccountNumber: accountNumber,
		Name:          name,
	}

	return s.repo.Create(ctx, arg)
}

// List returns all beneficiaries saved by the given owner.
func (s *Service) List(ctx context.Context, owner string) ([]domain.Beneficiary, error) {
	return s.repo.List(ctx, owner)
}

// Remove deletes the beneficiary if it belongs to the owner.
func (s *Service) Remove(ctx context.Context, id int64, owner string) error {
	return s.repo.Delete(ctx, id, owner)
}
