// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/go-vault/vault-bank/internal/accountdelivery"
	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/accnumpkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// transferLimit is the fixed per-transaction ceiling.
var transferLimit = decimal.NewFromInt(10_000)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
	List(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
}

// New return transfer service struct to manage transfer bussines logic.
func New(tr Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
	}
}

// validAmount checks that the amount is a positive decimal with at most
// two decimal places and within the per-transaction ceiling.
func validAmount(ctx context.Context, amount string) error {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	// Compare against the rounded value so trailing zeros ("0.010") pass
	// while any real sub-cent fraction is rejected.
	if !amountDecimal.Equal(amountDecimal.Round(2)) {
		return domain.ErrInvalidAmount
	}

	if amountDecimal.GreaterThan(transferLimit) {
		return domain.ErrTransferLimitExceeded
	}

	return nil
}

// Transfer validates the transfer request and then executes it atomically.
//
// The sender account is resolved from the authenticated username, never
// from client input. All balance checks are repeated inside the
// transaction; the validation here only fails fast.
func (s *Service) Transfer(ctx context.Context, fromUsername string, recipientAccount, recipientName, amount string) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	if err := validAmount(ctx, amount); err != nil {
		return domain.TransferTxResult{}, err
	}

	if !accnumpkg.IsValidAccountNumber(recipientAccount) {
		return domain.TransferTxResult{}, domain.ErrInvalidAccountNumber
	}

	sender, err := s.accountService.GetByOwner(ctx, fromUsername)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.TransferTxResult{}, err
	}

	if recipientAccount == sender.AccountNumber {
		return domain.TransferTxResult{}, domain.ErrSelfTransfer
	}

	arg := domain.CreateTransferParams{
		SenderAccount:    sender.AccountNumber,
		RecipientAccount: recipientAccount,
		RecipientName:    recipientName,
		Amount:           amount,
	}

	result, err := s.repo.Transfer(ctx, arg)
	if err != nil {
		return result, err
	}

	return result, nil
}

// ListTransactions returns the caller's transaction history page by page.
func (s *Service) ListTransactions(ctx context.Context, username, direction string, pageSize, pageID int32) ([]domain.Transaction, error) {
	account, err := s.accountService.GetByOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	if direction != domain.DirectionSent && direction != domain.DirectionReceived {
		direction = domain.DirectionAll
	}

	arg := domain.ListTransactionsParams{
		AccountNumber: account.AccountNumber,
		Direction:     direction,
		Limit:         pageSize,
		Offset:        (pageID - 1) * pageSize,
	}

	return s.repo.List(ctx, arg)
}
