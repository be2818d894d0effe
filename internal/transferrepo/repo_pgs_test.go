//go:build integration

package transferrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-vault/vault-bank/internal/accountrepo"
	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/internal/integrationtest"
	"github.com/go-vault/vault-bank/internal/middleware"
	"github.com/go-vault/vault-bank/internal/test"
	"github.com/go-vault/vault-bank/internal/transferrepo"
	"github.com/go-vault/vault-bank/pkg/configpkg"
	"github.com/go-vault/vault-bank/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

type seededPair struct {
	sender    domain.Account
	recipient domain.Account
}

func seedPair(t *testing.T, db *sql.DB, senderBalance, recipientBalance string) seededPair {
	t.Helper()

	senderUser := integrationtest.SeedUser(t, db,
		randompkg.Owner(), randompkg.String(10), randompkg.Owner(), randompkg.Email(), domain.RoleUser)
	recipientUser := integrationtest.SeedUser(t, db,
		randompkg.Owner(), randompkg.String(10), randompkg.Owner(), randompkg.Email(), domain.RoleUser)

	sender := integrationtest.SeedAccount(t, db,
		test.RandomAccountNumber(), senderUser.Username, senderUser.FullName, senderBalance)
	recipient := integrationtest.SeedAccount(t, db,
		test.RandomAccountNumber(), recipientUser.Username, recipientUser.FullName, recipientBalance)

	return seededPair{sender: sender, recipient: recipient}
}

func TestTransfer(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	repo := transferrepo.NewRepoPGS(db)
	accounts := accountrepo.NewRepoPGS(db)

	t.Run("OK", func(t *testing.T) {
		pair := seedPair(t, db, "500", "100")

		arg := domain.CreateTransferParams{
			SenderAccount:    pair.sender.AccountNumber,
			RecipientAccount: pair.recipient.AccountNumber,
			RecipientName:    pair.recipient.HolderName,
			Amount:           "200",
		}

		result, err := repo.Transfer(ctx, arg)
		require.NoError(t, err)

		require.Equal(t, "300", decimal.RequireFromString(result.SenderAccount.Balance).String())
		require.Equal(t, "300", decimal.RequireFromString(result.RecipientAccount.Balance).String())
		require.NotNil(t, result.SenderAccount.LastTransactionDate)
		require.NotNil(t, result.RecipientAccount.LastTransactionDate)

		require.Equal(t, pair.sender.AccountNumber, result.Transaction.SenderAccount)
		require.Equal(t, pair.recipient.AccountNumber, result.Transaction.RecipientAccount)
		require.Equal(t, pair.sender.HolderName, result.Transaction.SenderName)
		require.Equal(t, pair.recipient.HolderName, result.Transaction.RecipientName)
		require.Equal(t, "200", decimal.RequireFromString(result.Transaction.Amount).String())
		require.Equal(t, domain.TransactionTypeTransfer, result.Transaction.Type)
		require.Equal(t, domain.TransactionStatusComplete, result.Transaction.Status)
		require.False(t, result.Transaction.Timestamp.IsZero())

		// Exactly one record for the whole operation.
		history, err := repo.List(ctx, domain.ListTransactionsParams{
			AccountNumber: pair.sender.AccountNumber,
			Direction:     domain.DirectionAll,
			Limit:         10,
		})
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, result.Transaction.ID, history[0].ID)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		pair := seedPair(t, db, "50", "100")

		arg := domain.CreateTransferParams{
			SenderAccount:    pair.sender.AccountNumber,
			RecipientAccount: pair.recipient.AccountNumber,
			RecipientName:    pair.recipient.HolderName,
			Amount:           "200",
		}

		_, err := repo.Transfer(ctx, arg)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)

		gotSender, err := accounts.GetByNumber(ctx, pair.sender.AccountNumber)
		require.NoError(t, err)
		require.Equal(t, "50", decimal.RequireFromString(gotSender.Balance).String())

		gotRecipient, err := accounts.GetByNumber(ctx, pair.recipient.AccountNumber)
		require.NoError(t, err)
		require.Equal(t, "100", decimal.RequireFromString(gotRecipient.Balance).String())

		history, err := repo.List(ctx, domain.ListTransactionsParams{
			AccountNumber: pair.sender.AccountNumber,
			Direction:     domain.DirectionAll,
			Limit:         10,
		})
		require.NoError(t, err)
		require.Empty(t, history)
	})

	t.Run("RecipientNameMismatch", func(t *testing.T) {
		pair := seedPair(t, db, "500", "100")

		arg := domain.CreateTransferParams{
			SenderAccount:    pair.sender.AccountNumber,
			RecipientAccount: pair.recipient.AccountNumber,
			RecipientName:    "somebody else",
			Amount:           "200",
		}

		_, err := repo.Transfer(ctx, arg)
		require.ErrorIs(t, err, domain.ErrRecipientNotFound)

		gotSender, err := accounts.GetByNumber(ctx, pair.sender.AccountNumber)
		require.NoError(t, err)
		require.Equal(t, "500", decimal.RequireFromString(gotSender.Balance).String())
	})

	t.Run("RecipientMissing", func(t *testing.T) {
		pair := seedPair(t, db, "500", "100")

		arg := domain.CreateTransferParams{
			SenderAccount:    pair.sender.AccountNumber,
			RecipientAccount: test.RandomAccountNumber(),
			RecipientName:    pair.recipient.HolderName,
			Amount:           "200",
		}

		_, err := repo.Transfer(ctx, arg)
		require.ErrorIs(t, err, domain.ErrRecipientNotFound)
	})

	t.Run("RecipientInactive", func(t *testing.T) {
		pair := seedPair(t, db, "500", "100")

		integrationtest.SetAccountActive(t, db, pair.recipient.AccountNumber, false)

		arg := domain.CreateTransferParams{
			SenderAccount:    pair.sender.AccountNumber,
			RecipientAccount: pair.recipient.AccountNumber,
			RecipientName:    pair.recipient.HolderName,
			Amount:           "200",
		}

		_, err := repo.Transfer(ctx, arg)
		require.ErrorIs(t, err, domain.ErrRecipientInactive)

		gotSender, err := accounts.GetByNumber(ctx, pair.sender.AccountNumber)
		require.NoError(t, err)
		require.Equal(t, "500", decimal.RequireFromString(gotSender.Balance).String())
	})
}

// TestTransferConcurrent drains the sender with two concurrent transfers
// whose amounts each equal the full balance. Exactly one may succeed.
func TestTransferConcurrent(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	repo := transferrepo.NewRepoPGS(db)
	accounts := accountrepo.NewRepoPGS(db)

	pair := seedPair(t, db, "300", "0")

	arg := domain.CreateTransferParams{
		SenderAccount:    pair.sender.AccountNumber,
		RecipientAccount: pair.recipient.AccountNumber,
		RecipientName:    pair.recipient.HolderName,
		Amount:           "300",
	}

	const n = 2

	errs := make([]error, n)

	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = repo.Transfer(ctx, arg)
		}(i)
	}

	wg.Wait()

	var succeeded, rejected int

	for _, err := range errs {
		switch err {
		case nil:
			succeeded++
		case domain.ErrInsufficientFunds:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, rejected)

	gotSender, err := accounts.GetByNumber(ctx, pair.sender.AccountNumber)
	require.NoError(t, err)
	require.Equal(t, "0", decimal.RequireFromString(gotSender.Balance).String())

	gotRecipient, err := accounts.GetByNumber(ctx, pair.recipient.AccountNumber)
	require.NoError(t, err)
	require.Equal(t, "300", decimal.RequireFromString(gotRecipient.Balance).String())

	history, err := repo.List(ctx, domain.ListTransactionsParams{
		AccountNumber: pair.sender.AccountNumber,
		Direction:     domain.DirectionSent,
		Limit:         10,
	})
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestList(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	repo := transferrepo.NewRepoPGS(db)

	pair := seedPair(t, db, "1000", "1000")

	send := func(sender, recipient domain.Account, amount string) domain.Transaction {
		result, err := repo.Transfer(ctx, domain.CreateTransferParams{
			SenderAccount:    sender.AccountNumber,
			RecipientAccount: recipient.AccountNumber,
			RecipientName:    recipient.HolderName,
			Amount:           amount,
		})
		require.NoError(t, err)

		return result.Transaction
	}

	sent := send(pair.sender, pair.recipient, "100")
	received := send(pair.recipient, pair.sender, "50")

	all, err := repo.List(ctx, domain.ListTransactionsParams{
		AccountNumber: pair.sender.AccountNumber,
		Direction:     domain.DirectionAll,
		Limit:         10,
	})
	require.NoError(t, err)
	require.Len(t, all, 2)

	sentOnly, err := repo.List(ctx, domain.ListTransactionsParams{
		AccountNumber: pair.sender.AccountNumber,
		Direction:     domain.DirectionSent,
		Limit:         10,
	})
	require.NoError(t, err)
	require.Len(t, sentOnly, 1)
	require.Equal(t, sent.ID, sentOnly[0].ID)

	receivedOnly, err := repo.List(ctx, domain.ListTransactionsParams{
		AccountNumber: pair.sender.AccountNumber,
		Direction:     domain.DirectionReceived,
		Limit:         10,
	})
	require.NoError(t, err)
	require.Len(t, receivedOnly, 1)
	require.Equal(t, received.ID, receivedOnly[0].ID)
}
