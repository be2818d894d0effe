// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-vault/vault-bank/cmd/httpserver"
	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/internal/middleware"
	"github.com/go-vault/vault-bank/pkg/configpkg"
	"github.com/go-vault/vault-bank/pkg/dbpkg"
	"github.com/go-vault/vault-bank/pkg/passpkg"
)

// SetupServer returns test server that cleans up database after each integration test.
func SetupServer(t *testing.T) *httpserver.Server {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../configs") returned error: %v`, err)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t, config.DBDriver, config.DBSource)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush flushes all db tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables string

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema='public' AND table_name != 'schema_migrations';`

	row := db.QueryRow(query)

	err := row.Scan(&tables)
	if err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables + " CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB sets up connection with database for testing and then cleans it.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T, driver, source string) *sql.Tx {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return tx
}

// SeedUser inserts a user row directly for tests that need an owner to exist.
func SeedUser(t *testing.T, db dbpkg.SQLInterface, username, password, fullName, email, role string) domain.User {
	t.Helper()

	hashed, err := passpkg.Hash(password)
	if err != nil {
		t.Fatalf("passpkg.Hash(password) returned error: %v", err)
	}

	const query = `
	INSERT INTO users (username, hashed_password, full_name, email, role)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING username, hashed_password, full_name, email, role, password_changed_at, created_at;`

	var u domain.User

	row := db.QueryRowContext(context.Background(), query, username, hashed, fullName, email, role)
	err = row.Scan(&u.Username, &u.HashedPassword, &u.FullName, &u.Email, &u.Role, &u.PasswordChangedAt, &u.CreatedAt)

	if err != nil {
		t.Fatalf("seeding user %v failed: %v", username, err)
	}

	return u
}

// SeedAccount inserts an account row directly with the given number and balance.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, number, owner, holderName, balance string) domain.Account {
	t.Helper()

	const query = `
	INSERT INTO accounts (account_number, owner, holder_name, balance)
	VALUES ($1, $2, $3, $4)
	RETURNING account_number, owner, holder_name, balance, is_active, last_transaction_date, created_at;`

	var a domain.Account

	row := db.QueryRowContext(context.Background(), query, number, owner, holderName, balance)
	err := row.Scan(&a.AccountNumber, &a.Owner, &a.HolderName, &a.Balance, &a.IsActive, &a.LastTransactionDate, &a.CreatedAt)

	if err != nil {
		t.Fatalf("seeding account %v failed: %v", number, err)
	}

	return a
}

// SetAccountActive toggles the is_active flag for tests of inactive recipients.
func SetAccountActive(t *testing.T, db dbpkg.SQLInterface, number string, active bool) {
	t.Helper()

	_, err := db.ExecContext(context.Background(),
		`UPDATE accounts SET is_active = $1 WHERE account_number = $2`, active, number)
	if err != nil {
		t.Fatalf("updating account %v failed: %v", number, err)
	}
}
