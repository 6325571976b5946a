package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// --- Setup Postgres ---
func setupPostgres(t *testing.T) (*sqlx.DB, func()) {
	logger.Initialize("debug")
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, err := container.Host(ctx)
	assert.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	assert.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())
	db, err := sqlx.Connect("pgx", dsn)
	assert.NoError(t, err)

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id UUID PRIMARY KEY,
			balance_minor BIGINT NOT NULL DEFAULT 0 CHECK (balance_minor >= 0),
			status VARCHAR(10) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			transaction_id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(account_id),
			direction VARCHAR(10) NOT NULL,
			amount_minor BIGINT NOT NULL CHECK (amount_minor > 0),
			phone VARCHAR(16) NOT NULL,
			provider VARCHAR(32) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			external_ref VARCHAR(64),
			failure_reason TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS settlements (
			settlement_id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(account_id),
			transaction_id UUID NOT NULL UNIQUE,
			amount_minor BIGINT NOT NULL,
			balance_after BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);`,
	}

	for _, m := range migrations {
		_, err = db.Exec(m)
		assert.NoError(t, err)
	}

	return db, func() {
		db.Close()
		container.Terminate(ctx)
	}
}

// --- Helper ---
func currentBalance(t *testing.T, db *sqlx.DB, accountID uuid.UUID) int64 {
	var balance int64
	err := db.Get(&balance, `SELECT balance_minor FROM accounts WHERE account_id=$1`, accountID)
	assert.NoError(t, err)
	return balance
}

func TestEnsureAccount(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)
	accountID := uuid.New()

	assert.NoError(t, repo.EnsureAccount(ctx, accountID))
	assert.Equal(t, int64(0), currentBalance(t, db, accountID))

	// Idempotent: a second call must not reset or error.
	_, err := db.Exec(`UPDATE accounts SET balance_minor = 500 WHERE account_id=$1`, accountID)
	assert.NoError(t, err)
	assert.NoError(t, repo.EnsureAccount(ctx, accountID))
	assert.Equal(t, int64(500), currentBalance(t, db, accountID))
}

func TestGetBalance(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)
	accountID := uuid.New()
	assert.NoError(t, repo.EnsureAccount(ctx, accountID))

	balance, err := repo.GetBalance(ctx, accountID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	_, err = repo.GetBalance(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestApplySettlement_Deposit(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)
	accountID := uuid.New()
	assert.NoError(t, repo.EnsureAccount(ctx, accountID))

	txnID := uuid.New()
	balance, err := repo.ApplySettlement(ctx, accountID, 10000, txnID)
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), balance)
	assert.Equal(t, int64(10000), currentBalance(t, db, accountID))

	// Second settlement of the same transaction must not move the balance.
	_, err = repo.ApplySettlement(ctx, accountID, 10000, txnID)
	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Equal(t, int64(10000), currentBalance(t, db, accountID))
}

func TestApplySettlement_Withdraw(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)
	accountID := uuid.New()
	assert.NoError(t, repo.EnsureAccount(ctx, accountID))

	_, err := repo.ApplySettlement(ctx, accountID, 20000, uuid.New())
	assert.NoError(t, err)

	balance, err := repo.ApplySettlement(ctx, accountID, -8000, uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, int64(12000), balance)

	// Overdraw is rejected and the balance untouched.
	_, err = repo.ApplySettlement(ctx, accountID, -15000, uuid.New())
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(12000), currentBalance(t, db, accountID))
}

func TestApplySettlement_UnknownAccount(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)

	_, err := repo.ApplySettlement(ctx, uuid.New(), 1000, uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// --- Concurrency Tests ---
func TestApplySettlementConcurrency_ExactlyOnce(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)
	accountID := uuid.New()
	assert.NoError(t, repo.EnsureAccount(ctx, accountID))

	txnID := uuid.New()

	const numGoroutines = 20
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	var okCount int64
	var mu sync.Mutex

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			if _, err := repo.ApplySettlement(ctx, accountID, 5000, txnID); err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), okCount)
	assert.Equal(t, int64(5000), currentBalance(t, db, accountID))

	var settlements int
	assert.NoError(t, db.Get(&settlements, `SELECT COUNT(*) FROM settlements WHERE transaction_id=$1`, txnID))
	assert.Equal(t, 1, settlements)
}

func TestApplySettlementConcurrency_NoOverdraw(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)
	accountID := uuid.New()
	assert.NoError(t, repo.EnsureAccount(ctx, accountID))

	_, err := repo.ApplySettlement(ctx, accountID, 50000, uuid.New())
	assert.NoError(t, err)

	// Two withdrawals that fit individually but not together.
	var wg sync.WaitGroup
	wg.Add(2)
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.ApplySettlement(ctx, accountID, -40000, uuid.New())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var failed int
	for err := range results {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientFunds)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, int64(10000), currentBalance(t, db, accountID))
}

func TestListSettlements(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewAccountLedgerRepository(db)
	accountID := uuid.New()
	assert.NoError(t, repo.EnsureAccount(ctx, accountID))

	first := uuid.New()
	second := uuid.New()
	_, err := repo.ApplySettlement(ctx, accountID, 30000, first)
	assert.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = repo.ApplySettlement(ctx, accountID, -5000, second)
	assert.NoError(t, err)

	records, err := repo.ListSettlements(ctx, accountID)
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	// Most recent first.
	assert.Equal(t, second, records[0].TransactionID)
	assert.Equal(t, int64(-5000), records[0].AmountMinor)
	assert.Equal(t, int64(25000), records[0].BalanceAfter)
	assert.Equal(t, first, records[1].TransactionID)
	assert.Equal(t, int64(30000), records[1].BalanceAfter)
}
