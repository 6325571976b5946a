package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

var (
	// ErrInsufficientFunds is returned when applying a settlement would drive
	// the account balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadySettled is returned when a settlement record already exists
	// for the transaction.
	ErrAlreadySettled = errors.New("transaction already settled")

	// ErrAccountNotFound is returned when the account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// AccountLedgerRepository owns the balance write path. The balance is only
// ever mutated through ApplySettlement, which runs as a single database
// transaction so concurrent settlements on one account serialize on the row.
type AccountLedgerRepository struct {
	db *sqlx.DB
}

func NewAccountLedgerRepository(db *sqlx.DB) *AccountLedgerRepository {
	return &AccountLedgerRepository{db: db}
}

// EnsureAccount creates the account row if it does not exist yet.
func (r *AccountLedgerRepository) EnsureAccount(ctx context.Context, accountID uuid.UUID) error {
	query := `
		INSERT INTO accounts (account_id, balance_minor, status, created_at, updated_at)
		VALUES ($1, 0, 'active', NOW(), NOW())
		ON CONFLICT (account_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, accountID)

	logger.Log.Infow("ensure account",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{accountID},
		"error", err,
	)

	return err
}

// GetBalance returns the current balance of an account in minor units.
func (r *AccountLedgerRepository) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	const query = `
		SELECT balance_minor
		FROM accounts
		WHERE account_id = $1
	`

	var balance int64
	err := r.db.GetContext(ctx, &balance, query, accountID)

	logger.Log.Infow("get balance",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{accountID},
		"result", balance,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}
	return balance, nil
}

// ApplySettlement atomically applies the signed amount to the account balance
// and appends the settlement record, both inside one database transaction.
// The guarded UPDATE keeps the balance non-negative and the UNIQUE constraint
// on settlements.transaction_id rejects a second settlement of the same
// transaction, so the whole operation is an idempotent read-modify-write.
func (r *AccountLedgerRepository) ApplySettlement(ctx context.Context, accountID uuid.UUID, amountMinor int64, transactionID uuid.UUID) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE accounts
		SET balance_minor = balance_minor + $2,
		    updated_at = NOW()
		WHERE account_id = $1
		  AND balance_minor + $2 >= 0
		RETURNING balance_minor
	`

	var balance int64
	err = tx.GetContext(ctx, &balance, updateQuery, accountID, amountMinor)

	logger.Log.Infow("apply settlement balance update",
		"query", strings.Join(strings.Fields(updateQuery), " "),
		"args", []any{accountID, amountMinor, transactionID},
		"result", balance,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if checkErr := tx.GetContext(ctx, &exists,
				`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, accountID); checkErr != nil {
				return 0, checkErr
			}
			if !exists {
				return 0, ErrAccountNotFound
			}
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}

	insertQuery := `
		INSERT INTO settlements (settlement_id, account_id, transaction_id, amount_minor, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (transaction_id) DO NOTHING
	`

	res, err := tx.ExecContext(ctx, insertQuery, uuid.New(), accountID, transactionID, amountMinor, balance)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("apply settlement record insert",
		"query", strings.Join(strings.Fields(insertQuery), " "),
		"args", []any{accountID, transactionID, amountMinor, balance},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		// The rollback also undoes the balance update above.
		return 0, ErrAlreadySettled
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

// ListSettlements retrieves the append-only settlement records of an account,
// most recent first.
func (r *AccountLedgerRepository) ListSettlements(ctx context.Context, accountID uuid.UUID) ([]models.SettlementDB, error) {
	const query = `
		SELECT settlement_id, account_id, transaction_id, amount_minor, balance_after, created_at
		FROM settlements
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	var records []models.SettlementDB
	err := r.db.SelectContext(ctx, &records, query, accountID)

	logger.Log.Infow("list settlements",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{accountID},
		"result", len(records),
		"error", err,
	)

	return records, err
}
