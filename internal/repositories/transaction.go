package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

var (
	// ErrDuplicateRequest is returned when an identical in-flight request
	// already exists inside the dedup window.
	ErrDuplicateRequest = errors.New("duplicate in-flight transaction request")

	// ErrConflict is returned when a compare-and-swap status update loses the
	// race: the stored status no longer matches the expected one.
	ErrConflict = errors.New("transaction status conflict")

	// ErrTransactionNotFound is returned when no transaction exists for the id.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionWriteRepository handles transaction write operations
type TransactionWriteRepository struct {
	db          *sqlx.DB
	txGetter    func(ctx context.Context) *sqlx.Tx
	dedupWindow time.Duration
}

func NewTransactionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, dedupWindow time.Duration) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, txGetter: txGetter, dedupWindow: dedupWindow}
}

func (r *TransactionWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Insert stores a new pending transaction. It refuses to insert when an
// identical request (same account, direction, amount and phone) is still
// pending inside the dedup window, which shields the store from rapid
// double-submission by the caller. An advisory lock on the request identity
// serializes identical inserts, so the existence check and the insert are
// atomic under READ COMMITTED.
func (r *TransactionWriteRepository) Insert(ctx context.Context, txn *models.TransactionDB) error {
	tx, ok := r.executor(ctx).(*sqlx.Tx)
	ownTx := !ok
	if ownTx {
		var err error
		tx, err = r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
	}

	// The lock is transaction-scoped: it releases on commit or rollback.
	lockKey := fmt.Sprintf("%s|%s|%d|%s", txn.AccountID, txn.Direction, txn.AmountMinor, txn.Phone)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (transaction_id, account_id, direction, amount_minor, phone, provider, status, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, 'pending', NOW(), NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM transactions
			WHERE account_id = $2
			  AND direction = $3
			  AND amount_minor = $4
			  AND phone = $5
			  AND status = 'pending'
			  AND created_at > NOW() - make_interval(secs => $7)
		)
	`
	args := []any{
		txn.TransactionID, txn.AccountID, txn.Direction,
		txn.AmountMinor, txn.Phone, txn.Provider,
		r.dedupWindow.Seconds(),
	}

	res, err := tx.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("insert transaction",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDuplicateRequest
	}
	if ownTx {
		return tx.Commit()
	}
	return nil
}

// UpdateStatus performs a compare-and-swap status transition. The row is only
// updated when the stored status matches expected; otherwise ErrConflict is
// returned and nothing changes. The external reference column is written at
// most once: once set it is never overwritten or cleared.
func (r *TransactionWriteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.Status, fields models.StatusFields) error {
	query := `
		UPDATE transactions
		SET status = $2,
		    external_ref = COALESCE(external_ref, $3),
		    failure_reason = COALESCE($4, failure_reason),
		    completed_at = COALESCE($5, completed_at),
		    updated_at = NOW()
		WHERE transaction_id = $1
		  AND status = $6
	`
	args := []any{id, next, fields.ExternalRef, fields.FailureReason, fields.CompletedAt, expected}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("update transaction status",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// TransactionReadRepository handles transaction read operations
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// Get retrieves one transaction by id.
func (r *TransactionReadRepository) Get(ctx context.Context, id uuid.UUID) (*models.TransactionDB, error) {
	const query = `
		SELECT transaction_id, account_id, direction, amount_minor, phone, provider,
		       status, external_ref, failure_reason, created_at, updated_at, completed_at
		FROM transactions
		WHERE transaction_id = $1
	`

	var txn models.TransactionDB
	err := r.db.GetContext(ctx, &txn, query, id)

	logger.Log.Infow("get transaction",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// ListByAccount retrieves all transactions of an account, most recent first.
func (r *TransactionReadRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.TransactionDB, error) {
	const query = `
		SELECT transaction_id, account_id, direction, amount_minor, phone, provider,
		       status, external_ref, failure_reason, created_at, updated_at, completed_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	var txns []models.TransactionDB
	err := r.db.SelectContext(ctx, &txns, query, accountID)

	logger.Log.Infow("list transactions by account",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{accountID},
		"result", len(txns),
		"error", err,
	)

	return txns, err
}
