package models

import (
	"time"

	"github.com/google/uuid"
)

// SettlementDB is an append-only ledger entry recording the monetary effect of
// one completed transaction. The UNIQUE constraint on transaction_id is the
// storage-level guard against settling the same transaction twice.
type SettlementDB struct {
	SettlementID  uuid.UUID `json:"settlement_id" db:"settlement_id"`
	AccountID     uuid.UUID `json:"account_id" db:"account_id"`
	TransactionID uuid.UUID `json:"transaction_id" db:"transaction_id"`
	AmountMinor   int64     `json:"amount_minor" db:"amount_minor"`     // Signed: deposits positive, withdrawals negative
	BalanceAfter  int64     `json:"balance_after" db:"balance_after"`   // Balance snapshot after applying the amount
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
