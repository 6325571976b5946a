package models

import (
	"time"

	"github.com/google/uuid"
)

// Account states
const (
	AccountActive = "active"
	AccountFrozen = "frozen"
)

// AccountDB represents an account row in the database.
// The balance is mutated exclusively through the ledger's settlement path.
type AccountDB struct {
	AccountID    uuid.UUID `json:"account_id" db:"account_id"`       // Primary key, equals the owning user id
	BalanceMinor int64     `json:"balance_minor" db:"balance_minor"` // Current balance in minor units, never negative
	Status       string    `json:"status" db:"status"`               // active or frozen
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
