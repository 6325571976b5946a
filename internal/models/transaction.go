package models

import (
	"time"

	"github.com/google/uuid"
)

// Direction describes whether money moves into or out of an account.
type Direction string

// Supported transaction directions
const (
	DirectionDeposit  Direction = "deposit"
	DirectionWithdraw Direction = "withdraw"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionDeposit || d == DirectionWithdraw
}

// Status is the lifecycle state of a transaction.
// The only permitted transitions are pending -> completed and pending -> failed.
type Status string

// Transaction lifecycle states
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// TransactionDB represents a transaction row in the database.
// Rows are never deleted; they form the audit trail.
type TransactionDB struct {
	TransactionID uuid.UUID  `json:"transaction_id" db:"transaction_id"` // Primary key, generated at creation
	AccountID     uuid.UUID  `json:"account_id" db:"account_id"`         // Owning account
	Direction     Direction  `json:"direction" db:"direction"`           // deposit or withdraw
	AmountMinor   int64      `json:"amount_minor" db:"amount_minor"`     // Positive amount in minor units
	Phone         string     `json:"phone" db:"phone"`                   // Counterparty mobile-money phone number
	Provider      string     `json:"provider" db:"provider"`             // Provider identifier (e.g. mpesa, tigopesa)
	Status        Status     `json:"status" db:"status"`                 // Lifecycle state
	ExternalRef   *string    `json:"external_ref" db:"external_ref"`     // Provider reference, set at most once
	FailureReason *string    `json:"failure_reason" db:"failure_reason"` // Populated on failed transactions
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at" db:"completed_at"` // Set iff status is completed
}

// SignedAmountMinor returns the ledger effect of the transaction:
// positive for deposits, negative for withdrawals.
func (t *TransactionDB) SignedAmountMinor() int64 {
	if t.Direction == DirectionWithdraw {
		return -t.AmountMinor
	}
	return t.AmountMinor
}

// TransactionView is the caller-visible projection of a transaction.
// swagger:model TransactionView
type TransactionView struct {
	// Transaction identifier
	TransactionID uuid.UUID `json:"transaction_id"`

	// Owning account
	AccountID uuid.UUID `json:"account_id"`

	// deposit or withdraw
	Direction Direction `json:"direction"`

	// Amount in minor units
	// example: 50000
	AmountMinor int64 `json:"amount_minor"`

	// Provider identifier
	// example: mpesa
	Provider string `json:"provider"`

	// pending, completed or failed
	Status Status `json:"status"`

	// Failure reason, present only on failed transactions
	FailureReason string `json:"failure_reason,omitempty"`

	// Whether the provider has acknowledged the request
	AwaitingConfirmation bool `json:"awaiting_confirmation"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTransactionView projects a stored transaction into its caller-visible form.
func NewTransactionView(t *TransactionDB) TransactionView {
	v := TransactionView{
		TransactionID:        t.TransactionID,
		AccountID:            t.AccountID,
		Direction:            t.Direction,
		AmountMinor:          t.AmountMinor,
		Provider:             t.Provider,
		Status:               t.Status,
		AwaitingConfirmation: t.Status == StatusPending && t.ExternalRef != nil,
		CreatedAt:            t.CreatedAt,
		CompletedAt:          t.CompletedAt,
	}
	if t.FailureReason != nil {
		v.FailureReason = *t.FailureReason
	}
	return v
}

// StatusFields carries the optional columns written together with a status
// transition. Nil fields are left untouched; ExternalRef is only ever written
// when the stored value is still NULL.
type StatusFields struct {
	ExternalRef   *string
	FailureReason *string
	CompletedAt   *time.Time
}
