package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

// Event is a caller-visible lifecycle event.
type Event string

// Caller-visible events
const (
	EventInitiated            Event = "initiated"
	EventAwaitingConfirmation Event = "awaiting-confirmation"
	EventCompleted            Event = "completed"
	EventFailed               Event = "failed"
	EventTimeout              Event = "timeout"
)

// Notification surfaces one state transition to the requesting caller.
type Notification struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Event         Event     `json:"event"`
	Reason        string    `json:"reason,omitempty"` // Populated on failed notifications
	At            time.Time `json:"at"`
}

// ClientNotifier projects engine state into caller-visible events. It is a
// pure projection with no side effects on core state.
type ClientNotifier struct{}

// NewClientNotifier creates a new ClientNotifier.
func NewClientNotifier() *ClientNotifier {
	return &ClientNotifier{}
}

// FromView maps a transaction view onto its caller-visible event.
func (n *ClientNotifier) FromView(view models.TransactionView) Notification {
	notification := Notification{
		TransactionID: view.TransactionID,
		At:            time.Now(),
	}

	switch {
	case view.Status == models.StatusCompleted:
		notification.Event = EventCompleted
	case view.Status == models.StatusFailed:
		notification.Event = EventFailed
		notification.Reason = view.FailureReason
	case view.AwaitingConfirmation:
		notification.Event = EventAwaitingConfirmation
	default:
		notification.Event = EventInitiated
	}

	return notification
}

// Timeout produces the soft-timeout notification emitted when polling gives
// up while the transaction is still pending. The transaction itself stays
// pending in storage and may still be resolved by a later poll.
func (n *ClientNotifier) Timeout(transactionID uuid.UUID) Notification {
	return Notification{
		TransactionID: transactionID,
		Event:         EventTimeout,
		At:            time.Now(),
	}
}
