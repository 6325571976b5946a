package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

// Poller is the slice of the reconciliation service the watcher drives.
type Poller interface {
	Poll(ctx context.Context, id uuid.UUID) (models.TransactionView, error)
}

// TransactionWatcher drives polling for one transaction on a fixed cadence.
// The cadence lives here, outside the reconciliation engine: each Poll is an
// independent, cancellable unit of work, and abandoning the watcher at any
// point leaves the transaction in a safe pending state.
type TransactionWatcher struct {
	poller   Poller
	notifier *ClientNotifier
	interval time.Duration
	maxPolls int
}

// NewTransactionWatcher creates a watcher with the given polling cadence and
// poll bound.
func NewTransactionWatcher(poller Poller, notifier *ClientNotifier, interval time.Duration, maxPolls int) *TransactionWatcher {
	return &TransactionWatcher{
		poller:   poller,
		notifier: notifier,
		interval: interval,
		maxPolls: maxPolls,
	}
}

// Watch polls the transaction until it turns terminal, the poll bound is
// exhausted, or ctx is cancelled. Notifications are emitted on every event
// change; the channel is closed when watching ends. When the bound runs out
// with the transaction still pending a timeout notification is emitted and
// the transaction is left pending, so an out-of-band completion can still be
// picked up later.
func (w *TransactionWatcher) Watch(ctx context.Context, id uuid.UUID) <-chan Notification {
	out := make(chan Notification, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		var lastEvent Event

		emit := func(n Notification) bool {
			if n.Event == lastEvent {
				return true
			}
			lastEvent = n.Event
			select {
			case out <- n:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for polls := 0; polls < w.maxPolls; polls++ {
			view, err := w.poller.Poll(ctx, id)
			if err != nil {
				logger.Log.Errorw("watch poll failed", "transaction_id", id, "error", err)
				return
			}

			if !emit(w.notifier.FromView(view)) {
				return
			}
			if view.Status.Terminal() {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}

		select {
		case out <- w.notifier.Timeout(id):
		case <-ctx.Done():
		}
	}()

	return out
}
