package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

func collectNotifications(ch <-chan Notification) []Notification {
	var out []Notification
	for n := range ch {
		out = append(out, n)
	}
	return out
}

func TestWatch_CompletesAndCloses(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	poller := NewMockPoller(ctrl)

	gomock.InOrder(
		poller.EXPECT().Poll(gomock.Any(), id).Return(models.TransactionView{
			TransactionID: id, Status: models.StatusPending, AwaitingConfirmation: true,
		}, nil),
		poller.EXPECT().Poll(gomock.Any(), id).Return(models.TransactionView{
			TransactionID: id, Status: models.StatusCompleted,
		}, nil),
	)

	w := NewTransactionWatcher(poller, NewClientNotifier(), time.Millisecond, 10)
	got := collectNotifications(w.Watch(ctx, id))

	assert.Len(t, got, 2)
	assert.Equal(t, EventAwaitingConfirmation, got[0].Event)
	assert.Equal(t, EventCompleted, got[1].Event)
}

func TestWatch_TimeoutAfterPollBound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	poller := NewMockPoller(ctrl)

	poller.EXPECT().Poll(gomock.Any(), id).Return(models.TransactionView{
		TransactionID: id, Status: models.StatusPending, AwaitingConfirmation: true,
	}, nil).Times(3)

	w := NewTransactionWatcher(poller, NewClientNotifier(), time.Millisecond, 3)
	got := collectNotifications(w.Watch(ctx, id))

	assert.Len(t, got, 2)
	assert.Equal(t, EventAwaitingConfirmation, got[0].Event)
	assert.Equal(t, EventTimeout, got[1].Event, "exhausted poll bound must surface as a soft timeout")
}

func TestWatch_FailureCarriesReason(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	poller := NewMockPoller(ctrl)

	poller.EXPECT().Poll(gomock.Any(), id).Return(models.TransactionView{
		TransactionID: id, Status: models.StatusFailed, FailureReason: "insufficient funds",
	}, nil)

	w := NewTransactionWatcher(poller, NewClientNotifier(), time.Millisecond, 5)
	got := collectNotifications(w.Watch(ctx, id))

	assert.Len(t, got, 1)
	assert.Equal(t, EventFailed, got[0].Event)
	assert.Equal(t, "insufficient funds", got[0].Reason)
}

func TestWatch_CancellationStopsPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	poller := NewMockPoller(ctrl)

	poller.EXPECT().Poll(gomock.Any(), id).Return(models.TransactionView{
		TransactionID: id, Status: models.StatusPending,
	}, nil).MinTimes(1)

	w := NewTransactionWatcher(poller, NewClientNotifier(), 5*time.Millisecond, 1000)
	ch := w.Watch(ctx, id)

	// Drain the first notification, then abandon mid-flight.
	<-ch
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel should close after cancellation")
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
