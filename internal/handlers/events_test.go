package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tembopay/gw-momo-wallet/internal/jwt"
	"github.com/tembopay/gw-momo-wallet/internal/models"
	"github.com/tembopay/gw-momo-wallet/internal/repositories"
	"github.com/tembopay/gw-momo-wallet/internal/services"
)

func TestTransactionEventsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	txnID := uuid.New()
	token := "valid-token"

	authorized := func(tokenGetter *MockWalletTokener) {
		tokenGetter.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(token, nil)
		tokenGetter.EXPECT().GetClaims(gomock.Any(), token).Return(&jwt.Claims{UserID: userID}, nil)
	}

	notificationStream := func(notifications ...services.Notification) <-chan services.Notification {
		ch := make(chan services.Notification, len(notifications))
		for _, n := range notifications {
			ch <- n
		}
		close(ch)
		return ch
	}

	tests := []struct {
		name           string
		pathID         string
		setupMocks     func(svc *MockTransactionPoller, watcher *MockNotificationStreamer, tokenGetter *MockWalletTokener)
		expectedStatus int
		expectedEvents []services.Event
	}{
		{
			name:   "streams until terminal",
			pathID: txnID.String(),
			setupMocks: func(svc *MockTransactionPoller, watcher *MockNotificationStreamer, tokenGetter *MockWalletTokener) {
				authorized(tokenGetter)
				svc.EXPECT().Poll(gomock.Any(), txnID).Return(models.TransactionView{
					TransactionID:        txnID,
					AccountID:            userID,
					Status:               models.StatusPending,
					AwaitingConfirmation: true,
				}, nil)
				watcher.EXPECT().Watch(gomock.Any(), txnID).Return(notificationStream(
					services.Notification{TransactionID: txnID, Event: services.EventAwaitingConfirmation, At: time.Now()},
					services.Notification{TransactionID: txnID, Event: services.EventCompleted, At: time.Now()},
				))
			},
			expectedStatus: http.StatusOK,
			expectedEvents: []services.Event{services.EventAwaitingConfirmation, services.EventCompleted},
		},
		{
			name:   "already terminal emits one event",
			pathID: txnID.String(),
			setupMocks: func(svc *MockTransactionPoller, watcher *MockNotificationStreamer, tokenGetter *MockWalletTokener) {
				authorized(tokenGetter)
				svc.EXPECT().Poll(gomock.Any(), txnID).Return(models.TransactionView{
					TransactionID: txnID,
					AccountID:     userID,
					Status:        models.StatusFailed,
					FailureReason: "rejected by payer",
				}, nil)
				watcher.EXPECT().Watch(gomock.Any(), txnID).Return(notificationStream(
					services.Notification{TransactionID: txnID, Event: services.EventFailed, Reason: "rejected by payer", At: time.Now()},
				))
			},
			expectedStatus: http.StatusOK,
			expectedEvents: []services.Event{services.EventFailed},
		},
		{
			name:   "not found",
			pathID: uuid.New().String(),
			setupMocks: func(svc *MockTransactionPoller, watcher *MockNotificationStreamer, tokenGetter *MockWalletTokener) {
				authorized(tokenGetter)
				svc.EXPECT().Poll(gomock.Any(), gomock.Any()).
					Return(models.TransactionView{}, repositories.ErrTransactionNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "another account's transaction looks not found",
			pathID: txnID.String(),
			setupMocks: func(svc *MockTransactionPoller, watcher *MockNotificationStreamer, tokenGetter *MockWalletTokener) {
				authorized(tokenGetter)
				svc.EXPECT().Poll(gomock.Any(), txnID).Return(models.TransactionView{
					TransactionID: txnID,
					AccountID:     uuid.New(),
					Status:        models.StatusPending,
				}, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "malformed id",
			pathID: "not-a-uuid",
			setupMocks: func(svc *MockTransactionPoller, watcher *MockNotificationStreamer, tokenGetter *MockWalletTokener) {
				authorized(tokenGetter)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "unauthorized",
			pathID: txnID.String(),
			setupMocks: func(svc *MockTransactionPoller, watcher *MockNotificationStreamer, tokenGetter *MockWalletTokener) {
				tokenGetter.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", assert.AnError)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockTransactionPoller(ctrl)
			watcher := NewMockNotificationStreamer(ctrl)
			tokenGetter := NewMockWalletTokener(ctrl)
			tt.setupMocks(svc, watcher, tokenGetter)

			handler := NewTransactionEventsHandler(svc, watcher, tokenGetter)

			req := httptest.NewRequest(http.MethodGet, "/wallet/transactions/"+tt.pathID+"/events", nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("transaction_id", tt.pathID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if len(tt.expectedEvents) > 0 {
				assert.Equal(t, "application/x-ndjson", rr.Header().Get("Content-Type"))

				var events []services.Event
				scanner := bufio.NewScanner(rr.Body)
				for scanner.Scan() {
					var n services.Notification
					assert.NoError(t, json.Unmarshal(scanner.Bytes(), &n))
					assert.Equal(t, txnID, n.TransactionID)
					events = append(events, n.Event)
				}
				assert.Equal(t, tt.expectedEvents, events)
			}
		})
	}
}
