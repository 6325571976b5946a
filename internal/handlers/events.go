package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/repositories"
	"github.com/tembopay/gw-momo-wallet/internal/services"
)

// NotificationStreamer drives polling for one transaction and emits a
// notification on every lifecycle change until watching ends.
type NotificationStreamer interface {
	Watch(ctx context.Context, id uuid.UUID) <-chan services.Notification
}

// NewTransactionEventsHandler returns an HTTP handler that streams lifecycle
// notifications for one transaction as newline-delimited JSON. The stream ends
// when the transaction turns terminal, the poll bound is exhausted, or the
// client disconnects.
// @Summary Stream transaction lifecycle events
// @Description Streams newline-delimited JSON notifications until the transaction reaches a terminal state or the poll bound runs out.
// @Tags wallet
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} services.Notification "Notification stream"
// @Failure 400 {object} handlers.TransactionErrorResponse "Malformed transaction id"
// @Failure 401 {object} handlers.TransactionErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TransactionErrorResponse "Transaction not found"
// @Router /wallet/transactions/{transaction_id}/events [get]
// @Security BearerAuth
func NewTransactionEventsHandler(
	svc TransactionPoller,
	watcher NotificationStreamer,
	tokenGetter WalletTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Unauthorized"})
			return
		}

		txnID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Malformed transaction id"})
			return
		}

		// Existence and ownership are settled before the stream opens; other
		// accounts' transactions are indistinguishable from nonexistent ones.
		view, err := svc.Poll(ctx, txnID)
		if err != nil {
			switch {
			case errors.Is(err, repositories.ErrTransactionNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Transaction not found"})
			default:
				logger.Log.Errorw("failed to poll transaction", "transactionID", txnID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Internal server error"})
			}
			return
		}
		if view.AccountID != claims.UserID {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Transaction not found"})
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		flusher, _ := w.(http.Flusher)
		enc := json.NewEncoder(w)
		for notification := range watcher.Watch(ctx, txnID) {
			if err := enc.Encode(notification); err != nil {
				logger.Log.Warnw("client dropped event stream", "transactionID", txnID, "error", err)
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
