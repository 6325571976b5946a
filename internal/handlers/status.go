package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
	"github.com/tembopay/gw-momo-wallet/internal/repositories"
)

// TransactionPoller defines the interface that the service must implement.
// Polling reconciles the stored state with the provider before answering.
type TransactionPoller interface {
	Poll(ctx context.Context, id uuid.UUID) (models.TransactionView, error)
}

// NewGetTransactionHandler returns an HTTP handler for fetching one
// transaction by id.
// @Summary Get transaction status
// @Description Returns the current state of a transaction, reconciling with the provider when the transaction is still pending.
// @Tags wallet
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} models.TransactionView "Transaction state"
// @Failure 400 {object} handlers.TransactionErrorResponse "Malformed transaction id"
// @Failure 401 {object} handlers.TransactionErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TransactionErrorResponse "Transaction not found"
// @Router /wallet/transactions/{transaction_id} [get]
// @Security BearerAuth
func NewGetTransactionHandler(
	svc TransactionPoller,
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

		// Transactions belonging to other accounts are indistinguishable
		// from nonexistent ones.
		if view.AccountID != claims.UserID {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Transaction not found"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(view)
	}
}
