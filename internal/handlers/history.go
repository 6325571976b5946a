package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

// TransactionHistorian defines the interface that the service must implement.
type TransactionHistorian interface {
	GetHistory(ctx context.Context, accountID uuid.UUID) ([]models.TransactionView, error)
}

// TransactionHistoryResponse represents an account's transaction history
// swagger:model TransactionHistoryResponse
type TransactionHistoryResponse struct {
	// Transactions, most recent first
	Transactions []models.TransactionView `json:"transactions"`
}

// NewGetTransactionHistoryHandler returns an HTTP handler for listing the
// account's transactions, most recent first.
// @Summary Get transaction history
// @Description Returns all transactions of the authenticated account, most recent first. History reads the stored state and does not reconcile with the provider.
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.TransactionHistoryResponse "Transaction history"
// @Failure 401 {object} handlers.TransactionErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.TransactionErrorResponse "Internal server error"
// @Router /wallet/transactions [get]
// @Security BearerAuth
func NewGetTransactionHistoryHandler(
	svc TransactionHistorian,
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

		views, err := svc.GetHistory(ctx, claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to get transaction history", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransactionHistoryResponse{
			Transactions: views,
		})
	}
}
