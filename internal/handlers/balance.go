package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/repositories"
)

// Balancer defines the interface that the service must implement.
type Balancer interface {
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// BalanceResponse represents a successful response with the account balance
// swagger:model BalanceResponse
type BalanceResponse struct {
	// Balance in minor units
	// default: 150000
	BalanceMinor int64 `json:"balance_minor"`
}

// BalanceErrorResponse represents an error response when fetching balance
// swagger:model BalanceErrorResponse
type BalanceErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewGetBalanceHandler returns an HTTP handler for fetching the account balance.
// @Summary Get account balance
// @Description Returns the settled account balance in minor units. Pending transactions do not affect the balance.
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.BalanceResponse "Account balance"
// @Failure 401 {object} handlers.BalanceErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.BalanceErrorResponse "Account not found"
// @Failure 500 {object} handlers.BalanceErrorResponse "Internal server error"
// @Router /balance [get]
// @Security BearerAuth
func NewGetBalanceHandler(
	svc Balancer,
	tokenGetter WalletTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Error("unauthorized balance request: missing or invalid token")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(BalanceErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to parse token claims", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(BalanceErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		balance, err := svc.GetBalance(ctx, claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, repositories.ErrAccountNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(BalanceErrorResponse{
					Error: "Account not found",
				})
			default:
				logger.Log.Errorw("failed to get balance", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(BalanceErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(BalanceResponse{
			BalanceMinor: balance,
		})
	}
}
