package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/facades"
	"github.com/tembopay/gw-momo-wallet/internal/jwt"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
	"github.com/tembopay/gw-momo-wallet/internal/repositories"
	"github.com/tembopay/gw-momo-wallet/internal/services"
)

// WalletTokener defines only the token methods needed by the wallet handlers.
type WalletTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TransactionCreator defines the interface that the service must implement.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, accountID uuid.UUID, direction models.Direction, amountMinor int64, phone, provider string) (uuid.UUID, error)
}

// CreateTransactionRequest represents the JSON body for initiating a transaction
// swagger:model CreateTransactionRequest
type CreateTransactionRequest struct {
	// deposit or withdraw
	// required: true
	// default: deposit
	Direction string `json:"direction"`

	// Amount in minor units
	// required: true
	// default: 50000
	AmountMinor int64 `json:"amount_minor"`

	// Counterparty mobile-money phone number
	// required: true
	// default: +254712345678
	Phone string `json:"phone"`

	// Provider identifier
	// required: true
	// default: mpesa
	Provider string `json:"provider"`
}

// CreateTransactionResponse represents an accepted transaction response
// swagger:model CreateTransactionResponse
type CreateTransactionResponse struct {
	// Transaction identifier for subsequent status polling
	TransactionID uuid.UUID `json:"transaction_id"`

	// Lifecycle state at acceptance time
	// default: pending
	Status string `json:"status"`

	// Status message
	// default: Transaction accepted
	Message string `json:"message"`
}

// TransactionErrorResponse represents an error response for wallet transactions
// swagger:model TransactionErrorResponse
type TransactionErrorResponse struct {
	// Error message
	// default: Invalid transaction request
	Error string `json:"error"`

	// Transaction identifier, present when a transaction row was recorded
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
}

// NewCreateTransactionHandler returns an HTTP handler for initiating a
// deposit or withdrawal through the external mobile-money provider.
// @Summary Initiate a transaction
// @Description Records a pending transaction and dispatches it to the provider. The response is returned before the provider confirms; poll the transaction status to observe the outcome.
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body handlers.CreateTransactionRequest true "Transaction Request"
// @Success 202 {object} handlers.CreateTransactionResponse "Transaction accepted"
// @Failure 400 {object} handlers.TransactionErrorResponse "Invalid transaction request"
// @Failure 401 {object} handlers.TransactionErrorResponse "Unauthorized"
// @Failure 409 {object} handlers.TransactionErrorResponse "Duplicate in-flight request"
// @Failure 502 {object} handlers.TransactionErrorResponse "Provider rejected or unreachable"
// @Router /wallet/transactions [post]
// @Security BearerAuth
func NewCreateTransactionHandler(
	svc TransactionCreator,
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

		var req CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode transaction request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Invalid request body"})
			return
		}

		txnID, err := svc.CreateTransaction(ctx, claims.UserID, models.Direction(req.Direction), req.AmountMinor, req.Phone, req.Provider)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			switch {
			case errors.Is(err, services.ErrInvalidAmount),
				errors.Is(err, services.ErrInvalidDirection),
				errors.Is(err, services.ErrInvalidPhone):
				logger.Log.Warnw("invalid transaction request", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: err.Error()})
			case errors.Is(err, services.ErrInsufficientBalance):
				logger.Log.Warnw("insufficient balance", "userID", claims.UserID, "amount", req.AmountMinor)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Insufficient balance"})
			case errors.Is(err, repositories.ErrDuplicateRequest):
				logger.Log.Warnw("duplicate transaction request", "userID", claims.UserID)
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Identical request already in flight"})
			case errors.Is(err, facades.ErrProviderRejected):
				// The transaction row exists and is already failed.
				logger.Log.Warnw("provider rejected transaction", "transactionID", txnID, "error", err)
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Provider rejected transaction", TransactionID: &txnID})
			case errors.Is(err, facades.ErrProviderUnavailable):
				logger.Log.Errorw("provider unavailable", "transactionID", txnID, "error", err)
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Provider unavailable", TransactionID: &txnID})
			default:
				logger.Log.Errorw("failed to create transaction", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(CreateTransactionResponse{
			TransactionID: txnID,
			Status:        string(models.StatusPending),
			Message:       "Transaction accepted",
		})
	}
}
