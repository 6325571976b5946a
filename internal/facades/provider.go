package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

var (
	// ErrProviderRejected means the provider explicitly declined the request.
	// Terminal, not retryable.
	ErrProviderRejected = errors.New("provider rejected transaction")

	// ErrProviderUnavailable means the provider could not be reached or
	// answered with a server error. Retryable via polling.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ProviderHTTPFacade talks JSON-over-HTTP to an external mobile-money provider.
// It holds no local state: recording and reconciling outcomes is the
// reconciliation service's job.
type ProviderHTTPFacade struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewProviderHTTPFacade creates a facade against the given provider base URL.
func NewProviderHTTPFacade(baseURL, apiKey string, timeout time.Duration) *ProviderHTTPFacade {
	return &ProviderHTTPFacade{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	TransactionID string `json:"transaction_id"`
	Direction     string `json:"direction"`
	AmountMinor   int64  `json:"amount_minor"`
	Phone         string `json:"phone"`
}

type submitResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// Submit sends one transaction request to the provider and returns the
// provider's external reference. The transaction id doubles as the
// idempotency key, so a retry of the same transaction cannot double-charge.
// Must be called at most once per transaction by the reconciliation service.
func (f *ProviderHTTPFacade) Submit(ctx context.Context, direction models.Direction, amountMinor int64, phone string, transactionID uuid.UUID) (string, error) {
	body, err := json.Marshal(submitRequest{
		TransactionID: transactionID.String(),
		Direction:     string(direction),
		AmountMinor:   amountMinor,
		Phone:         phone,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Idempotency-Key", transactionID.String())

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("provider submit transport error", "transaction_id", transactionID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		logger.Log.Errorw("provider submit server error", "transaction_id", transactionID, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || out.Status == "failed" {
		reason := out.Reason
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		logger.Log.Warnw("provider rejected transaction", "transaction_id", transactionID, "reason", reason)
		return "", fmt.Errorf("%w: %s", ErrProviderRejected, reason)
	}

	if out.Reference == "" {
		return "", fmt.Errorf("%w: empty reference", ErrProviderUnavailable)
	}

	logger.Log.Infow("provider accepted transaction",
		"transaction_id", transactionID,
		"external_ref", out.Reference,
	)
	return out.Reference, nil
}

type statusResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// CheckStatus queries the provider for the state of a submitted request.
// The provider contract is three-state: pending, completed or failed.
func (f *ProviderHTTPFacade) CheckStatus(ctx context.Context, externalRef string) (models.Status, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v1/transactions/"+externalRef, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("provider status transport error", "external_ref", externalRef, "error", err)
		return "", "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Errorw("provider status unexpected response", "external_ref", externalRef, "status", resp.StatusCode)
		return "", "", fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	switch out.Status {
	case "pending", "processing":
		return models.StatusPending, "", nil
	case "completed":
		return models.StatusCompleted, "", nil
	case "failed":
		return models.StatusFailed, out.Reason, nil
	default:
		return "", "", fmt.Errorf("%w: unknown state %q", ErrProviderUnavailable, out.Status)
	}
}
