package facades

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

func TestProviderHTTPFacade_Submit(t *testing.T) {
	txnID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, txnID.String(), r.Header.Get("Idempotency-Key"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deposit", req["direction"])
		assert.Equal(t, float64(10000), req["amount_minor"])
		assert.Equal(t, "+254712345678", req["phone"])

		json.NewEncoder(w).Encode(map[string]string{
			"reference": "MPESA-REF-001",
			"status":    "pending",
		})
	}))
	defer srv.Close()

	facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

	ref, err := facade.Submit(context.Background(), models.DirectionDeposit, 10000, "+254712345678", txnID)
	assert.NoError(t, err)
	assert.Equal(t, "MPESA-REF-001", ref)
}

func TestProviderHTTPFacade_Submit_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "failed",
			"reason": "unregistered phone number",
		})
	}))
	defer srv.Close()

	facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

	_, err := facade.Submit(context.Background(), models.DirectionWithdraw, 5000, "+254700000000", uuid.New())
	assert.ErrorIs(t, err, ErrProviderRejected)
	assert.Contains(t, err.Error(), "unregistered phone number")
}

func TestProviderHTTPFacade_Submit_RejectedBodyStatus(t *testing.T) {
	// A 200 with a failed body is still a rejection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status": "failed",
			"reason": "amount exceeds provider limit",
		})
	}))
	defer srv.Close()

	facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

	_, err := facade.Submit(context.Background(), models.DirectionDeposit, 9000000, "+254712345678", uuid.New())
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestProviderHTTPFacade_Submit_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

	_, err := facade.Submit(context.Background(), models.DirectionDeposit, 10000, "+254712345678", uuid.New())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestProviderHTTPFacade_Submit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use

	facade := NewProviderHTTPFacade(srv.URL, "test-key", time.Second)

	_, err := facade.Submit(context.Background(), models.DirectionDeposit, 10000, "+254712345678", uuid.New())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestProviderHTTPFacade_Submit_EmptyReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
	}))
	defer srv.Close()

	facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

	_, err := facade.Submit(context.Background(), models.DirectionDeposit, 10000, "+254712345678", uuid.New())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestProviderHTTPFacade_CheckStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus models.Status
		expectedReason string
	}{
		{
			name:           "pending",
			body:           map[string]string{"status": "pending"},
			expectedStatus: models.StatusPending,
		},
		{
			name:           "processing maps to pending",
			body:           map[string]string{"status": "processing"},
			expectedStatus: models.StatusPending,
		},
		{
			name:           "completed",
			body:           map[string]string{"status": "completed"},
			expectedStatus: models.StatusCompleted,
		},
		{
			name:           "failed with reason",
			body:           map[string]string{"status": "failed", "reason": "insufficient provider float"},
			expectedStatus: models.StatusFailed,
			expectedReason: "insufficient provider float",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v1/transactions/MPESA-REF-001", r.URL.Path)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

			status, reason, err := facade.CheckStatus(context.Background(), "MPESA-REF-001")
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedReason, reason)
		})
	}
}

func TestProviderHTTPFacade_CheckStatus_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

	_, _, err := facade.CheckStatus(context.Background(), "MPESA-REF-001")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestProviderHTTPFacade_CheckStatus_UnknownState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "reversed"})
	}))
	defer srv.Close()

	facade := NewProviderHTTPFacade(srv.URL, "test-key", 5*time.Second)

	_, _, err := facade.CheckStatus(context.Background(), "MPESA-REF-001")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
