package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/tembopay/gw-momo-wallet/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(svc *MockLoginer)
		expectedStatus int
		expectedToken  string
	}{
		{
			name: "successful login",
			body: `{"username":"john_doe","password":"secret123"}`,
			setupMocks: func(svc *MockLoginer) {
				svc.EXPECT().Login(gomock.Any(), "john_doe", "secret123").Return("token-123", nil)
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "token-123",
		},
		{
			name: "unknown user",
			body: `{"username":"nobody","password":"secret123"}`,
			setupMocks: func(svc *MockLoginer) {
				svc.EXPECT().Login(gomock.Any(), "nobody", "secret123").
					Return("", services.ErrUserDoesNotExist)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			body: `{"username":"john_doe","password":"nope"}`,
			setupMocks: func(svc *MockLoginer) {
				svc.EXPECT().Login(gomock.Any(), "john_doe", "nope").
					Return("", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed body",
			body:           `{"username":`,
			setupMocks:     func(svc *MockLoginer) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "internal error",
			body: `{"username":"john_doe","password":"secret123"}`,
			setupMocks: func(svc *MockLoginer) {
				svc.EXPECT().Login(gomock.Any(), "john_doe", "secret123").
					Return("", errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockLoginer(ctrl)
			tt.setupMocks(svc)

			handler := NewLoginHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedToken != "" {
				var resp LoginResponse
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedToken, resp.Token)
			}
		})
	}
}
