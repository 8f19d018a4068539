package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (*auth.Result, error) {
	args := m.Called(ctx, username, password)
	res, _ := args.Get(0).(*auth.Result)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	okResult := &auth.Result{
		Wire: auth.WireUser{
			ID:        "adv-1",
			Username:  "adv1",
			Email:     "adv@example.com",
			Firstname: "Asha",
			Role:      models.RoleAdvocate,
		},
		Token: "tok",
	}

	tests := []struct {
		name           string
		requestBody    any
		mockResult     *auth.Result
		mockErr        error
		wantStatusCode int
		wantMessage    string
		wantError      string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Username: "adv1", Password: "password123"},
			mockResult:     okResult,
			wantStatusCode: http.StatusOK,
			wantMessage:    "Login successful",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Username: "adv1"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
		},
		{
			name:           "unknown user",
			requestBody:    Request{Username: "ghost1", Password: "password123"},
			mockErr:        auth.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Invalid credentials.",
		},
		{
			name:           "inactive account",
			requestBody:    Request{Username: "adv1", Password: "password123"},
			mockErr:        auth.ErrInactiveAccount,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Your account is inactive. Please contact support.",
		},
		{
			name:           "storage error",
			requestBody:    Request{Username: "adv1", Password: "password123"},
			mockErr:        errors.New("connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockResult != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				serviceMock.On("Login", mock.Anything, req.Username, req.Password).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/account/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got["message"])
				user, ok := got["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "adv1", user["username"])
				assert.Equal(t, "tok", got["token"])
			}
			if tt.wantError != "" {
				errStr, _ := got["error"].(string)
				assert.Contains(t, errStr, tt.wantError)
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
