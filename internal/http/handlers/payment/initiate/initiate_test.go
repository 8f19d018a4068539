package initiate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/payment"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Initiate(ctx context.Context, userUID, packageID, gateway string) (*payment.InitiateResult, error) {
	args := m.Called(ctx, userUID, packageID, gateway)
	res, _ := args.Get(0).(*payment.InitiateResult)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/phonepe/initiate", bytes.NewReader(bodyBytes))
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.UserUID, "adv-uid-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestInitiateHandler_ServeHTTP(t *testing.T) {
	packageID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	t.Run("successful phonepe initiation", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock, models.GatewayPhonePe)

		serviceMock.On("Initiate", mock.Anything, "adv-uid-1", packageID, models.GatewayPhonePe).
			Return(&payment.InitiateResult{
				OrderID:     "ORDER_1A2B3C4D5E",
				RedirectURL: "https://pay.example/redirect",
				Amount:      300,
				Gateway:     models.GatewayPhonePe,
			}, nil).Once()

		rec := doRequest(t, handler, Request{SubscriptionPackageID: packageID})

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ORDER_1A2B3C4D5E", data["orderId"])
		assert.Equal(t, "https://pay.example/redirect", data["redirectUrl"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown package", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock, models.GatewayPhonePe)

		serviceMock.On("Initiate", mock.Anything, "adv-uid-1", packageID, models.GatewayPhonePe).
			Return(nil, repository.ErrNotFound).Once()

		rec := doRequest(t, handler, Request{SubscriptionPackageID: packageID})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid package id fails validation", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock, models.GatewayRazorpay)

		rec := doRequest(t, handler, Request{SubscriptionPackageID: "not-a-uuid"})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		serviceMock.AssertNotCalled(t, "Initiate",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
