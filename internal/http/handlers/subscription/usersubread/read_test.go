package usersubread

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetUserSubscription(ctx context.Context, id string) (*models.UserSubscription, error) {
	args := m.Called(ctx, id)
	sub, _ := args.Get(0).(*models.UserSubscription)
	return sub, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler *Handler, id string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/subscription/usersubscriptions/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestUserSubReadHandler_ServeHTTP(t *testing.T) {
	subID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns subscription of another user", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("GetUserSubscription", mock.Anything, subID).
			Return(&models.UserSubscription{
				ID:                    subID,
				UserUID:               "adv-uid-2",
				SubscriptionPackageID: "pkg-basic",
				StartDate:             start,
				EndDate:               start.AddDate(0, 3, 0),
				Status:                models.SubscriptionStatusActive,
			}, nil).Once()

		rec := doRequest(t, handler, subID)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, subID, data["id"])
		assert.Equal(t, "adv-uid-2", data["userUid"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown subscription", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("GetUserSubscription", mock.Anything, subID).
			Return(nil, repository.ErrNotFound).Once()

		rec := doRequest(t, handler, subID)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		rec := doRequest(t, handler, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		serviceMock.AssertNotCalled(t, "GetUserSubscription", mock.Anything, mock.Anything)
	})
}
