package usersubbyuser

import (
	"context"
	"encoding/json"
	"errors"
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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListUserSubscriptions(ctx context.Context, userUID string) ([]*models.UserSubscription, error) {
	args := m.Called(ctx, userUID)
	subs, _ := args.Get(0).([]*models.UserSubscription)
	return subs, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler *Handler, userID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet,
		"/subscription/usersubscriptions/by-user/"+userID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestUserSubByUserHandler_ServeHTTP(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("lists subscriptions of the requested user", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("ListUserSubscriptions", mock.Anything, "adv-uid-2").
			Return([]*models.UserSubscription{
				{
					ID:                    "sub-2",
					UserUID:               "adv-uid-2",
					SubscriptionPackageID: "pkg-standard",
					StartDate:             start.AddDate(0, 3, 0),
					EndDate:               start.AddDate(0, 9, 0),
					Status:                models.SubscriptionStatusScheduled,
				},
				{
					ID:                    "sub-1",
					UserUID:               "adv-uid-2",
					SubscriptionPackageID: "pkg-basic",
					StartDate:             start,
					EndDate:               start.AddDate(0, 3, 0),
					Status:                models.SubscriptionStatusActive,
				},
			}, nil).Once()

		rec := doRequest(t, handler, "adv-uid-2")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "adv-uid-2", data["userUid"])
		subs, ok := data["subscriptions"].([]any)
		require.True(t, ok)
		assert.Len(t, subs, 2)
		serviceMock.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("ListUserSubscriptions", mock.Anything, "adv-uid-2").
			Return(nil, errors.New("connection lost")).Once()

		rec := doRequest(t, handler, "adv-uid-2")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing user id", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		rec := doRequest(t, handler, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		serviceMock.AssertNotCalled(t, "ListUserSubscriptions", mock.Anything, mock.Anything)
	})
}
