package advocateread

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

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

func (m *ServiceMock) GetAdvocateProfile(ctx context.Context, userUID string) (*models.Advocate, error) {
	args := m.Called(ctx, userUID)
	adv, _ := args.Get(0).(*models.Advocate)
	return adv, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler *Handler, id string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/superadmin/advocates/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestAdvocateReadHandler_ServeHTTP(t *testing.T) {
	t.Run("returns advocate with profile and account", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("GetAdvocateProfile", mock.Anything, "adv-uid-1").
			Return(&models.Advocate{
				UserUID:          "adv-uid-1",
				UniqueNumber:     "LAW-4411",
				EnrollmentNumber: "KAR/123/2020",
				Specialization:   "Civil",
				User: &models.User{
					UID:          "adv-uid-1",
					FirstName:    "Meera",
					LastName:     "Nair",
					Email:        "meera@example.in",
					Username:     "adv.meera",
					PasswordHash: "$2a$10$secret",
					Role:         models.RoleAdvocate,
					IsActive:     true,
				},
			}, nil).Once()

		rec := doRequest(t, handler, "adv-uid-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "adv-uid-1", data["uid"])
		assert.Equal(t, "KAR/123/2020", data["enrollmentNumber"])
		assert.Equal(t, "Meera", data["firstname"])
		assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown advocate", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("GetAdvocateProfile", mock.Anything, "adv-uid-1").
			Return(nil, repository.ErrNotFound).Once()

		rec := doRequest(t, handler, "adv-uid-1")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		rec := doRequest(t, handler, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		serviceMock.AssertNotCalled(t, "GetAdvocateProfile", mock.Anything, mock.Anything)
	})
}
