package advocateupdate

import (
	"bytes"
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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) UpdateAdvocate(ctx context.Context, userUID string, user models.User, adv models.Advocate) (int, error) {
	args := m.Called(ctx, userUID, user, adv)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler *Handler, id string, body any) *httptest.ResponseRecorder {
	t.Helper()

	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/superadmin/advocates/"+id, bytes.NewReader(bodyBytes))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestAdvocateUpdateHandler_ServeHTTP(t *testing.T) {
	active := true
	validReq := Request{
		Firstname:        "Meera",
		Lastname:         "Nair",
		Email:            "meera@example.in",
		IsActive:         &active,
		EnrollmentNumber: "KAR/123/2020",
		Specialization:   "Criminal",
	}

	t.Run("updates account and profile", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("UpdateAdvocate", mock.Anything, "adv-uid-1",
			mock.MatchedBy(func(u models.User) bool {
				return u.FirstName == "Meera" && u.Email == "meera@example.in" && u.IsActive
			}),
			mock.MatchedBy(func(adv models.Advocate) bool {
				return adv.Specialization == "Criminal"
			})).Return(1, nil).Once()

		rec := doRequest(t, handler, "adv-uid-1", validReq)

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown advocate", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("UpdateAdvocate", mock.Anything, "adv-uid-1",
			mock.Anything, mock.Anything).Return(0, nil).Once()

		rec := doRequest(t, handler, "adv-uid-1", validReq)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		req := validReq
		req.Email = "not-an-email"
		rec := doRequest(t, handler, "adv-uid-1", req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		serviceMock.AssertNotCalled(t, "UpdateAdvocate",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
