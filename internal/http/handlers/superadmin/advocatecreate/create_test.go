package advocatecreate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseconnect/casetracker/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) UserExists(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *ServiceMock) CreateAdvocate(ctx context.Context, user models.User, adv models.Advocate) (string, error) {
	args := m.Called(ctx, user, adv)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/superadmin/advocates", bytes.NewReader(bodyBytes))
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAdvocateCreateHandler_ServeHTTP(t *testing.T) {
	validReq := Request{
		Username:         "adv.meera",
		Email:            "meera@example.in",
		Password:         "secret123",
		Firstname:        "Meera",
		Lastname:         "Nair",
		EnrollmentNumber: "KAR/123/2020",
		Specialization:   "Civil",
	}

	t.Run("creates advocate with profile", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("UserExists", mock.Anything, "adv.meera", "meera@example.in").
			Return(false, nil).Once()
		serviceMock.On("CreateAdvocate", mock.Anything,
			mock.MatchedBy(func(u models.User) bool {
				return u.Username == "adv.meera" &&
					u.Role == models.RoleAdvocate &&
					u.IsActive &&
					u.PasswordHash != "" && u.PasswordHash != "secret123"
			}),
			mock.MatchedBy(func(adv models.Advocate) bool {
				return adv.EnrollmentNumber == "KAR/123/2020" &&
					strings.HasPrefix(adv.UniqueNumber, "LAW-")
			})).Return("adv-uid-9", nil).Once()

		rec := doRequest(t, handler, validReq)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "adv-uid-9", data["uid"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("duplicate username or email", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("UserExists", mock.Anything, "adv.meera", "meera@example.in").
			Return(true, nil).Once()

		rec := doRequest(t, handler, validReq)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		serviceMock.AssertNotCalled(t, "CreateAdvocate",
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing enrollment number fails validation", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		req := validReq
		req.EnrollmentNumber = ""
		rec := doRequest(t, handler, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		serviceMock.AssertNotCalled(t, "UserExists",
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("explicit unique number is kept", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		req := validReq
		req.UniqueNumber = "LAW-7781"

		serviceMock.On("UserExists", mock.Anything, "adv.meera", "meera@example.in").
			Return(false, nil).Once()
		serviceMock.On("CreateAdvocate", mock.Anything, mock.Anything,
			mock.MatchedBy(func(adv models.Advocate) bool {
				return adv.UniqueNumber == "LAW-7781"
			})).Return("adv-uid-9", nil).Once()

		rec := doRequest(t, handler, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("UserExists", mock.Anything, "adv.meera", "meera@example.in").
			Return(false, nil).Once()
		serviceMock.On("CreateAdvocate", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("connection lost")).Once()

		rec := doRequest(t, handler, validReq)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
