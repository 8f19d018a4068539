package middlewarectx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseconnect/casetracker/internal/lib/jwt"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/session"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authSetup(t *testing.T) (jwt.Maker, session.Store, string, *models.AuthUser) {
	t.Helper()

	maker := jwt.NewJWTMaker("test-secret-key", time.Hour)
	store := session.NewMemoryStore()

	token, err := maker.GenerateToken("adv1", models.RoleAdvocate, "adv-uid-1")
	require.NoError(t, err)

	user := &models.AuthUser{
		ID:       "adv-uid-1",
		Email:    "adv@example.com",
		Role:     models.RoleAdvocate,
		IsActive: true,
	}
	data, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), token, data, 0))

	return maker, store, token, user
}

func TestAuthMiddleware(t *testing.T) {
	maker, store, token, user := authSetup(t)

	var gotUser *models.AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = r.Context().Value(CurrentUser).(*models.AuthUser)
		assert.Equal(t, "adv1", r.Context().Value(User))
		assert.Equal(t, models.RoleAdvocate, r.Context().Value(Role))
		assert.Equal(t, "adv-uid-1", r.Context().Value(UserUID))
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(maker, store, newNoopLogger())(next)

	t.Run("valid token with session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/advocate/cases", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotUser)
		assert.Equal(t, user.ID, gotUser.ID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/advocate/cases", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/advocate/cases", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token after logout", func(t *testing.T) {
		require.NoError(t, store.Delete(context.Background(), token))

		req := httptest.NewRequest(http.MethodGet, "/advocate/cases", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "session expired or logged out", body["error"])
	})
}

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRoles(newNoopLogger(), models.RoleSuperAdmin)(next)

	t.Run("role mismatch redirects to plain login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/account/users", nil)
		ctx := context.WithValue(req.Context(), CurrentUser,
			&models.AuthUser{ID: "adv-1", Role: models.RoleAdvocate})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("anonymous redirect keeps return path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/account/users", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?redirect=%2Faccount%2Fusers", rec.Header().Get("Location"))
	})

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/account/users", nil)
		ctx := context.WithValue(req.Context(), CurrentUser,
			&models.AuthUser{ID: "sa-1", Role: models.RoleSuperAdmin})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
