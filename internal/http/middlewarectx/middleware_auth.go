// Package middlewarectx содержит HTTP middleware приложения: проверку JWT
// и восстановление сессии, ролевой доступ к маршрутам, проверку статуса
// подписки адвоката и ограничение частоты запросов.
//
// AuthMiddleware проверяет наличие и валидность JWT в заголовке Authorization,
// восстанавливает сессию из хранилища и в случае успеха кладёт в контекст
// имя пользователя, роль, идентификатор и каноническое представление
// пользователя для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	libjwt "github.com/caseconnect/casetracker/internal/lib/jwt"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// CurrentUser — ключ для канонического пользователя в контексте
	CurrentUser Key = "current_user"
)

// TokenParser описывает интерфейс разбора и проверки JWT.
type TokenParser interface {
	ParseToken(tokenStr string) (*libjwt.CustomClaims, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке
// Authorization и восстанавливает сессию из хранилища по токену.
//
// Сессия восстанавливается до любого решения о доступе: валидный токен без
// записи сессии (после выхода) отклоняется так же, как невалидный.
func AuthMiddleware(parser TokenParser, sessions session.Store, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			mgr := session.NewManager(sessions, tokenStr, 0)
			mgr.Restore(r.Context())
			user, _ := mgr.Current()
			if user == nil {
				log.Error("no active session for token",
					slog.String("username", claims.Username))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("session expired or logged out"))
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, user.Role)
			ctx = context.WithValue(ctx, UserUID, user.ID)
			ctx = context.WithValue(ctx, CurrentUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles возвращает middleware, который допускает к маршруту только
// пользователей с перечисленными ролями. Решение принимает Decide.
func RequireRoles(log *slog.Logger, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := r.Context().Value(CurrentUser).(*models.AuthUser)

			decision := Decide(user, false, allowedRoles, r.URL.RequestURI())
			if decision.RedirectTo != "" {
				role := ""
				if user != nil {
					role = user.Role
				}
				log.Info("access denied, redirecting",
					slog.String("path", r.URL.Path),
					slog.String("role", role),
					slog.String("redirect_to", decision.RedirectTo))
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
