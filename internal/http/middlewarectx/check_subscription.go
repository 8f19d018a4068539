package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/services/subscription"
)

// SubscriptionService описывает интерфейс получения статуса подписки пользователя.
type SubscriptionService interface {
	UserStatus(ctx context.Context, userUID, role string) (*subscription.Status, error)
}

// SubscriptionGuard создает middleware, закрывающий рабочие маршруты
// для адвокатов без действующей подписки. Маршруты подписок и оплаты
// этим middleware не оборачиваются: продление должно оставаться доступным.
func SubscriptionGuard(log *slog.Logger, subService SubscriptionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}
			role, _ := r.Context().Value(Role).(string)

			status, err := subService.UserStatus(r.Context(), userUID, role)
			if err != nil {
				log.Error("failed to get subscription status", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !status.IsActive {
				log.Info("subscription expired, access denied",
					slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription expired, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
