// Package usersubbyuser реализует HTTP-обработчик истории подписок
// произвольного пользователя для SuperAdmin.
package usersubbyuser

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Handler обрабатывает HTTP-запросы истории подписок пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения подписок пользователя.
type Service interface {
	ListUserSubscriptions(ctx context.Context, userUID string) ([]*models.UserSubscription, error)
}

// Item — строка истории подписок.
type Item struct {
	ID                    string    `json:"id"`
	SubscriptionPackageID string    `json:"subscriptionPackageId"`
	StartDate             time.Time `json:"startDate"`
	EndDate               time.Time `json:"endDate"`
	Status                string    `json:"status"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История подписок пользователя
// @Description Возвращает подписки указанного пользователя, новые первыми. Доступно только SuperAdmin.
// @Tags Subscriptions
// @Produce  json
// @Param userId path string true "Идентификатор пользователя"
// @Success 200 {object} response.Response "Список подписок"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/usersubscriptions/by-user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.usersubbyuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "userId")
	if userUID == "" {
		log.Error("missing user id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	subs, err := h.service.ListUserSubscriptions(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	items := make([]Item, 0, len(subs))
	for _, s := range subs {
		items = append(items, Item{
			ID:                    s.ID,
			SubscriptionPackageID: s.SubscriptionPackageID,
			StartDate:             s.StartDate,
			EndDate:               s.EndDate,
			Status:                s.Status,
		})
	}

	log.Info("subscriptions listed",
		slog.String("user_uid", userUID), slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"userUid":       userUID,
		"subscriptions": items,
	}))
}
