// Package usersublist реализует HTTP-обработчик истории подписок пользователя.
package usersublist

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Handler обрабатывает HTTP-запросы истории подписок.
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
// @Summary История подписок
// @Description Возвращает подписки текущего пользователя, новые первыми.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response "Список подписок"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/usersubscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.usersublist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

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

	log.Info("subscriptions listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscriptions": items,
	}))
}
