// Package usersubread реализует HTTP-обработчик чтения подписки по идентификатору.
package usersubread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы чтения подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения подписки по идентификатору.
type Service interface {
	GetUserSubscription(ctx context.Context, id string) (*models.UserSubscription, error)
}

// Response — подписка пользователя в ответе API.
type Response struct {
	ID                    string    `json:"id"`
	UserUID               string    `json:"userUid"`
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
// @Summary Подписка по идентификатору
// @Description Возвращает подписку пользователя по её идентификатору. Доступно только SuperAdmin.
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "Идентификатор подписки"
// @Success 200 {object} response.Response "Подписка"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/usersubscriptions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.usersubread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing subscription id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing subscription id"))
		return
	}

	sub, err := h.service.GetUserSubscription(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("subscription not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	}
	if err != nil {
		log.Error("failed to read subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription"))
		return
	}

	log.Info("subscription read", slog.String("id", sub.ID))
	render.JSON(w, r, response.OKWithData(Response{
		ID:                    sub.ID,
		UserUID:               sub.UserUID,
		SubscriptionPackageID: sub.SubscriptionPackageID,
		StartDate:             sub.StartDate,
		EndDate:               sub.EndDate,
		Status:                sub.Status,
	}))
}
