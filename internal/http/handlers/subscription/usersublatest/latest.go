// Package usersublatest реализует HTTP-обработчик текущего статуса подписки.
//
// Отдаётся сводка, вычисленная сервером: активность, оставшиеся дни,
// наличие предстоящего плана и возможность покупки нового.
package usersublatest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/services/subscription"
)

// Handler обрабатывает HTTP-запросы статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения статуса подписки.
type Service interface {
	UserStatus(ctx context.Context, userUID, role string) (*subscription.Status, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает последнюю подписку пользователя: предстоящий план приоритетнее активного.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response "Статус подписки"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/usersubscriptions/latest [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.usersublatest"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	status, err := h.service.UserStatus(r.Context(), userUID, role)
	if err != nil {
		log.Error("failed to get subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get subscription status"))
		return
	}

	log.Info("subscription status read",
		slog.Bool("is_active", status.IsActive),
		slog.Int("days_remaining", status.DaysRemaining))
	render.JSON(w, r, response.OKWithData(status))
}
