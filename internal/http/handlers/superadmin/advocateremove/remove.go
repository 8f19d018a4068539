// Package advocateremove реализует HTTP-обработчик удаления адвоката для SuperAdmin.
package advocateremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы удаления адвоката.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления адвоката.
type Service interface {
	DeleteAdvocate(ctx context.Context, userUID string) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление адвоката
// @Description Удаляет адвоката вместе с учётной записью. Доступно только SuperAdmin.
// @Tags SuperAdmin
// @Produce  json
// @Param id path string true "Идентификатор адвоката"
// @Success 200 {object} response.Response "Количество удалённых записей"
// @Failure 404 {object} response.ErrorResponse "Адвокат не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /superadmin/advocates/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.superadmin.advocateremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "id")
	if uid == "" {
		log.Error("missing advocate id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing advocate id"))
		return
	}

	count, err := h.service.DeleteAdvocate(r.Context(), uid)
	if err != nil {
		log.Error("failed to delete advocate", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete advocate"))
		return
	}
	if count == 0 {
		log.Info("advocate not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("advocate not found"))
		return
	}

	log.Info("advocate deleted", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": count,
	}))
}
