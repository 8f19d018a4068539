// Package caseremove реализует HTTP-обработчик удаления дела.
package caseremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/services/cases"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы удаления дела.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления дела.
type Service interface {
	RemoveCase(ctx context.Context, advocateUID, caseID string) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить дело
// @Description Удаляет дело текущего адвоката вместе с документами.
// @Tags Cases
// @Produce  json
// @Param id path string true "Идентификатор дела"
// @Success 200 {object} response.Response "Количество удалённых записей"
// @Failure 403 {object} response.ErrorResponse "Чужое дело"
// @Failure 404 {object} response.ErrorResponse "Дело не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/cases/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	caseID := chi.URLParam(r, "id")

	count, err := h.service.RemoveCase(r.Context(), advocateUID, caseID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("case not found"))
		case errors.Is(err, cases.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to remove case", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove case"))
		}
		return
	}

	log.Info("case removed", slog.String("id", caseID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": count,
	}))
}
