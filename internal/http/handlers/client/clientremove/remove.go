// Package clientremove реализует HTTP-обработчик удаления клиента адвоката.
// Удаляются и профиль клиента, и связанная учётная запись.
package clientremove

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

// Handler обрабатывает HTTP-запросы удаления клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления клиента.
type Service interface {
	RemoveClient(ctx context.Context, advocateUID, clientUID string) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить клиента
// @Description Удаляет клиента текущего адвоката вместе с учётной записью.
// @Tags Clients
// @Produce  json
// @Param id path string true "Идентификатор клиента"
// @Success 200 {object} response.Response "Количество удалённых записей"
// @Failure 403 {object} response.ErrorResponse "Чужой клиент"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/clients/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	clientUID := chi.URLParam(r, "id")

	count, err := h.service.RemoveClient(r.Context(), advocateUID, clientUID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
		case errors.Is(err, cases.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to remove client", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove client"))
		}
		return
	}

	log.Info("client removed", slog.String("uid", clientUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": count,
	}))
}
