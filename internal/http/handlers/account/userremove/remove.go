// Package userremove реализует HTTP-обработчик удаления пользователя для SuperAdmin.
package userremove

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

// Handler обрабатывает HTTP-запросы удаления пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления пользователя.
type Service interface {
	DeleteUser(ctx context.Context, uid string) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Description Удаляет пользователя по идентификатору. Доступно только SuperAdmin.
// @Tags Account
// @Produce  json
// @Param id path string true "Идентификатор пользователя"
// @Success 200 {object} response.Response "Количество удалённых записей"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.userremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "id")
	if uid == "" {
		log.Error("missing user id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	count, err := h.service.DeleteUser(r.Context(), uid)
	if err != nil {
		log.Error("failed to delete user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete user"))
		return
	}
	if count == 0 {
		log.Info("user not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	log.Info("user deleted", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": count,
	}))
}
