// Package clientread реализует HTTP-обработчик чтения клиента адвоката.
package clientread

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
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/cases"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы чтения клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения клиента.
type Service interface {
	GetClient(ctx context.Context, advocateUID, clientUID string) (*models.Client, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка клиента
// @Description Возвращает клиента текущего адвоката по идентификатору.
// @Tags Clients
// @Produce  json
// @Param id path string true "Идентификатор клиента"
// @Success 200 {object} response.Response "Данные клиента"
// @Failure 403 {object} response.ErrorResponse "Чужой клиент"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/clients/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	clientUID := chi.URLParam(r, "id")

	client, err := h.service.GetClient(r.Context(), advocateUID, clientUID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Info("client not found", slog.String("uid", clientUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
		case errors.Is(err, cases.ErrForbidden):
			log.Error("access to another advocate's client", slog.String("uid", clientUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to read client", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read client"))
		}
		return
	}

	data := map[string]any{"uid": client.UserUID}
	if client.User != nil {
		data["username"] = client.User.Username
		data["email"] = client.User.Email
		data["firstname"] = client.User.FirstName
		data["lastname"] = client.User.LastName
		data["isActive"] = client.User.IsActive
	}

	log.Info("client read", slog.String("uid", clientUID))
	render.JSON(w, r, response.OKWithData(data))
}
