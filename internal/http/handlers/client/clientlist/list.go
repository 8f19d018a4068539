// Package clientlist реализует HTTP-обработчик списка клиентов адвоката.
package clientlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Handler обрабатывает HTTP-запросы списка клиентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения списка клиентов.
type Service interface {
	ListClients(ctx context.Context, advocateUID string) ([]*models.Client, error)
}

// Item — строка списка клиентов.
type Item struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	IsActive  bool   `json:"isActive"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список клиентов
// @Description Возвращает клиентов текущего адвоката.
// @Tags Clients
// @Produce  json
// @Success 200 {object} response.Response "Список клиентов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/clients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	clients, err := h.service.ListClients(r.Context(), advocateUID)
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list clients"))
		return
	}

	items := make([]Item, 0, len(clients))
	for _, c := range clients {
		item := Item{UID: c.UserUID}
		if c.User != nil {
			item.Username = c.User.Username
			item.Email = c.User.Email
			item.Firstname = c.User.FirstName
			item.Lastname = c.User.LastName
			item.IsActive = c.User.IsActive
		}
		items = append(items, item)
	}

	log.Info("clients listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"clients": items,
	}))
}
