// Package userlist реализует HTTP-обработчик списка пользователей для SuperAdmin.
package userlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Handler обрабатывает HTTP-запросы списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения списка пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Item — строка списка пользователей без чувствительных полей.
type Item struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей системы. Доступно только SuperAdmin.
// @Tags Account
// @Produce  json
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.userlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	items := make([]Item, 0, len(users))
	for _, u := range users {
		items = append(items, Item{
			UID:       u.UID,
			Username:  u.Username,
			Email:     u.Email,
			Firstname: u.FirstName,
			Lastname:  u.LastName,
			Role:      u.Role,
			IsActive:  u.IsActive,
		})
	}

	log.Info("users listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": items,
	}))
}
