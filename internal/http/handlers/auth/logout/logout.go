// Package logout реализует HTTP-обработчик завершения сеанса.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
)

// Handler обрабатывает HTTP-запросы завершения сеанса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики завершения сеанса.
type Service interface {
	Logout(ctx context.Context, token string)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Завершение сеанса
// @Description Удаляет запись сессии по токену. Операция не может завершиться неуспехом: локальное состояние очищается безусловно.
// @Tags Account
// @Produce  json
// @Success 200 {object} response.Response "Сеанс завершён"
// @Router /account/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authHeader := r.Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token != "" && token != authHeader {
		h.service.Logout(r.Context(), token)
	}

	log.Info("logout completed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Logged out",
	}))
}
