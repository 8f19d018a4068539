// Package caselist реализует HTTP-обработчик списка дел.
// Адвокат видит свои дела, клиент — только относящиеся к нему.
package caselist

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Handler обрабатывает HTTP-запросы списка дел.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения списка дел.
type Service interface {
	ListCases(ctx context.Context, userUID, role string) ([]*models.Case, error)
}

// Item — строка списка дел.
type Item struct {
	ID            string    `json:"id"`
	ClientUID     string    `json:"clientUid"`
	Title         string    `json:"title"`
	Number        string    `json:"number"`
	HearingDate   time.Time `json:"hearingDate"`
	CourtLocation string    `json:"courtLocation"`
	Status        string    `json:"status"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список дел
// @Description Возвращает дела в зависимости от роли: адвокат — свои, клиент — относящиеся к нему.
// @Tags Cases
// @Produce  json
// @Success 200 {object} response.Response "Список дел"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/cases [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	items, err := h.service.ListCases(r.Context(), userUID, role)
	if err != nil {
		log.Error("failed to list cases", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list cases"))
		return
	}

	out := make([]Item, 0, len(items))
	for _, c := range items {
		out = append(out, Item{
			ID:            c.ID,
			ClientUID:     c.ClientUID,
			Title:         c.Title,
			Number:        c.Number,
			HearingDate:   c.HearingDate,
			CourtLocation: c.CourtLocation,
			Status:        c.Status,
		})
	}

	log.Info("cases listed", slog.Int("count", len(out)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cases": out,
	}))
}
