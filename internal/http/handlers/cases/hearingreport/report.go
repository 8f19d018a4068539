// Package hearingreport реализует HTTP-обработчик дневного отчёта о заседаниях.
package hearingreport

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

// Handler обрабатывает HTTP-запросы дневного отчёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения заседаний на сегодня.
type Service interface {
	HearingsToday(ctx context.Context, advocateUID string) ([]*models.Case, error)
}

// Item — строка отчёта о заседаниях.
type Item struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Number        string    `json:"number"`
	HearingDate   time.Time `json:"hearingDate"`
	CourtLocation string    `json:"courtLocation"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заседания на сегодня
// @Description Возвращает дела текущего адвоката с заседанием в течение сегодняшнего дня.
// @Tags Cases
// @Produce  json
// @Success 200 {object} response.Response "Список заседаний"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/hearings/today [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.hearingreport"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	items, err := h.service.HearingsToday(r.Context(), advocateUID)
	if err != nil {
		log.Error("failed to build hearing report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build hearing report"))
		return
	}

	out := make([]Item, 0, len(items))
	for _, c := range items {
		out = append(out, Item{
			ID:            c.ID,
			Title:         c.Title,
			Number:        c.Number,
			HearingDate:   c.HearingDate,
			CourtLocation: c.CourtLocation,
		})
	}

	log.Info("hearing report built", slog.Int("count", len(out)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"hearings": out,
	}))
}
