// Package summarize реализует HTTP-обработчик краткой выжимки по делу.
//
// Заметки дела отправляются внешней модели одним запросом, ответ
// возвращается клиенту как есть в поле summary.
package summarize

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

// Handler обрабатывает HTTP-запросы выжимки по делу.
type Handler struct {
	log        *slog.Logger
	service    Service
	summarizer Summarizer
}

// Service описывает интерфейс получения дела.
type Service interface {
	GetCase(ctx context.Context, userUID, role, caseID string) (*models.Case, error)
}

// Summarizer описывает интерфейс генерации выжимки по заметкам дела.
type Summarizer interface {
	Summarize(ctx context.Context, caseNotes string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, summarizer Summarizer) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		summarizer: summarizer,
	}
}

// ServeHTTP godoc
// @Summary Выжимка по делу
// @Description Отправляет заметки дела внешней модели и возвращает краткую выжимку к заседанию.
// @Tags Cases
// @Produce  json
// @Param id path string true "Идентификатор дела"
// @Success 200 {object} response.Response "Выжимка"
// @Failure 400 {object} response.ErrorResponse "Пустые заметки дела"
// @Failure 403 {object} response.ErrorResponse "Чужое дело"
// @Failure 404 {object} response.ErrorResponse "Дело не найдено"
// @Failure 502 {object} response.ErrorResponse "Модель недоступна"
// @Router /advocate/cases/{id}/summarize [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.summarize"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	caseID := chi.URLParam(r, "id")

	c, err := h.service.GetCase(r.Context(), userUID, role, caseID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("case not found"))
		case errors.Is(err, cases.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to read case", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read case"))
		}
		return
	}

	if c.Detail == "" {
		log.Info("case has no notes to summarize", slog.String("id", caseID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("case has no notes to summarize"))
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), c.Detail)
	if err != nil {
		log.Error("failed to summarize case", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not summarize case"))
		return
	}

	log.Info("case summarized", slog.String("id", caseID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"summary": summary,
	}))
}
