// Package caseread реализует HTTP-обработчик чтения дела с документами.
package caseread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

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

// Handler обрабатывает HTTP-запросы чтения дела.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения дела.
type Service interface {
	GetCase(ctx context.Context, userUID, role, caseID string) (*models.Case, error)
}

// Document — запись о документе дела в ответе.
type Document struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Type     string `json:"type"`
}

// CaseResponse — полная карточка дела.
type CaseResponse struct {
	ID            string     `json:"id"`
	ClientUID     string     `json:"clientUid"`
	AdvocateUID   string     `json:"advocateUid"`
	Title         string     `json:"title"`
	Detail        string     `json:"detail"`
	Number        string     `json:"number"`
	HearingDate   time.Time  `json:"hearingDate"`
	CourtLocation string     `json:"courtLocation"`
	ParentID      *string    `json:"parentId,omitempty"`
	FilingDate    time.Time  `json:"filingDate"`
	Status        string     `json:"status"`
	Documents     []Document `json:"documents"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка дела
// @Description Возвращает дело с документами. Адвокат видит свои дела, клиент — только свои.
// @Tags Cases
// @Produce  json
// @Param id path string true "Идентификатор дела"
// @Success 200 {object} response.Response "Карточка дела"
// @Failure 403 {object} response.ErrorResponse "Чужое дело"
// @Failure 404 {object} response.ErrorResponse "Дело не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/cases/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.read"

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
			log.Info("case not found", slog.String("id", caseID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("case not found"))
		case errors.Is(err, cases.ErrForbidden):
			log.Error("access to another user's case", slog.String("id", caseID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to read case", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read case"))
		}
		return
	}

	docs := make([]Document, 0, len(c.Documents))
	for _, d := range c.Documents {
		docs = append(docs, Document{
			ID:       d.ID,
			URL:      d.URL,
			FileName: d.FileName,
			Type:     d.Type,
		})
	}

	log.Info("case read", slog.String("id", caseID))
	render.JSON(w, r, response.OKWithData(CaseResponse{
		ID:            c.ID,
		ClientUID:     c.ClientUID,
		AdvocateUID:   c.AdvocateUID,
		Title:         c.Title,
		Detail:        c.Detail,
		Number:        c.Number,
		HearingDate:   c.HearingDate,
		CourtLocation: c.CourtLocation,
		ParentID:      c.ParentID,
		FilingDate:    c.FilingDate,
		Status:        c.Status,
		Documents:     docs,
	}))
}
