// Package caseupdate реализует HTTP-обработчик обновления дела,
// включая перенос даты заседания и смену статуса.
package caseupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/cases"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Request — структура входных данных для обновления дела.
type Request struct {
	Title         string    `json:"title" validate:"required"`
	Detail        string    `json:"detail"`
	Number        string    `json:"number"`
	HearingDate   time.Time `json:"hearingDate"`
	CourtLocation string    `json:"courtLocation"`
	Status        string    `json:"status" validate:"required,oneof=Open Closed 'On Hold'"`
}

// Handler обрабатывает HTTP-запросы обновления дела.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс обновления дела.
type Service interface {
	UpdateCase(ctx context.Context, advocateUID, caseID string, c models.Case) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить дело
// @Description Обновляет дело текущего адвоката, включая дату заседания и статус.
// @Tags Cases
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор дела"
// @Param request body Request true "Новые данные дела"
// @Success 200 {object} response.Response "Количество обновлённых записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Чужое дело"
// @Failure 404 {object} response.ErrorResponse "Дело не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/cases/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	caseID := chi.URLParam(r, "id")

	count, err := h.service.UpdateCase(r.Context(), advocateUID, caseID, models.Case{
		Title:         req.Title,
		Detail:        req.Detail,
		Number:        req.Number,
		HearingDate:   req.HearingDate,
		CourtLocation: req.CourtLocation,
		Status:        req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("case not found"))
		case errors.Is(err, cases.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to update case", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update case"))
		}
		return
	}

	log.Info("case updated", slog.String("id", caseID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"updated": count,
	}))
}
