// Package casecreate реализует HTTP-обработчик создания судебного дела.
package casecreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Request — структура входных данных для создания дела.
type Request struct {
	ClientUID     string    `json:"clientUid" validate:"required,uuid"`
	Title         string    `json:"title" validate:"required"`
	Detail        string    `json:"detail"`
	Number        string    `json:"number"`
	HearingDate   time.Time `json:"hearingDate"`
	CourtLocation string    `json:"courtLocation"`
	ParentID      *string   `json:"parentId,omitempty"`
	FilingDate    time.Time `json:"filingDate"`
	Status        string    `json:"status" validate:"omitempty,oneof=Open Closed 'On Hold'"`
}

// Handler обрабатывает HTTP-запросы создания дела.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания дела.
type Service interface {
	AddCase(ctx context.Context, advocateUID string, c models.Case) (string, error)
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
// @Summary Создать дело
// @Description Создает новое дело текущего адвоката. Статус по умолчанию Open, дата подачи — сегодня.
// @Tags Cases
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового дела"
// @Success 200 {object} response.Response "Идентификатор созданного дела"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /advocate/cases [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cases.create"

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
	log.Info("request body decoded", slog.String("title", req.Title))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	advocateUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	id, err := h.service.AddCase(r.Context(), advocateUID, models.Case{
		ClientUID:     req.ClientUID,
		Title:         req.Title,
		Detail:        req.Detail,
		Number:        req.Number,
		HearingDate:   req.HearingDate,
		CourtLocation: req.CourtLocation,
		ParentID:      req.ParentID,
		FilingDate:    req.FilingDate,
		Status:        req.Status,
	})
	if err != nil {
		log.Error("failed to create case", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create case"))
		return
	}

	log.Info("case created", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
