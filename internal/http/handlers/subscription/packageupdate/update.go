// Package packageupdate реализует HTTP-обработчик изменения тарифного плана.
// Цена и длительность пробного плана неизменны: такие запросы отклоняются.
package packageupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/subscription"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Request — структура входных данных для изменения плана.
type Request struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	PackagePrice  int    `json:"packagePrice" validate:"min=0"`
	DurationMonth int    `json:"durationMonth" validate:"required,min=1"`
	IsActive      bool   `json:"isActive"`
}

// Handler обрабатывает HTTP-запросы изменения плана.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс изменения тарифного плана.
type Service interface {
	UpdatePackage(ctx context.Context, id string, pkg models.SubscriptionPackage) error
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
// @Summary Изменить тарифный план
// @Description Обновляет план. Пробный план неизменен. Доступно только SuperAdmin.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор плана"
// @Param request body Request true "Новые данные плана"
// @Success 200 {object} response.Response "План обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пробный план"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/packages/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.packageupdate"

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

	id := chi.URLParam(r, "id")

	err := h.service.UpdatePackage(r.Context(), id, models.SubscriptionPackage{
		Name:          req.Name,
		Description:   req.Description,
		PackagePrice:  req.PackagePrice,
		DurationMonth: req.DurationMonth,
		IsActive:      req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrTrialImmutable):
			log.Error("attempt to modify trial package", slog.String("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("trial package cannot be modified"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("package not found"))
		default:
			log.Error("failed to update package", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update package"))
		}
		return
	}

	log.Info("package updated", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
