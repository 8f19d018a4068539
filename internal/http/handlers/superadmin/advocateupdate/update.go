// Package advocateupdate реализует HTTP-обработчик обновления адвоката
// супер-администратором.
package advocateupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Request — структура входных данных для обновления адвоката.
type Request struct {
	Firstname        string `json:"firstname" validate:"required"`
	Lastname         string `json:"lastname"`
	Email            string `json:"email" validate:"required,email"`
	IsActive         *bool  `json:"isActive" validate:"required"`
	EnrollmentNumber string `json:"enrollmentNumber" validate:"required"`
	Specialization   string `json:"specialization"`
}

// Handler обрабатывает HTTP-запросы обновления адвоката.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс хранилища для обновления адвоката.
type Service interface {
	UpdateAdvocate(ctx context.Context, userUID string, user models.User, adv models.Advocate) (int, error)
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
// @Summary Обновить адвоката
// @Description Обновляет учётные данные и профиль адвоката. Доступно только SuperAdmin.
// @Tags SuperAdmin
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор адвоката"
// @Param request body Request true "Новые данные адвоката"
// @Success 200 {object} response.Response "Количество обновлённых записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Адвокат не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /superadmin/advocates/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.superadmin.advocateupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "id")
	if uid == "" {
		log.Error("missing advocate id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing advocate id"))
		return
	}

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

	count, err := h.service.UpdateAdvocate(r.Context(), uid,
		models.User{
			FirstName: req.Firstname,
			LastName:  req.Lastname,
			Email:     req.Email,
			IsActive:  *req.IsActive,
		},
		models.Advocate{
			EnrollmentNumber: req.EnrollmentNumber,
			Specialization:   req.Specialization,
		})
	if err != nil {
		log.Error("failed to update advocate", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update advocate"))
		return
	}
	if count == 0 {
		log.Info("advocate not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("advocate not found"))
		return
	}

	log.Info("advocate updated", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"updated": count,
	}))
}
