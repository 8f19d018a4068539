// Package usersubcreate реализует HTTP-обработчик ручного создания подписки
// пользователя администратором, минуя оплату.
package usersubcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Request — структура входных данных для создания подписки.
type Request struct {
	UserUID               string    `json:"userUid" validate:"required,uuid"`
	SubscriptionPackageID string    `json:"subscriptionPackageId" validate:"required,uuid"`
	StartDate             time.Time `json:"startDate" validate:"required"`
	EndDate               time.Time `json:"endDate" validate:"required"`
	Status                string    `json:"status" validate:"omitempty,oneof=ACTIVE SCHEDULED EXPIRED"`
}

// Handler обрабатывает HTTP-запросы создания подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс создания подписки пользователя.
type Service interface {
	CreateUserSubscription(ctx context.Context, sub models.UserSubscription) (string, error)
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
// @Summary Создать подписку пользователя
// @Description Создает подписку вручную, без оплаты. Доступно только SuperAdmin.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные подписки"
// @Success 200 {object} response.Response "Идентификатор созданной подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/usersubscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.usersubcreate"

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

	id, err := h.service.CreateUserSubscription(r.Context(), models.UserSubscription{
		UserUID:               req.UserUID,
		SubscriptionPackageID: req.SubscriptionPackageID,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		IsActive:              true,
		Status:                req.Status,
	})
	if err != nil {
		log.Error("failed to create user subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("user subscription created", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
