// Package gatewayupdate реализует HTTP-обработчик смены платёжного шлюза.
package gatewayupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/services/subscription"
)

// Request — структура входных данных для смены шлюза.
type Request struct {
	Gateway string `json:"gateway" validate:"required"`
}

// Handler обрабатывает HTTP-запросы смены шлюза.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс смены выбранного шлюза.
type Service interface {
	UpdateGateway(ctx context.Context, gateway string) error
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
// @Summary Сменить платёжный шлюз
// @Description Переключает шлюз для новых платежей. Допустимы PhonePe и Razorpay. Доступно только SuperAdmin.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Новый шлюз"
// @Success 200 {object} response.Response "Шлюз сменён"
// @Failure 400 {object} response.ErrorResponse "Неизвестный шлюз"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/gateway [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.gatewayupdate"

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

	if err := h.service.UpdateGateway(r.Context(), req.Gateway); err != nil {
		if errors.Is(err, subscription.ErrUnknownGateway) {
			log.Error("unknown gateway", slog.String("gateway", req.Gateway))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown gateway"))
			return
		}
		log.Error("failed to update gateway", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update gateway"))
		return
	}

	log.Info("gateway updated", slog.String("gateway", req.Gateway))
	render.JSON(w, r, response.OK())
}
