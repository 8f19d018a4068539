// Package initiate реализует HTTP-обработчик начала оплаты тарифного плана.
//
// Один обработчик обслуживает оба шлюза: маршрут задаёт шлюз при монтировании.
package initiate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/services/payment"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Request — структура входных данных для начала оплаты.
type Request struct {
	SubscriptionPackageID string `json:"subscriptionPackageId" validate:"required,uuid"`
}

// Handler обрабатывает HTTP-запросы начала оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	gateway  string
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики начала оплаты.
type Service interface {
	Initiate(ctx context.Context, userUID, packageID, gateway string) (*payment.InitiateResult, error)
}

// New создает новый экземпляр Handler для указанного шлюза.
func New(log *slog.Logger, service Service, gateway string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		gateway:  gateway,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Начать оплату плана
// @Description Создает платёж со статусом INITIATED и заказ у платёжного провайдера.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Выбранный план"
// @Success 200 {object} response.Response "Данные для продолжения оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /phonepe/initiate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.initiate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("gateway", h.gateway),
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

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	res, err := h.service.Initiate(r.Context(), userUID, req.SubscriptionPackageID, h.gateway)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("package not found", slog.String("id", req.SubscriptionPackageID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("package not found"))
			return
		}
		log.Error("failed to initiate payment", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not initiate payment"))
		return
	}

	log.Info("payment initiated", slog.String("order_id", res.OrderID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"orderId":         res.OrderID,
		"providerOrderId": res.ProviderOrderID,
		"redirectUrl":     res.RedirectURL,
		"amount":          res.Amount,
		"gateway":         res.Gateway,
	}))
}
