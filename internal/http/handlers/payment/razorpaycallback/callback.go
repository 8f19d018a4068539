// Package razorpaycallback реализует HTTP-обработчик колбэка Razorpay Checkout.
//
// Подпись HMAC-SHA256 от "providerOrderID|paymentID" проверяется до любого
// изменения платежа; неверная подпись фиксируется как неуспех оплаты.
package razorpaycallback

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
	"github.com/caseconnect/casetracker/internal/services/payment"
)

// Request — структура колбэка Razorpay Checkout.
type Request struct {
	OrderID           string `json:"orderId" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// Handler обрабатывает колбэки Razorpay.
type Handler struct {
	log      *slog.Logger
	service  Service
	verifier Verifier
	validate *validator.Validate
}

// Service описывает интерфейс обработки результата оплаты.
type Service interface {
	HandleCallback(ctx context.Context, orderID string, success bool, providerTxnID, paymentMode *string) error
}

// Verifier описывает интерфейс проверки подписи оплаты.
type Verifier interface {
	VerifyPaymentSignature(providerOrderID, paymentID, signature string) bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, verifier Verifier) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		verifier: verifier,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Колбэк Razorpay
// @Description Проверяет подпись оплаты и обновляет платёж. При успехе создаёт подписку пользователя.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Результат оплаты Razorpay"
// @Success 200 {object} response.Response "Платёж обработан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Неизвестный заказ"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /razorpay/callback [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.razorpaycallback"

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

	valid := h.verifier.VerifyPaymentSignature(
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if !valid {
		log.Error("invalid payment signature", slog.String("order_id", req.OrderID))
	}

	providerTxnID := req.RazorpayPaymentID
	err := h.service.HandleCallback(r.Context(), req.OrderID, valid, &providerTxnID, nil)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownOrder) {
			log.Error("unknown order", slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown order"))
			return
		}
		log.Error("failed to handle callback", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process payment result"))
		return
	}

	log.Info("razorpay callback processed",
		slog.String("order_id", req.OrderID),
		slog.Bool("success", valid))
	render.JSON(w, r, response.OK())
}
