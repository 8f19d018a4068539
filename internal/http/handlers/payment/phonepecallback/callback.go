// Package phonepecallback реализует HTTP-обработчик колбэка PhonePe.
//
// PhonePe передаёт результат оплаты формой: code, merchantTransactionId
// (наш номер заказа), transactionId и paymentInstrument.
package phonepecallback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/services/payment"
)

const successCode = "PAYMENT_SUCCESS"

// Handler обрабатывает колбэки PhonePe.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс обработки результата оплаты.
type Service interface {
	HandleCallback(ctx context.Context, orderID string, success bool, providerTxnID, paymentMode *string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Колбэк PhonePe
// @Description Обновляет платёж по результату оплаты. При успехе создаёт подписку пользователя.
// @Tags Payments
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param code formData string true "Код результата оплаты"
// @Param merchantTransactionId formData string true "Номер заказа"
// @Param transactionId formData string false "Номер транзакции провайдера"
// @Param paymentMode formData string false "Способ оплаты"
// @Success 200 {object} response.Response "Платёж обработан"
// @Failure 400 {object} response.ErrorResponse "Нет номера заказа"
// @Failure 404 {object} response.ErrorResponse "Неизвестный заказ"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /phonepe/callback [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.phonepecallback"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid form"))
		return
	}

	orderID := r.FormValue("merchantTransactionId")
	if orderID == "" {
		log.Error("missing merchant transaction id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing merchant transaction id"))
		return
	}

	success := r.FormValue("code") == successCode

	var providerTxnID, paymentMode *string
	if v := r.FormValue("transactionId"); v != "" {
		providerTxnID = &v
	}
	if v := r.FormValue("paymentMode"); v != "" {
		paymentMode = &v
	}

	err := h.service.HandleCallback(r.Context(), orderID, success, providerTxnID, paymentMode)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownOrder) {
			log.Error("unknown order", slog.String("order_id", orderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown order"))
			return
		}
		log.Error("failed to handle callback", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process payment result"))
		return
	}

	log.Info("phonepe callback processed",
		slog.String("order_id", orderID),
		slog.Bool("success", success))
	render.JSON(w, r, response.OK())
}
