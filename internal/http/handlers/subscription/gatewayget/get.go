// Package gatewayget реализует HTTP-обработчик чтения выбранного платёжного шлюза.
package gatewayget

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы чтения шлюза.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения выбранного шлюза.
type Service interface {
	SelectedGateway(ctx context.Context) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выбранный платёжный шлюз
// @Description Возвращает шлюз, через который проводятся новые платежи. По умолчанию Razorpay.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response "Шлюз"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/gateway [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.gatewayget"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	gateway, err := h.service.SelectedGateway(r.Context())
	if err != nil {
		log.Error("failed to get selected gateway", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get selected gateway"))
		return
	}

	log.Info("gateway read", slog.String("gateway", gateway))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"gateway": gateway,
	}))
}
