// Package packagelist реализует HTTP-обработчик списка тарифных планов.
package packagelist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Handler обрабатывает HTTP-запросы списка планов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения тарифных планов.
type Service interface {
	ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error)
}

// Item — тарифный план в ответе.
type Item struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PackagePrice  int    `json:"packagePrice"`
	DurationMonth int    `json:"durationMonth"`
	IsTrial       bool   `json:"isTrial"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список тарифных планов
// @Description Возвращает активные планы, упорядоченные по длительности.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response "Список планов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.packagelist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	packages, err := h.service.ListPackages(r.Context())
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list packages"))
		return
	}

	items := make([]Item, 0, len(packages))
	for _, p := range packages {
		items = append(items, Item{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			PackagePrice:  p.PackagePrice,
			DurationMonth: p.DurationMonth,
			IsTrial:       p.IsTrial,
		})
	}

	log.Info("packages listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"packages": items,
	}))
}
