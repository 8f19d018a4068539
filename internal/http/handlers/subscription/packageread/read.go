// Package packageread реализует HTTP-обработчик чтения тарифного плана.
package packageread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы чтения плана.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения тарифного плана.
type Service interface {
	GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Тарифный план
// @Description Возвращает план по идентификатору.
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "Идентификатор плана"
// @Success 200 {object} response.Response "План"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/packages/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.packageread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	pkg, err := h.service.GetPackage(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("package not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("package not found"))
			return
		}
		log.Error("failed to read package", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read package"))
		return
	}

	log.Info("package read", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":            pkg.ID,
		"name":          pkg.Name,
		"description":   pkg.Description,
		"packagePrice":  pkg.PackagePrice,
		"durationMonth": pkg.DurationMonth,
		"isTrial":       pkg.IsTrial,
		"isActive":      pkg.IsActive,
	}))
}
