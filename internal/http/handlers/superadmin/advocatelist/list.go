// Package advocatelist реализует HTTP-обработчик списка адвокатов для SuperAdmin.
package advocatelist

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

// Handler обрабатывает HTTP-запросы списка адвокатов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения списка адвокатов.
type Service interface {
	ListAdvocates(ctx context.Context) ([]*models.Advocate, error)
}

// Item — адвокат в ответе API, без хэша пароля.
type Item struct {
	UID              string `json:"uid"`
	Firstname        string `json:"firstname"`
	Lastname         string `json:"lastname"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	IsActive         bool   `json:"isActive"`
	UniqueNumber     string `json:"uniqueNumber"`
	EnrollmentNumber string `json:"enrollmentNumber"`
	Specialization   string `json:"specialization"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список адвокатов
// @Description Возвращает всех адвокатов с их профилями. Доступно только SuperAdmin.
// @Tags SuperAdmin
// @Produce  json
// @Success 200 {object} response.Response "Список адвокатов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /superadmin/advocates [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.superadmin.advocatelist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	advocates, err := h.service.ListAdvocates(r.Context())
	if err != nil {
		log.Error("failed to list advocates", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list advocates"))
		return
	}

	items := make([]Item, 0, len(advocates))
	for _, adv := range advocates {
		item := Item{
			UID:              adv.UserUID,
			UniqueNumber:     adv.UniqueNumber,
			EnrollmentNumber: adv.EnrollmentNumber,
			Specialization:   adv.Specialization,
		}
		if adv.User != nil {
			item.Firstname = adv.User.FirstName
			item.Lastname = adv.User.LastName
			item.Email = adv.User.Email
			item.Username = adv.User.Username
			item.IsActive = adv.User.IsActive
		}
		items = append(items, item)
	}

	log.Info("advocates listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"advocates": items,
	}))
}
