// Package advocateread реализует HTTP-обработчик карточки адвоката для SuperAdmin.
package advocateread

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

// Handler обрабатывает HTTP-запросы чтения адвоката.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения профиля адвоката.
type Service interface {
	GetAdvocateProfile(ctx context.Context, userUID string) (*models.Advocate, error)
}

// Response — адвокат в ответе API, без хэша пароля.
type Response struct {
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
// @Summary Карточка адвоката
// @Description Возвращает адвоката с профилем по идентификатору. Доступно только SuperAdmin.
// @Tags SuperAdmin
// @Produce  json
// @Param id path string true "Идентификатор адвоката"
// @Success 200 {object} response.Response "Адвокат"
// @Failure 404 {object} response.ErrorResponse "Адвокат не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /superadmin/advocates/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.superadmin.advocateread"

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

	adv, err := h.service.GetAdvocateProfile(r.Context(), uid)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("advocate not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("advocate not found"))
		return
	}
	if err != nil {
		log.Error("failed to read advocate", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read advocate"))
		return
	}

	resp := Response{
		UID:              adv.UserUID,
		UniqueNumber:     adv.UniqueNumber,
		EnrollmentNumber: adv.EnrollmentNumber,
		Specialization:   adv.Specialization,
	}
	if adv.User != nil {
		resp.Firstname = adv.User.FirstName
		resp.Lastname = adv.User.LastName
		resp.Email = adv.User.Email
		resp.Username = adv.User.Username
		resp.IsActive = adv.User.IsActive
	}

	log.Info("advocate read", slog.String("uid", adv.UserUID))
	render.JSON(w, r, response.OKWithData(resp))
}
