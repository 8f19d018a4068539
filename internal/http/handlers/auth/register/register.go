// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Запрос несёт поля пользователя и, для роли Advocate, вложенный профиль
// адвоката. Ошибки валидации возвращаются в историческом поле detail.
package register

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
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/auth"
)

// AdvocateProfile — вложенные поля профиля адвоката.
type AdvocateProfile struct {
	EnrollmentNumber string `json:"enrollmentNumber" validate:"required"`
	Specialization   string `json:"specialization"`
	UniqueNumber     string `json:"uniqueNumber"`
}

// Request — структура входных данных для регистрации.
type Request struct {
	Username              string           `json:"username" validate:"required,min=3,max=50"`
	Email                 string           `json:"email" validate:"required,email"`
	Password              string           `json:"password" validate:"required,min=6"`
	ConfirmPassword       string           `json:"confirmPassword" validate:"required"`
	Firstname             string           `json:"firstname" validate:"required"`
	Lastname              string           `json:"lastname"`
	Role                  string           `json:"role" validate:"required,oneof=Advocate Client SuperAdmin"`
	Advocate              *AdvocateProfile `json:"advocate,omitempty"`
	SubscriptionPackageID string           `json:"subscriptionPackageId,omitempty"`
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, form auth.RegisterForm) (*auth.Result, error)
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
// @Summary Регистрация пользователя
// @Description Создает пользователя, для адвоката — профиль и стартовую подписку. Возвращает пользователя и JWT.
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные регистрации"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} map[string]any "Ошибка данных, поле detail"
// @Failure 422 {object} map[string]any "Ошибка валидации, поле detail"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"detail": []string{"invalid request body"}})
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{
			"detail": response.ValidationMessages(err.(validator.ValidationErrors)),
		})
		return
	}
	if req.Role == models.RoleAdvocate && req.Advocate == nil {
		log.Error("advocate profile missing")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{"detail": []string{"field advocate is a required field"}})
		return
	}

	form := auth.RegisterForm{
		FirstName:             req.Firstname,
		LastName:              req.Lastname,
		Email:                 req.Email,
		Username:              req.Username,
		Password:              req.Password,
		ConfirmPassword:       req.ConfirmPassword,
		Role:                  req.Role,
		SubscriptionPackageID: req.SubscriptionPackageID,
	}
	if req.Advocate != nil {
		form.EnrollmentNumber = req.Advocate.EnrollmentNumber
		form.Specialization = req.Advocate.Specialization
		form.UniqueNumber = req.Advocate.UniqueNumber
	}

	res, err := h.service.Register(r.Context(), form)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordMismatch), errors.Is(err, auth.ErrUserExists):
			log.Error("registration rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"detail": []string{err.Error()}})
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("unexpected error occurred"))
		}
		return
	}

	log.Info("registration success", slog.String("username", req.Username))
	render.JSON(w, r, map[string]any{
		"user":  res.Wire,
		"token": res.Token,
	})
}
