// Package advocatecreate реализует HTTP-обработчик добавления адвоката
// супер-администратором.
//
// Учётная запись и профиль адвоката создаются одной транзакцией:
// частично заведённого адвоката не бывает.
package advocatecreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/caseconnect/casetracker/internal/http/response"
	"github.com/caseconnect/casetracker/internal/lib/password"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
)

// Request — структура входных данных для создания адвоката.
type Request struct {
	Username         string `json:"username" validate:"required,min=3,max=50"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	Firstname        string `json:"firstname" validate:"required"`
	Lastname         string `json:"lastname"`
	EnrollmentNumber string `json:"enrollmentNumber" validate:"required"`
	Specialization   string `json:"specialization"`
	UniqueNumber     string `json:"uniqueNumber"`
}

// Handler обрабатывает HTTP-запросы создания адвоката.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс хранилища для создания адвоката.
type Service interface {
	UserExists(ctx context.Context, username, email string) (bool, error)
	CreateAdvocate(ctx context.Context, user models.User, adv models.Advocate) (string, error)
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
// @Summary Добавить адвоката
// @Description Создает учётную запись и профиль адвоката. Доступно только SuperAdmin.
// @Tags SuperAdmin
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового адвоката"
// @Success 200 {object} response.Response "Идентификатор созданного адвоката"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятый username/email"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /superadmin/advocates [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.superadmin.advocatecreate"

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
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	exists, err := h.service.UserExists(r.Context(), req.Username, req.Email)
	if err != nil {
		log.Error("failed to check user existence", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create advocate"))
		return
	}
	if exists {
		log.Info("username or email already taken", slog.String("username", req.Username))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("username or email already exists"))
		return
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create advocate"))
		return
	}

	uniqueNumber := req.UniqueNumber
	if uniqueNumber == "" {
		uniqueNumber = "LAW-" + strings.ToUpper(uuid.NewString()[:4])
	}

	uid, err := h.service.CreateAdvocate(r.Context(),
		models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.Firstname,
			LastName:     req.Lastname,
			Role:         models.RoleAdvocate,
			IsActive:     true,
		},
		models.Advocate{
			UniqueNumber:     uniqueNumber,
			EnrollmentNumber: req.EnrollmentNumber,
			Specialization:   req.Specialization,
		})
	if err != nil {
		log.Error("failed to create advocate", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create advocate"))
		return
	}

	log.Info("advocate created", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":          uid,
		"uniqueNumber": uniqueNumber,
	}))
}
