// Package auth содержит бизнес-логику регистрации, входа и выхода.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caseconnect/casetracker/internal/lib/jwt"
	"github.com/caseconnect/casetracker/internal/lib/password"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/session"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Ошибки уровня сервиса. Тексты совпадают с сообщениями исторического API,
// обработчики отдают их клиенту без изменений.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	ErrInactiveAccount    = errors.New("Your account is inactive. Please contact support.")
	ErrPasswordMismatch   = errors.New("Passwords do not match.")
	ErrUserExists         = errors.New("Username or email already exists.")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	CreateAdvocateProfile(ctx context.Context, adv models.Advocate) error
}

// SubscriptionRepository описывает доступ к планам и подпискам,
// необходимый при регистрации и входе.
type SubscriptionRepository interface {
	GetTrialPackage(ctx context.Context) (*models.SubscriptionPackage, error)
	GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error)
	CreateUserSubscription(ctx context.Context, sub models.UserSubscription) (string, error)
	GetLatestUserSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error)
}

// RegisterForm — данные формы регистрации.
type RegisterForm struct {
	FirstName             string
	LastName              string
	Email                 string
	Username              string
	Password              string
	ConfirmPassword       string
	Role                  string
	EnrollmentNumber      string
	Specialization        string
	UniqueNumber          string
	SubscriptionPackageID string
}

// Result — результат успешного входа или регистрации: историческая форма
// пользователя для ответа, каноническая форма для контекста запроса и токен.
type Result struct {
	Wire  WireUser
	User  models.AuthUser
	Token string
}

// Service отвечает за регистрацию, вход и завершение сеанса.
type Service struct {
	users    UserRepository
	subs     SubscriptionRepository
	sessions session.Store
	jwtMaker jwt.Maker
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(users UserRepository, subs SubscriptionRepository, sessions session.Store,
	jwtMaker jwt.Maker, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		subs:     subs,
		sessions: sessions,
		jwtMaker: jwtMaker,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Login проверяет учётные данные, создаёт сеанс и возвращает токен.
// Любая ошибка оставляет сеанс несозданным.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (*Result, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	return s.establishSession(ctx, user)
}

// Register создаёт пользователя, профиль адвоката и стартовую подписку,
// после чего выполняет ту же последовательность, что и вход.
func (s *Service) Register(ctx context.Context, form RegisterForm) (*Result, error) {
	if form.Password != form.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	exists, err := s.users.UserExists(ctx, form.Username, form.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashed, err := password.GetHash(form.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		Username:     form.Username,
		PasswordHash: hashed,
		Role:         form.Role,
		IsActive:     true,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.UID = uid
	user.CreatedAt = s.now()

	if form.Role == models.RoleAdvocate {
		if err := s.users.CreateAdvocateProfile(ctx, models.Advocate{
			UserUID:          uid,
			UniqueNumber:     form.UniqueNumber,
			EnrollmentNumber: form.EnrollmentNumber,
			Specialization:   form.Specialization,
		}); err != nil {
			return nil, err
		}
		if err := s.assignInitialPackage(ctx, uid, form.SubscriptionPackageID); err != nil {
			return nil, err
		}
	}

	return s.establishSession(ctx, &user)
}

// Logout завершает сеанс. Ошибки хранилища не прерывают выход.
func (s *Service) Logout(ctx context.Context, token string) {
	m := session.NewManager(s.sessions, token, s.ttl)
	m.Logout(ctx)
}

// assignInitialPackage создаёт стартовую подписку адвоката: выбранный
// план либо пробный, если план не указан.
func (s *Service) assignInitialPackage(ctx context.Context, userUID, packageID string) error {
	const op = "auth.assignInitialPackage"

	var pkg *models.SubscriptionPackage
	var err error
	if packageID != "" {
		pkg, err = s.subs.GetPackage(ctx, packageID)
	} else {
		pkg, err = s.subs.GetTrialPackage(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	startDate := s.now()
	endDate := startDate.AddDate(0, 0, 30*pkg.DurationMonth)
	_, err = s.subs.CreateUserSubscription(ctx, models.UserSubscription{
		UserUID:               userUID,
		SubscriptionPackageID: pkg.ID,
		StartDate:             startDate,
		EndDate:               endDate,
		IsActive:              true,
		Status:                models.SubscriptionStatusActive,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// establishSession строит историческую форму пользователя, нормализует её,
// генерирует токен и сохраняет сеанс. Сеанс появляется только после
// успешной записи в хранилище.
func (s *Service) establishSession(ctx context.Context, user *models.User) (*Result, error) {
	var packageID string
	if user.Role == models.RoleAdvocate {
		sub, err := s.subs.GetLatestUserSubscription(ctx, user.UID, s.now())
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if sub != nil {
			packageID = sub.SubscriptionPackageID
		}
	}

	wire := WireUser{
		ID:                    user.UID,
		Username:              user.Username,
		Email:                 user.Email,
		Firstname:             user.FirstName,
		Lastname:              user.LastName,
		Role:                  user.Role,
		CreatedAt:             user.CreatedAt,
		IsActive:              &user.IsActive,
		SubscriptionPackageID: packageID,
	}
	authUser := Normalize(wire)

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return nil, err
	}

	m := session.NewManager(s.sessions, token, s.ttl)
	attempt := m.Begin()
	if err := m.Complete(ctx, attempt, &authUser); err != nil {
		s.log.Error("failed to persist session", sl.Err(err))
		return nil, err
	}

	return &Result{Wire: wire, User: authUser, Token: token}, nil
}
