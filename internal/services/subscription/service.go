package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// Ошибки уровня сервиса.
var (
	ErrTrialImmutable = errors.New("trial package cannot be modified")
	ErrUnknownGateway = errors.New("unknown payment gateway")
)

const packagesCacheKey = "subscription_packages:active"

// Repository определяет методы для работы с планами и подписками в хранилище.
type Repository interface {
	ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error)
	GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error)
	UpdatePackage(ctx context.Context, id string, pkg models.SubscriptionPackage) (int, error)
	CreateUserSubscription(ctx context.Context, sub models.UserSubscription) (string, error)
	GetUserSubscription(ctx context.Context, id string) (*models.UserSubscription, error)
	ListUserSubscriptions(ctx context.Context, userUID string) ([]*models.UserSubscription, error)
	GetLatestUserSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error)
	GetSelectedGateway(ctx context.Context) (string, error)
	UpdateSelectedGateway(ctx context.Context, gateway string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Status — сводка состояния подписки пользователя для клиента:
// флаги вычислены сервером на момент запроса.
type Status struct {
	Subscription   *models.UserSubscription `json:"subscription,omitempty"`
	IsActive       bool                     `json:"isActive"`
	DaysRemaining  int                      `json:"daysRemaining"`
	HasFuturePlan  bool                     `json:"hasFuturePlan"`
	CanPurchaseNew bool                     `json:"canPurchaseNewPlan"`
}

// Service реализует бизнес-логику тарифных планов и подписок с кешированием.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// ListPackages возвращает активные тарифные планы, используя кеш.
func (s *Service) ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error) {
	var cached []*models.SubscriptionPackage
	found, err := s.cache.Get(ctx, packagesCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read packages from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	packages, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, packagesCacheKey, packages, time.Hour); err != nil {
		s.log.Warn("failed to cache packages", sl.Err(err))
	}
	return packages, nil
}

// GetPackage возвращает тарифный план по ID.
func (s *Service) GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error) {
	return s.repo.GetPackage(ctx, id)
}

// UpdatePackage обновляет тарифный план и инвалидирует кеш.
// Пробный план неизменяем.
func (s *Service) UpdatePackage(ctx context.Context, id string, pkg models.SubscriptionPackage) error {
	current, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}
	if current.IsTrial {
		return ErrTrialImmutable
	}

	count, err := s.repo.UpdatePackage(ctx, id, pkg)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}

	if err := s.cache.Invalidate(ctx, packagesCacheKey); err != nil {
		s.log.Warn("failed to invalidate packages cache", sl.Err(err))
	}
	return nil
}

// CreateUserSubscription создаёт подписку пользователя напрямую (админ-операция).
func (s *Service) CreateUserSubscription(ctx context.Context, sub models.UserSubscription) (string, error) {
	if sub.Status == "" {
		sub.Status = models.SubscriptionStatusActive
	}
	return s.repo.CreateUserSubscription(ctx, sub)
}

// GetUserSubscription возвращает подписку по идентификатору (админ-операция).
func (s *Service) GetUserSubscription(ctx context.Context, id string) (*models.UserSubscription, error) {
	return s.repo.GetUserSubscription(ctx, id)
}

// ListUserSubscriptions возвращает историю подписок пользователя.
func (s *Service) ListUserSubscriptions(ctx context.Context, userUID string) ([]*models.UserSubscription, error) {
	return s.repo.ListUserSubscriptions(ctx, userUID)
}

// Latest возвращает действующую подписку пользователя: предстоящий
// план имеет приоритет перед текущим.
func (s *Service) Latest(ctx context.Context, userUID string) (*models.UserSubscription, error) {
	return s.repo.GetLatestUserSubscription(ctx, userUID, s.now())
}

// UserStatus возвращает сводку состояния подписки для пользователя.
// Для ролей, кроме адвоката, подписка считается активной безусловно.
func (s *Service) UserStatus(ctx context.Context, userUID, role string) (*Status, error) {
	now := s.now()
	sub, err := s.repo.GetLatestUserSubscription(ctx, userUID, now)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("subscription.UserStatus: %w", err)
	}

	active := IsSubscriptionActive(role, sub, now)
	days := DaysRemaining(sub, now)
	future := HasFuturePlan(sub, now)
	return &Status{
		Subscription:   sub,
		IsActive:       active,
		DaysRemaining:  days,
		HasFuturePlan:  future,
		CanPurchaseNew: CanPurchaseNewPlan(active, days) && !future,
	}, nil
}

// SelectedGateway возвращает выбранный платёжный шлюз.
func (s *Service) SelectedGateway(ctx context.Context) (string, error) {
	return s.repo.GetSelectedGateway(ctx)
}

// UpdateGateway сохраняет выбор платёжного шлюза. Допустимы только
// PhonePe и Razorpay.
func (s *Service) UpdateGateway(ctx context.Context, gateway string) error {
	if gateway != models.GatewayPhonePe && gateway != models.GatewayRazorpay {
		return ErrUnknownGateway
	}
	return s.repo.UpdateSelectedGateway(ctx, gateway)
}
