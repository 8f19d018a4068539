// Package scheduler периодически находит подписки, срок которых подходит
// к концу, и публикует напоминания в RabbitMQ.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/caseconnect/casetracker/internal/lib/rabbitmq"
	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/services/subscription"
)

// Repository определяет методы хранилища, нужные планировщику.
type Repository interface {
	FindSubscriptionsExpiringWithin(ctx context.Context, now time.Time, days int) ([]*models.UserSubscription, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error)
}

// Publisher публикует событие напоминания.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// AMQPPublisher публикует события в обменник напоминаний RabbitMQ.
type AMQPPublisher struct {
	Channel *amqp.Channel
}

// Publish отправляет сообщение в обменник напоминаний.
func (p *AMQPPublisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Channel, rabbitmq.ExchangeReminders, routingKey, message)
}

// Service находит подписки в окне продления и рассылает напоминания.
type Service struct {
	repo Repository
	pub  Publisher
	log  *slog.Logger
	now  func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, pub Publisher, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		pub:  pub,
		log:  log,
		now:  time.Now,
	}
}

// Run запускает периодический поиск подписок дважды в сутки.
func (s *Service) Run(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce публикует напоминание для каждой подписки адвоката,
// заканчивающейся в ближайшую неделю.
func (s *Service) RunOnce(ctx context.Context) {
	s.log.Info("starting scan for subscriptions entering renewal window")

	now := s.now()
	subs, err := s.repo.FindSubscriptionsExpiringWithin(ctx, now, subscription.RenewalWindowDays)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(subs) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", slog.Int("count", len(subs)))

	for _, sub := range subs {
		user, err := s.repo.GetUser(ctx, sub.UserUID)
		if err != nil {
			s.log.Error("failed to load user for reminder", sl.Err(err),
				slog.String("user_uid", sub.UserUID))
			continue
		}
		if user.Role != models.RoleAdvocate {
			continue
		}

		pkg, err := s.repo.GetPackage(ctx, sub.SubscriptionPackageID)
		if err != nil {
			s.log.Error("failed to load package for reminder", sl.Err(err),
				slog.String("package_id", sub.SubscriptionPackageID))
			continue
		}

		reminder := models.RenewalReminder{
			UserUID:       user.UID,
			Email:         user.Email,
			FirstName:     user.FirstName,
			PackageName:   pkg.Name,
			DaysRemaining: subscription.DaysRemaining(sub, now),
			EndDate:       sub.EndDate,
		}
		if err := s.pub.Publish("renewal", reminder); err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err),
				slog.String("user_uid", user.UID))
		}
	}
}
