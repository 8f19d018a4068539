// Package payment содержит бизнес-логику инициирования платежей
// и обработки колбэков платёжных шлюзов.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/paymentprovider"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// ErrUnknownOrder возвращается для колбэка по неизвестному заказу.
var ErrUnknownOrder = errors.New("unknown order")

// Префиксы идентификаторов заказов по шлюзам.
const (
	orderPrefixPhonePe  = "ORDER_"
	orderPrefixRazorpay = "RAZOR_"
)

// Provider описывает создание заказа у платёжного шлюза.
type Provider interface {
	CreateOrder(ctx context.Context, req paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error)
}

// Repository определяет методы хранилища, нужные платёжному сервису.
type Repository interface {
	CreatePayment(ctx context.Context, p models.Payment) (string, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, orderID, status string, providerTxnID, paymentMode *string) (int, error)
	GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error)
	GetActiveUserSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error)
	CreateUserSubscription(ctx context.Context, sub models.UserSubscription) (string, error)
	GetSelectedGateway(ctx context.Context) (string, error)
}

// InitiateResult — результат инициирования платежа.
type InitiateResult struct {
	OrderID         string `json:"orderId"`
	ProviderOrderID string `json:"providerOrderId,omitempty"`
	RedirectURL     string `json:"redirectUrl,omitempty"`
	Amount          int    `json:"amount"`
	Gateway         string `json:"gateway"`
}

// Service реализует платёжный цикл: заказ, вызов шлюза, колбэк, подписка.
type Service struct {
	repo     Repository
	phonePe  Provider
	razorpay Provider
	log      *slog.Logger
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, phonePe, razorpay Provider, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		phonePe:  phonePe,
		razorpay: razorpay,
		log:      log,
		now:      time.Now,
	}
}

// Initiate создаёт платёж в статусе INITIATED и заказ у выбранного шлюза.
func (s *Service) Initiate(ctx context.Context, userUID, packageID, gateway string) (*InitiateResult, error) {
	const op = "payment.Initiate"

	pkg, err := s.repo.GetPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var provider Provider
	var orderID string
	switch gateway {
	case models.GatewayPhonePe:
		provider = s.phonePe
		orderID = newOrderID(orderPrefixPhonePe)
	case models.GatewayRazorpay:
		provider = s.razorpay
		orderID = newOrderID(orderPrefixRazorpay)
	default:
		return nil, fmt.Errorf("%s: unsupported gateway %q", op, gateway)
	}

	_, err = s.repo.CreatePayment(ctx, models.Payment{
		OrderID:               orderID,
		Amount:                pkg.PackagePrice,
		Status:                models.PaymentStatusInitiated,
		SubscriptionPackageID: pkg.ID,
		UserUID:               userUID,
		PaymentDate:           s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := provider.CreateOrder(ctx, paymentprovider.CreateOrderRequest{
		OrderID: orderID,
		Amount:  pkg.PackagePrice,
		UserUID: userUID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment initiated",
		slog.String("order_id", orderID),
		slog.String("gateway", gateway),
		slog.Int("amount", pkg.PackagePrice))

	return &InitiateResult{
		OrderID:         orderID,
		ProviderOrderID: order.ProviderOrderID,
		RedirectURL:     order.RedirectURL,
		Amount:          pkg.PackagePrice,
		Gateway:         gateway,
	}, nil
}

// SelectedGateway возвращает шлюз, выбранный в настройках.
func (s *Service) SelectedGateway(ctx context.Context) (string, error) {
	return s.repo.GetSelectedGateway(ctx)
}

// HandleCallback обрабатывает колбэк шлюза: обновляет платёж и при успехе
// создаёт подписку. Если у пользователя уже действует подписка, новый план
// начинается с даты её окончания в статусе SCHEDULED, иначе — немедленно.
func (s *Service) HandleCallback(ctx context.Context, orderID string, success bool, providerTxnID, paymentMode *string) error {
	const op = "payment.HandleCallback"

	p, err := s.repo.GetPaymentByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrUnknownOrder)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	status := models.PaymentStatusSuccess
	if !success {
		status = models.PaymentStatusFailed
	}
	if _, err := s.repo.UpdatePaymentStatus(ctx, orderID, status, providerTxnID, paymentMode); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !success {
		s.log.Info("payment failed", slog.String("order_id", orderID))
		return nil
	}

	pkg, err := s.repo.GetPackage(ctx, p.SubscriptionPackageID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	startDate := now
	subStatus := models.SubscriptionStatusActive
	current, err := s.repo.GetActiveUserSubscription(ctx, p.UserUID, now)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current != nil {
		startDate = current.EndDate
		subStatus = models.SubscriptionStatusScheduled
	}
	endDate := startDate.AddDate(0, 0, 30*pkg.DurationMonth)

	subID, err := s.repo.CreateUserSubscription(ctx, models.UserSubscription{
		UserUID:               p.UserUID,
		SubscriptionPackageID: pkg.ID,
		PaymentID:             &p.ID,
		StartDate:             startDate,
		EndDate:               endDate,
		IsActive:              true,
		Status:                subStatus,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription created from payment",
		slog.String("order_id", orderID),
		slog.String("subscription_id", subID),
		slog.String("status", subStatus))
	return nil
}

// newOrderID возвращает идентификатор заказа: префикс шлюза
// и 10 шестнадцатеричных символов в верхнем регистре.
func newOrderID(prefix string) string {
	buf := make([]byte, 5)
	_, _ = rand.Read(buf)
	return prefix + strings.ToUpper(hex.EncodeToString(buf))
}
