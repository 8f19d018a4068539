package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseconnect/casetracker/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindSubscriptionsExpiringWithin(ctx context.Context, now time.Time, days int) ([]*models.UserSubscription, error) {
	args := m.Called(ctx, now, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSubscription), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPackage), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func testNow() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func newTestService(repo *MockRepository, pub *MockPublisher) *Service {
	svc := NewService(repo, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = testNow
	return svc
}

func TestRunOncePublishesReminder(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)

	now := testNow()
	endDate := now.Add(3*24*time.Hour + time.Hour)
	sub := &models.UserSubscription{
		UserUID:               "adv-1",
		SubscriptionPackageID: "pkg-1",
		StartDate:             now.AddDate(0, -3, 0),
		EndDate:               endDate,
		IsActive:              true,
	}

	repo.On("FindSubscriptionsExpiringWithin", mock.Anything, now, 7).
		Return([]*models.UserSubscription{sub}, nil)
	repo.On("GetUser", mock.Anything, "adv-1").Return(&models.User{
		UID:       "adv-1",
		Email:     "adv@example.com",
		FirstName: "Asha",
		Role:      models.RoleAdvocate,
	}, nil)
	repo.On("GetPackage", mock.Anything, "pkg-1").Return(&models.SubscriptionPackage{
		ID:   "pkg-1",
		Name: "Standard",
	}, nil)
	pub.On("Publish", "renewal", mock.MatchedBy(func(msg any) bool {
		reminder, ok := msg.(models.RenewalReminder)
		if !ok {
			return false
		}
		return reminder.Email == "adv@example.com" &&
			reminder.PackageName == "Standard" &&
			reminder.DaysRemaining == 4 &&
			reminder.EndDate.Equal(endDate)
	})).Return(nil)

	svc.RunOnce(context.Background())

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestRunOnceSkipsNonAdvocates(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)

	sub := &models.UserSubscription{
		UserUID:               "client-1",
		SubscriptionPackageID: "pkg-1",
		EndDate:               testNow().Add(24 * time.Hour),
	}
	repo.On("FindSubscriptionsExpiringWithin", mock.Anything, testNow(), 7).
		Return([]*models.UserSubscription{sub}, nil)
	repo.On("GetUser", mock.Anything, "client-1").Return(&models.User{
		UID:  "client-1",
		Role: models.RoleClient,
	}, nil)

	svc.RunOnce(context.Background())

	repo.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRunOnceContinuesAfterPublishError(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)

	makeSub := func(uid string) *models.UserSubscription {
		return &models.UserSubscription{
			UserUID:               uid,
			SubscriptionPackageID: "pkg-1",
			EndDate:               testNow().Add(48 * time.Hour),
		}
	}
	repo.On("FindSubscriptionsExpiringWithin", mock.Anything, testNow(), 7).
		Return([]*models.UserSubscription{makeSub("adv-1"), makeSub("adv-2")}, nil)
	for _, uid := range []string{"adv-1", "adv-2"} {
		repo.On("GetUser", mock.Anything, uid).Return(&models.User{
			UID:   uid,
			Email: uid + "@example.com",
			Role:  models.RoleAdvocate,
		}, nil)
	}
	repo.On("GetPackage", mock.Anything, "pkg-1").Return(&models.SubscriptionPackage{
		ID:   "pkg-1",
		Name: "Basic",
	}, nil)
	pub.On("Publish", "renewal", mock.Anything).Return(errors.New("broker down")).Once()
	pub.On("Publish", "renewal", mock.Anything).Return(nil).Once()

	svc.RunOnce(context.Background())

	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestRunOnceRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	svc := newTestService(repo, pub)

	repo.On("FindSubscriptionsExpiringWithin", mock.Anything, testNow(), 7).
		Return(nil, errors.New("db down"))

	require.NotPanics(t, func() {
		svc.RunOnce(context.Background())
	})
	assert.True(t, pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything))
}
