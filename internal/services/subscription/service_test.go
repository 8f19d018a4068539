package subscription

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPackage), args.Error(1)
}

func (m *MockRepository) GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPackage), args.Error(1)
}

func (m *MockRepository) UpdatePackage(ctx context.Context, id string, pkg models.SubscriptionPackage) (int, error) {
	args := m.Called(ctx, id, pkg)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateUserSubscription(ctx context.Context, sub models.UserSubscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetUserSubscription(ctx context.Context, id string) (*models.UserSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}

func (m *MockRepository) ListUserSubscriptions(ctx context.Context, userUID string) ([]*models.UserSubscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSubscription), args.Error(1)
}

func (m *MockRepository) GetLatestUserSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error) {
	args := m.Called(ctx, userUID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}

func (m *MockRepository) GetSelectedGateway(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) UpdateSelectedGateway(ctx context.Context, gateway string) error {
	args := m.Called(ctx, gateway)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_ListPackagesCacheMiss(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	packages := []*models.SubscriptionPackage{
		{ID: "pkg-1", Name: "Free Trial", DurationMonth: 1, IsTrial: true},
		{ID: "pkg-2", Name: "Basic", DurationMonth: 3, PackagePrice: 300},
	}
	cache.On("Get", mock.Anything, packagesCacheKey, mock.Anything).Return(false, nil).Once()
	repo.On("ListPackages", mock.Anything).Return(packages, nil).Once()
	cache.On("Set", mock.Anything, packagesCacheKey, packages, time.Hour).Return(nil).Once()

	svc := NewService(repo, cache, newNoopLogger())
	got, err := svc.ListPackages(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_UpdatePackage(t *testing.T) {
	t.Run("trial package is immutable", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		repo.On("GetPackage", mock.Anything, "pkg-1").
			Return(&models.SubscriptionPackage{ID: "pkg-1", IsTrial: true}, nil).Once()

		svc := NewService(repo, cache, newNoopLogger())
		err := svc.UpdatePackage(context.Background(), "pkg-1", models.SubscriptionPackage{PackagePrice: 100})
		assert.ErrorIs(t, err, ErrTrialImmutable)
		repo.AssertExpectations(t)
	})

	t.Run("paid package updates and invalidates cache", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		pkg := models.SubscriptionPackage{Name: "Basic", PackagePrice: 350, IsActive: true}
		repo.On("GetPackage", mock.Anything, "pkg-2").
			Return(&models.SubscriptionPackage{ID: "pkg-2", IsTrial: false}, nil).Once()
		repo.On("UpdatePackage", mock.Anything, "pkg-2", pkg).Return(1, nil).Once()
		cache.On("Invalidate", mock.Anything, packagesCacheKey).Return(nil).Once()

		svc := NewService(repo, cache, newNoopLogger())
		require.NoError(t, svc.UpdatePackage(context.Background(), "pkg-2", pkg))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}

func TestService_UserStatus(t *testing.T) {
	now := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		role       string
		sub        *models.UserSubscription
		subErr     error
		wantActive bool
		wantDays   int
		wantFuture bool
		wantCanBuy bool
	}{
		{
			name:       "advocate without subscription",
			role:       models.RoleAdvocate,
			subErr:     repository.ErrNotFound,
			wantActive: false,
			wantCanBuy: true,
		},
		{
			name: "advocate with month remaining",
			role: models.RoleAdvocate,
			sub: &models.UserSubscription{
				StartDate: now.AddDate(0, -2, 0),
				EndDate:   now.Add(30 * 24 * time.Hour),
			},
			wantActive: true,
			wantDays:   30,
		},
		{
			name: "advocate inside renewal window",
			role: models.RoleAdvocate,
			sub: &models.UserSubscription{
				StartDate: now.AddDate(0, -1, 0),
				EndDate:   now.Add(5 * 24 * time.Hour),
			},
			wantActive: true,
			wantDays:   5,
			wantCanBuy: true,
		},
		{
			name: "advocate with upcoming plan cannot buy again",
			role: models.RoleAdvocate,
			sub: &models.UserSubscription{
				StartDate: now.AddDate(0, 0, 3),
				EndDate:   now.AddDate(0, 3, 3),
			},
			wantActive: true,
			wantDays:   95,
			wantFuture: true,
			wantCanBuy: false,
		},
		{
			name:       "client is always active",
			role:       models.RoleClient,
			subErr:     repository.ErrNotFound,
			wantActive: true,
			wantCanBuy: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.subErr != nil {
				repo.On("GetLatestUserSubscription", mock.Anything, "uid-1", mock.Anything).
					Return(nil, tt.subErr).Once()
			} else {
				repo.On("GetLatestUserSubscription", mock.Anything, "uid-1", mock.Anything).
					Return(tt.sub, nil).Once()
			}

			svc := NewService(repo, new(MockCache), newNoopLogger())
			svc.now = func() time.Time { return now }

			status, err := svc.UserStatus(context.Background(), "uid-1", tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, status.IsActive)
			assert.Equal(t, tt.wantDays, status.DaysRemaining)
			assert.Equal(t, tt.wantFuture, status.HasFuturePlan)
			assert.Equal(t, tt.wantCanBuy, status.CanPurchaseNew)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_UpdateGateway(t *testing.T) {
	repo := new(MockRepository)
	repo.On("UpdateSelectedGateway", mock.Anything, models.GatewayPhonePe).Return(nil).Once()

	svc := NewService(repo, new(MockCache), newNoopLogger())
	require.NoError(t, svc.UpdateGateway(context.Background(), models.GatewayPhonePe))
	assert.ErrorIs(t, svc.UpdateGateway(context.Background(), "Stripe"), ErrUnknownGateway)
	repo.AssertExpectations(t)
}
