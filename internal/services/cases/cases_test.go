package cases

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
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateClient(ctx context.Context, user models.User, advocateUID string) (string, error) {
	args := m.Called(ctx, user, advocateUID)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetClient(ctx context.Context, clientUID string) (*models.Client, error) {
	args := m.Called(ctx, clientUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockRepository) ListClients(ctx context.Context, advocateUID string) ([]*models.Client, error) {
	args := m.Called(ctx, advocateUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockRepository) UpdateClientUser(ctx context.Context, clientUID string, user models.User) (int, error) {
	args := m.Called(ctx, clientUID, user)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) DeleteClient(ctx context.Context, clientUID string) (int, error) {
	args := m.Called(ctx, clientUID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateCase(ctx context.Context, c models.Case) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetCase(ctx context.Context, id string) (*models.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockRepository) ListCasesByAdvocate(ctx context.Context, advocateUID string) ([]*models.Case, error) {
	args := m.Called(ctx, advocateUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Case), args.Error(1)
}

func (m *MockRepository) ListCasesByClient(ctx context.Context, clientUID string) ([]*models.Case, error) {
	args := m.Called(ctx, clientUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Case), args.Error(1)
}

func (m *MockRepository) ListHearingsBetween(ctx context.Context, advocateUID string, from, to time.Time) ([]*models.Case, error) {
	args := m.Called(ctx, advocateUID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Case), args.Error(1)
}

func (m *MockRepository) UpdateCase(ctx context.Context, c models.Case, id string) (int, error) {
	args := m.Called(ctx, c, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) DeleteCase(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateCaseDocument(ctx context.Context, doc models.CaseDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_GetCaseAccess(t *testing.T) {
	stored := &models.Case{ID: "case-1", AdvocateUID: "adv-1", ClientUID: "cl-1"}

	tests := []struct {
		name    string
		userUID string
		role    string
		wantErr error
	}{
		{"own advocate", "adv-1", models.RoleAdvocate, nil},
		{"foreign advocate", "adv-2", models.RoleAdvocate, ErrForbidden},
		{"own client", "cl-1", models.RoleClient, nil},
		{"foreign client", "cl-2", models.RoleClient, ErrForbidden},
		{"superadmin", "admin-1", models.RoleSuperAdmin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetCase", mock.Anything, "case-1").Return(stored, nil).Once()
			svc := NewService(repo, newNoopLogger())

			got, err := svc.GetCase(context.Background(), tt.userUID, tt.role, "case-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "case-1", got.ID)
			}
		})
	}
}

func TestService_ListCasesByRole(t *testing.T) {
	t.Run("advocate sees own cases", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListCasesByAdvocate", mock.Anything, "adv-1").
			Return([]*models.Case{{ID: "case-1"}}, nil).Once()
		svc := NewService(repo, newNoopLogger())

		got, err := svc.ListCases(context.Background(), "adv-1", models.RoleAdvocate)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})

	t.Run("client sees only own cases", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListCasesByClient", mock.Anything, "cl-1").
			Return([]*models.Case{{ID: "case-2"}}, nil).Once()
		svc := NewService(repo, newNoopLogger())

		got, err := svc.ListCases(context.Background(), "cl-1", models.RoleClient)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})
}

func TestService_AddCaseDefaults(t *testing.T) {
	now := time.Date(2025, 8, 28, 10, 0, 0, 0, time.UTC)
	repo := new(MockRepository)
	repo.On("CreateCase", mock.Anything, mock.MatchedBy(func(c models.Case) bool {
		return c.AdvocateUID == "adv-1" &&
			c.Status == models.CaseStatusOpen &&
			c.FilingDate.Equal(now)
	})).Return("case-1", nil).Once()

	svc := NewService(repo, newNoopLogger())
	svc.now = func() time.Time { return now }

	id, err := svc.AddCase(context.Background(), "adv-1", models.Case{Title: "Property dispute"})
	require.NoError(t, err)
	assert.Equal(t, "case-1", id)
	repo.AssertExpectations(t)
}

func TestService_HearingsTodayBounds(t *testing.T) {
	now := time.Date(2025, 8, 28, 15, 30, 0, 0, time.UTC)
	dayStart := time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)

	repo := new(MockRepository)
	repo.On("ListHearingsBetween", mock.Anything, "adv-1", dayStart, dayStart.AddDate(0, 0, 1)).
		Return([]*models.Case{{ID: "case-1"}}, nil).Once()

	svc := NewService(repo, newNoopLogger())
	svc.now = func() time.Time { return now }

	got, err := svc.HearingsToday(context.Background(), "adv-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestService_AttachDocumentChecksOwnership(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetCase", mock.Anything, "case-1").
		Return(&models.Case{ID: "case-1", AdvocateUID: "adv-2"}, nil).Once()

	svc := NewService(repo, newNoopLogger())
	_, err := svc.AttachDocument(context.Background(), "adv-1", models.CaseDocument{CaseID: "case-1"})
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertExpectations(t)
}
