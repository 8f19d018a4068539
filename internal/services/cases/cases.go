// Package cases содержит бизнес-логику ведения клиентов, дел и документов.
package cases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/caseconnect/casetracker/internal/models"
)

// ErrForbidden возвращается при попытке доступа к чужому делу или клиенту.
var ErrForbidden = errors.New("access to another advocate's records is forbidden")

// Repository определяет методы хранилища для клиентов, дел и документов.
type Repository interface {
	CreateClient(ctx context.Context, user models.User, advocateUID string) (string, error)
	GetClient(ctx context.Context, clientUID string) (*models.Client, error)
	ListClients(ctx context.Context, advocateUID string) ([]*models.Client, error)
	UpdateClientUser(ctx context.Context, clientUID string, user models.User) (int, error)
	DeleteClient(ctx context.Context, clientUID string) (int, error)

	CreateCase(ctx context.Context, c models.Case) (string, error)
	GetCase(ctx context.Context, id string) (*models.Case, error)
	ListCasesByAdvocate(ctx context.Context, advocateUID string) ([]*models.Case, error)
	ListCasesByClient(ctx context.Context, clientUID string) ([]*models.Case, error)
	ListHearingsBetween(ctx context.Context, advocateUID string, from, to time.Time) ([]*models.Case, error)
	UpdateCase(ctx context.Context, c models.Case, id string) (int, error)
	DeleteCase(ctx context.Context, id string) (int, error)
	CreateCaseDocument(ctx context.Context, doc models.CaseDocument) (string, error)
}

// Service реализует операции адвоката над клиентами и делами.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// AddClient создаёт учётную запись и профиль клиента для адвоката.
func (s *Service) AddClient(ctx context.Context, advocateUID string, user models.User) (string, error) {
	user.IsActive = true
	return s.repo.CreateClient(ctx, user, advocateUID)
}

// GetClient возвращает клиента, проверяя принадлежность адвокату.
func (s *Service) GetClient(ctx context.Context, advocateUID, clientUID string) (*models.Client, error) {
	client, err := s.repo.GetClient(ctx, clientUID)
	if err != nil {
		return nil, err
	}
	if client.AdvocateUID != advocateUID {
		return nil, ErrForbidden
	}
	return client, nil
}

// ListClients возвращает клиентов адвоката.
func (s *Service) ListClients(ctx context.Context, advocateUID string) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, advocateUID)
}

// UpdateClient обновляет учётные данные клиента адвоката.
func (s *Service) UpdateClient(ctx context.Context, advocateUID, clientUID string, user models.User) (int, error) {
	if _, err := s.GetClient(ctx, advocateUID, clientUID); err != nil {
		return 0, err
	}
	return s.repo.UpdateClientUser(ctx, clientUID, user)
}

// RemoveClient удаляет клиента и его учётную запись.
func (s *Service) RemoveClient(ctx context.Context, advocateUID, clientUID string) (int, error) {
	if _, err := s.GetClient(ctx, advocateUID, clientUID); err != nil {
		return 0, err
	}
	return s.repo.DeleteClient(ctx, clientUID)
}

// AddCase создаёт новое дело адвоката.
func (s *Service) AddCase(ctx context.Context, advocateUID string, c models.Case) (string, error) {
	c.AdvocateUID = advocateUID
	if c.Status == "" {
		c.Status = models.CaseStatusOpen
	}
	if c.FilingDate.IsZero() {
		c.FilingDate = s.now()
	}
	return s.repo.CreateCase(ctx, c)
}

// GetCase возвращает дело. Адвокат видит свои дела, клиент — только свои.
func (s *Service) GetCase(ctx context.Context, userUID, role, caseID string) (*models.Case, error) {
	c, err := s.repo.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	switch role {
	case models.RoleAdvocate:
		if c.AdvocateUID != userUID {
			return nil, ErrForbidden
		}
	case models.RoleClient:
		if c.ClientUID != userUID {
			return nil, ErrForbidden
		}
	}
	return c, nil
}

// ListCases возвращает дела в зависимости от роли: адвокат — свои,
// клиент — относящиеся к нему.
func (s *Service) ListCases(ctx context.Context, userUID, role string) ([]*models.Case, error) {
	if role == models.RoleClient {
		return s.repo.ListCasesByClient(ctx, userUID)
	}
	return s.repo.ListCasesByAdvocate(ctx, userUID)
}

// UpdateCase обновляет дело адвоката, включая перенос даты заседания.
func (s *Service) UpdateCase(ctx context.Context, advocateUID, caseID string, c models.Case) (int, error) {
	if _, err := s.GetCase(ctx, advocateUID, models.RoleAdvocate, caseID); err != nil {
		return 0, err
	}
	return s.repo.UpdateCase(ctx, c, caseID)
}

// RemoveCase удаляет дело адвоката вместе с документами.
func (s *Service) RemoveCase(ctx context.Context, advocateUID, caseID string) (int, error) {
	if _, err := s.GetCase(ctx, advocateUID, models.RoleAdvocate, caseID); err != nil {
		return 0, err
	}
	return s.repo.DeleteCase(ctx, caseID)
}

// HearingsToday возвращает дела адвоката с заседанием сегодня.
func (s *Service) HearingsToday(ctx context.Context, advocateUID string) ([]*models.Case, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.ListHearingsBetween(ctx, advocateUID, dayStart, dayStart.AddDate(0, 0, 1))
}

// AttachDocument сохраняет запись о загруженном документе дела.
func (s *Service) AttachDocument(ctx context.Context, advocateUID string, doc models.CaseDocument) (string, error) {
	if _, err := s.GetCase(ctx, advocateUID, models.RoleAdvocate, doc.CaseID); err != nil {
		return "", err
	}
	return s.repo.CreateCaseDocument(ctx, doc)
}
