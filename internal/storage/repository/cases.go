package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caseconnect/casetracker/internal/models"
)

const caseColumns = `id, client_uid, advocate_uid, title, detail, number,
	hearing_date, court_location, parent_id, filing_date, status`

// CreateCase сохраняет новое дело и возвращает его ID.
func (s *Storage) CreateCase(ctx context.Context, c models.Case) (string, error) {
	const op = "storage.CreateCase"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO cases (client_uid, advocate_uid, title, detail, number,
			      hearing_date, court_location, parent_id, filing_date, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		c.ClientUID, c.AdvocateUID, c.Title, c.Detail, c.Number,
		c.HearingDate, c.CourtLocation, c.ParentID, c.FilingDate, c.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCase возвращает дело по ID вместе с прикреплёнными документами.
func (s *Storage) GetCase(ctx context.Context, id string) (*models.Case, error) {
	const op = "storage.GetCase"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	c, err := scanCase(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs, err := s.ListCaseDocuments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Documents = docs
	return c, nil
}

// ListCasesByAdvocate возвращает все дела адвоката.
func (s *Storage) ListCasesByAdvocate(ctx context.Context, advocateUID string) ([]*models.Case, error) {
	const op = "storage.ListCasesByAdvocate"
	return s.listCases(ctx, op, `SELECT `+caseColumns+` FROM cases WHERE advocate_uid = $1 ORDER BY hearing_date`, advocateUID)
}

// ListCasesByClient возвращает дела, относящиеся к клиенту.
func (s *Storage) ListCasesByClient(ctx context.Context, clientUID string) ([]*models.Case, error) {
	const op = "storage.ListCasesByClient"
	return s.listCases(ctx, op, `SELECT `+caseColumns+` FROM cases WHERE client_uid = $1 ORDER BY hearing_date`, clientUID)
}

// ListHearingsBetween возвращает дела с заседанием в заданном интервале.
// Используется для отчёта о заседаниях на день.
func (s *Storage) ListHearingsBetween(ctx context.Context, advocateUID string, from, to time.Time) ([]*models.Case, error) {
	const op = "storage.ListHearingsBetween"
	return s.listCases(ctx, op,
		`SELECT `+caseColumns+` FROM cases
		 WHERE advocate_uid = $1 AND hearing_date >= $2 AND hearing_date < $3
		 ORDER BY hearing_date`,
		advocateUID, from, to)
}

// UpdateCase обновляет данные дела и возвращает количество изменённых записей.
func (s *Storage) UpdateCase(ctx context.Context, c models.Case, id string) (int, error) {
	const op = "storage.UpdateCase"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cases
			  SET title = $2, detail = $3, number = $4, hearing_date = $5,
			      court_location = $6, status = $7, modified_at = NOW()
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query,
		id, c.Title, c.Detail, c.Number, c.HearingDate, c.CourtLocation, c.Status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// DeleteCase удаляет дело вместе с документами и возвращает количество удалённых дел.
func (s *Storage) DeleteCase(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteCase"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// CreateCaseDocument сохраняет запись о загруженном документе дела.
func (s *Storage) CreateCaseDocument(ctx context.Context, doc models.CaseDocument) (string, error) {
	const op = "storage.CreateCaseDocument"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO case_documents (case_id, url, file_name, doc_type)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		doc.CaseID, doc.URL, doc.FileName, doc.Type).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCaseDocuments возвращает документы, прикреплённые к делу.
func (s *Storage) ListCaseDocuments(ctx context.Context, caseID string) ([]*models.CaseDocument, error) {
	const op = "storage.ListCaseDocuments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, case_id, url, file_name, doc_type, created_at
			  FROM case_documents
			  WHERE case_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CaseDocument
	for rows.Next() {
		var d models.CaseDocument
		if err := rows.Scan(&d.ID, &d.CaseID, &d.URL, &d.FileName, &d.Type, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

func (s *Storage) listCases(ctx context.Context, op, query string, args ...any) ([]*models.Case, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*models.Case, error) {
	var c models.Case
	var parentID sql.NullString
	if err := row.Scan(&c.ID, &c.ClientUID, &c.AdvocateUID, &c.Title, &c.Detail,
		&c.Number, &c.HearingDate, &c.CourtLocation, &parentID, &c.FilingDate,
		&c.Status); err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return &c, nil
}
