package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/caseconnect/casetracker/internal/models"
)

// CreateClient создаёт учётную запись пользователя и профиль клиента
// в одной транзакции: обе записи используют общий UID.
func (s *Storage) CreateClient(ctx context.Context, user models.User, advocateUID string) (string, error) {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO users (first_name, last_name, email, username, password_hash, role, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := tx.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.Username,
		user.PasswordHash, models.RoleClient, user.IsActive).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO clients (user_uid, advocate_uid) VALUES ($1, $2)`,
		newUID, advocateUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetClient возвращает клиента вместе с его учётной записью.
func (s *Storage) GetClient(ctx context.Context, clientUID string) (*models.Client, error) {
	const op = "storage.GetClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.user_uid, c.advocate_uid,
			      u.uid, u.first_name, u.last_name, u.email, u.username,
			      u.password_hash, u.role, u.is_active, u.created_at, u.modified_at
			  FROM clients c
			  JOIN users u ON u.uid = c.user_uid
			  WHERE c.user_uid = $1`
	var cl models.Client
	var u models.User
	var modifiedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, clientUID).Scan(
		&cl.UserUID, &cl.AdvocateUID,
		&u.UID, &u.FirstName, &u.LastName, &u.Email, &u.Username,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if modifiedAt.Valid {
		u.ModifiedAt = &modifiedAt.Time
	}
	cl.User = &u
	return &cl, nil
}

// ListClients возвращает всех клиентов адвоката.
func (s *Storage) ListClients(ctx context.Context, advocateUID string) ([]*models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.user_uid, c.advocate_uid,
			      u.uid, u.first_name, u.last_name, u.email, u.username,
			      u.password_hash, u.role, u.is_active, u.created_at, u.modified_at
			  FROM clients c
			  JOIN users u ON u.uid = c.user_uid
			  WHERE c.advocate_uid = $1
			  ORDER BY u.created_at`
	rows, err := s.DB.QueryContext(ctx, query, advocateUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Client
	for rows.Next() {
		var cl models.Client
		var u models.User
		var modifiedAt sql.NullTime
		if err := rows.Scan(&cl.UserUID, &cl.AdvocateUID,
			&u.UID, &u.FirstName, &u.LastName, &u.Email, &u.Username,
			&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &modifiedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if modifiedAt.Valid {
			u.ModifiedAt = &modifiedAt.Time
		}
		cl.User = &u
		result = append(result, &cl)
	}
	return result, rows.Err()
}

// UpdateClientUser обновляет учётные данные клиента.
func (s *Storage) UpdateClientUser(ctx context.Context, clientUID string, user models.User) (int, error) {
	const op = "storage.UpdateClientUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_name = $2, last_name = $3, email = $4, is_active = $5,
			      modified_at = NOW()
			  WHERE uid = $1 AND role = $6`
	res, err := s.DB.ExecContext(ctx, query,
		clientUID, user.FirstName, user.LastName, user.Email, user.IsActive,
		models.RoleClient)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// DeleteClient удаляет клиента и его учётную запись одной транзакцией.
func (s *Storage) DeleteClient(ctx context.Context, clientUID string) (int, error) {
	const op = "storage.DeleteClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE user_uid = $1`, clientUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, clientUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}
