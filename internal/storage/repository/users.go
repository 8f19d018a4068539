package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/caseconnect/casetracker/internal/models"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует в базе.
var ErrNotFound = errors.New("not found")

// CreateUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (first_name, last_name, email, username, password_hash, role, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.Username,
		user.PasswordHash, user.Role, user.IsActive).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, first_name, last_name, email, username, password_hash,
			      role, is_active, created_at, modified_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, first_name, last_name, email, username, password_hash,
			      role, is_active, created_at, modified_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UserExists проверяет, занят ли username или email.
func (s *Storage) UserExists(ctx context.Context, username, email string) (bool, error) {
	const op = "storage.UserExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	if err := s.DB.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListUsers возвращает список всех пользователей системы.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, first_name, last_name, email, username, password_hash,
			      role, is_active, created_at, modified_at
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var modifiedAt sql.NullTime
		if err := rows.Scan(&u.UID, &u.FirstName, &u.LastName, &u.Email, &u.Username,
			&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &modifiedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if modifiedAt.Valid {
			u.ModifiedAt = &modifiedAt.Time
		}
		result = append(result, &u)
	}
	return result, rows.Err()
}

// DeleteUser удаляет пользователя по UID и возвращает количество удалённых записей.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// CreateAdvocateProfile сохраняет профиль адвоката, связанный с пользователем.
func (s *Storage) CreateAdvocateProfile(ctx context.Context, adv models.Advocate) error {
	const op = "storage.CreateAdvocateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO advocates (user_uid, unique_number, enrollment_number, specialization)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query,
		adv.UserUID, adv.UniqueNumber, adv.EnrollmentNumber, adv.Specialization); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateAdvocate создаёт учётную запись пользователя и профиль адвоката
// в одной транзакции: обе записи используют общий UID.
func (s *Storage) CreateAdvocate(ctx context.Context, user models.User, adv models.Advocate) (string, error) {
	const op = "storage.CreateAdvocate"
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
		user.PasswordHash, models.RoleAdvocate, user.IsActive).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO advocates (user_uid, unique_number, enrollment_number, specialization)
		 VALUES ($1, $2, $3, $4)`,
		newUID, adv.UniqueNumber, adv.EnrollmentNumber, adv.Specialization); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetAdvocateProfile возвращает профиль адвоката вместе с его учётной записью.
func (s *Storage) GetAdvocateProfile(ctx context.Context, userUID string) (*models.Advocate, error) {
	const op = "storage.GetAdvocateProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.user_uid, a.unique_number, a.enrollment_number, a.specialization,
			      u.uid, u.first_name, u.last_name, u.email, u.username,
			      u.password_hash, u.role, u.is_active, u.created_at, u.modified_at
			  FROM advocates a
			  JOIN users u ON u.uid = a.user_uid
			  WHERE a.user_uid = $1`
	var adv models.Advocate
	var u models.User
	var modifiedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&adv.UserUID, &adv.UniqueNumber, &adv.EnrollmentNumber, &adv.Specialization,
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
	adv.User = &u
	return &adv, nil
}

// ListAdvocates возвращает всех адвокатов вместе с их учётными записями.
func (s *Storage) ListAdvocates(ctx context.Context) ([]*models.Advocate, error) {
	const op = "storage.ListAdvocates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.user_uid, a.unique_number, a.enrollment_number, a.specialization,
			      u.uid, u.first_name, u.last_name, u.email, u.username,
			      u.password_hash, u.role, u.is_active, u.created_at, u.modified_at
			  FROM advocates a
			  JOIN users u ON u.uid = a.user_uid
			  ORDER BY u.created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Advocate
	for rows.Next() {
		var adv models.Advocate
		var u models.User
		var modifiedAt sql.NullTime
		if err := rows.Scan(
			&adv.UserUID, &adv.UniqueNumber, &adv.EnrollmentNumber, &adv.Specialization,
			&u.UID, &u.FirstName, &u.LastName, &u.Email, &u.Username,
			&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &modifiedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if modifiedAt.Valid {
			u.ModifiedAt = &modifiedAt.Time
		}
		adv.User = &u
		result = append(result, &adv)
	}
	return result, rows.Err()
}

// UpdateAdvocate обновляет учётные данные адвоката и его профиль
// одной транзакцией.
func (s *Storage) UpdateAdvocate(ctx context.Context, userUID string, user models.User, adv models.Advocate) (int, error) {
	const op = "storage.UpdateAdvocate"
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

	userQuery := `UPDATE users
			  SET first_name = $2, last_name = $3, email = $4, is_active = $5,
			      modified_at = NOW()
			  WHERE uid = $1 AND role = $6`
	if _, err := tx.ExecContext(ctx, userQuery,
		userUID, user.FirstName, user.LastName, user.Email, user.IsActive,
		models.RoleAdvocate); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	advQuery := `UPDATE advocates
			  SET enrollment_number = $2, specialization = $3
			  WHERE user_uid = $1`
	res, err := tx.ExecContext(ctx, advQuery,
		userUID, adv.EnrollmentNumber, adv.Specialization)
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

// DeleteAdvocate удаляет адвоката вместе с учётной записью. Профиль
// в advocates удаляется каскадно.
func (s *Storage) DeleteAdvocate(ctx context.Context, userUID string) (int, error) {
	const op = "storage.DeleteAdvocate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM users WHERE uid = $1 AND role = $2`, userUID, models.RoleAdvocate)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var modifiedAt sql.NullTime
	err := row.Scan(&u.UID, &u.FirstName, &u.LastName, &u.Email, &u.Username,
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
	return u, nil
}
