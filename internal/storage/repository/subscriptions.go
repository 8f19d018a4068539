package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caseconnect/casetracker/internal/models"
)

// ListPackages возвращает все активные тарифные планы.
func (s *Storage) ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error) {
	const op = "storage.ListPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, package_price, duration_month, is_trial, is_active
			  FROM subscription_packages
			  WHERE is_active = TRUE
			  ORDER BY duration_month`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionPackage
	for rows.Next() {
		var p models.SubscriptionPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PackagePrice,
			&p.DurationMonth, &p.IsTrial, &p.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// GetPackage возвращает тарифный план по ID.
func (s *Storage) GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error) {
	const op = "storage.GetPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, package_price, duration_month, is_trial, is_active
			  FROM subscription_packages
			  WHERE id = $1`
	var p models.SubscriptionPackage
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.PackagePrice, &p.DurationMonth,
		&p.IsTrial, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// GetTrialPackage возвращает пробный тарифный план.
func (s *Storage) GetTrialPackage(ctx context.Context) (*models.SubscriptionPackage, error) {
	const op = "storage.GetTrialPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, package_price, duration_month, is_trial, is_active
			  FROM subscription_packages
			  WHERE is_trial = TRUE AND is_active = TRUE
			  LIMIT 1`
	var p models.SubscriptionPackage
	err := s.DB.QueryRowContext(ctx, query).Scan(
		&p.ID, &p.Name, &p.Description, &p.PackagePrice, &p.DurationMonth,
		&p.IsTrial, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// UpdatePackage обновляет цену и описание тарифного плана.
// Пробный план менять нельзя, такие записи запрос не затрагивает.
func (s *Storage) UpdatePackage(ctx context.Context, id string, pkg models.SubscriptionPackage) (int, error) {
	const op = "storage.UpdatePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscription_packages
			  SET name = $2, description = $3, package_price = $4, is_active = $5
			  WHERE id = $1 AND is_trial = FALSE`
	res, err := s.DB.ExecContext(ctx, query,
		id, pkg.Name, pkg.Description, pkg.PackagePrice, pkg.IsActive)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// CreateUserSubscription сохраняет подписку пользователя и возвращает её ID.
func (s *Storage) CreateUserSubscription(ctx context.Context, sub models.UserSubscription) (string, error) {
	const op = "storage.CreateUserSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO user_subscriptions (user_uid, subscription_package_id, payment_id,
			      start_date, end_date, is_active, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.SubscriptionPackageID, sub.PaymentID,
		sub.StartDate, sub.EndDate, sub.IsActive, sub.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserSubscription возвращает подписку по её идентификатору.
func (s *Storage) GetUserSubscription(ctx context.Context, id string) (*models.UserSubscription, error) {
	const op = "storage.GetUserSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, subscription_package_id, payment_id,
			      start_date, end_date, is_active, status, created_at
			  FROM user_subscriptions
			  WHERE id = $1`
	sub, err := scanUserSubscription(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListUserSubscriptions возвращает все подписки пользователя, начиная с новейших.
func (s *Storage) ListUserSubscriptions(ctx context.Context, userUID string) ([]*models.UserSubscription, error) {
	const op = "storage.ListUserSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, subscription_package_id, payment_id,
			      start_date, end_date, is_active, status, created_at
			  FROM user_subscriptions
			  WHERE user_uid = $1
			  ORDER BY start_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserSubscription
	for rows.Next() {
		sub, err := scanUserSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

// GetLatestUserSubscription возвращает действующую подписку пользователя.
// Запланированная подписка с датой начала в будущем имеет приоритет
// перед текущей активной: пользователь видит последний купленный план.
func (s *Storage) GetLatestUserSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error) {
	const op = "storage.GetLatestUserSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, subscription_package_id, payment_id,
			      start_date, end_date, is_active, status, created_at
			  FROM user_subscriptions
			  WHERE user_uid = $1 AND end_date > $2
			  ORDER BY (start_date > $2) DESC, start_date DESC
			  LIMIT 1`
	sub, err := scanUserSubscription(s.DB.QueryRowContext(ctx, query, userUID, now))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetActiveUserSubscription возвращает подписку, действующую в данный момент.
func (s *Storage) GetActiveUserSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error) {
	const op = "storage.GetActiveUserSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, subscription_package_id, payment_id,
			      start_date, end_date, is_active, status, created_at
			  FROM user_subscriptions
			  WHERE user_uid = $1 AND start_date <= $2 AND end_date > $2 AND is_active = TRUE
			  ORDER BY end_date DESC
			  LIMIT 1`
	sub, err := scanUserSubscription(s.DB.QueryRowContext(ctx, query, userUID, now))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// FindSubscriptionsExpiringWithin возвращает активные подписки, срок которых
// истекает в ближайшие days дней. Используется планировщиком напоминаний.
func (s *Storage) FindSubscriptionsExpiringWithin(ctx context.Context, now time.Time, days int) ([]*models.UserSubscription, error) {
	const op = "storage.FindSubscriptionsExpiringWithin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	deadline := now.Add(time.Duration(days) * 24 * time.Hour)
	query := `SELECT id, user_uid, subscription_package_id, payment_id,
			      start_date, end_date, is_active, status, created_at
			  FROM user_subscriptions
			  WHERE is_active = TRUE AND end_date > $1 AND end_date <= $2
			  ORDER BY end_date`
	rows, err := s.DB.QueryContext(ctx, query, now, deadline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserSubscription
	for rows.Next() {
		sub, err := scanUserSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

// MarkExpiredSubscriptions помечает истёкшие подписки и возвращает их количество.
func (s *Storage) MarkExpiredSubscriptions(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.MarkExpiredSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_subscriptions
			  SET is_active = FALSE, status = $2
			  WHERE is_active = TRUE AND end_date <= $1`
	res, err := s.DB.ExecContext(ctx, query, now, models.SubscriptionStatusExpired)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

func scanUserSubscription(row rowScanner) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	var paymentID sql.NullString
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.SubscriptionPackageID, &paymentID,
		&sub.StartDate, &sub.EndDate, &sub.IsActive, &sub.Status, &sub.CreatedAt); err != nil {
		return nil, err
	}
	if paymentID.Valid {
		sub.PaymentID = &paymentID.String
	}
	return &sub, nil
}
