package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/caseconnect/casetracker/internal/models"
)

// CreatePayment сохраняет платёж в статусе INITIATED и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO payments (order_id, amount, status, subscription_package_id,
			      user_uid, payment_date, provider_transaction_id, payment_mode)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		p.OrderID, p.Amount, p.Status, p.SubscriptionPackageID,
		p.UserUID, p.PaymentDate, p.ProviderTransactionID, p.PaymentMode).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentByOrderID возвращает платёж по идентификатору заказа.
func (s *Storage) GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByOrderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, order_id, amount, status, subscription_package_id,
			      user_uid, payment_date, provider_transaction_id, payment_mode
			  FROM payments
			  WHERE order_id = $1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdatePaymentStatus обновляет статус платежа по идентификатору заказа
// и возвращает количество изменённых записей.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, orderID, status string, providerTxnID, paymentMode *string) (int, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $2,
			      provider_transaction_id = COALESCE($3, provider_transaction_id),
			      payment_mode = COALESCE($4, payment_mode)
			  WHERE order_id = $1`
	res, err := s.DB.ExecContext(ctx, query, orderID, status, providerTxnID, paymentMode)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// ListPayments возвращает платежи пользователя, начиная с новейших.
func (s *Storage) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, order_id, amount, status, subscription_package_id,
			      user_uid, payment_date, provider_transaction_id, payment_mode
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY payment_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetSelectedGateway возвращает выбранный платёжный шлюз.
// Если настройка отсутствует, действует шлюз по умолчанию Razorpay.
func (s *Storage) GetSelectedGateway(ctx context.Context) (string, error) {
	const op = "storage.GetSelectedGateway"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var gateway string
	query := `SELECT selected_gateway FROM payment_gateway_settings ORDER BY modified_at DESC LIMIT 1`
	err := s.DB.QueryRowContext(ctx, query).Scan(&gateway)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GatewayRazorpay, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return gateway, nil
}

// UpdateSelectedGateway сохраняет выбор платёжного шлюза.
func (s *Storage) UpdateSelectedGateway(ctx context.Context, gateway string) error {
	const op = "storage.UpdateSelectedGateway"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_gateway_settings (id, selected_gateway, modified_at)
			  VALUES (1, $1, NOW())
			  ON CONFLICT (id) DO UPDATE
			  SET selected_gateway = EXCLUDED.selected_gateway, modified_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, gateway); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	var providerTxnID, paymentMode sql.NullString
	if err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Status,
		&p.SubscriptionPackageID, &p.UserUID, &p.PaymentDate,
		&providerTxnID, &paymentMode); err != nil {
		return nil, err
	}
	if providerTxnID.Valid {
		p.ProviderTransactionID = &providerTxnID.String
	}
	if paymentMode.Valid {
		p.PaymentMode = &paymentMode.String
	}
	return &p, nil
}
