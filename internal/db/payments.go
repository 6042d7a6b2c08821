package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreatePayment records a pending payment
func (db *DB) CreatePayment(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (user_id, amount, currency, payment_type, plan_id, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := db.QueryRowContext(ctx, query,
		p.UserID, p.Amount, p.Currency, p.PaymentType, p.PlanID, p.Status, p.TransactionID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment owned by userID.
func (db *DB) GetPayment(ctx context.Context, id, userID string) (*Payment, error) {
	query := `
		SELECT id, user_id, amount, currency, payment_type, plan_id, status, transaction_id, created_at, completed_at
		FROM payments
		WHERE id = $1 AND user_id = $2
	`

	p := &Payment{}
	err := db.QueryRowContext(ctx, query, id, userID).Scan(
		&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.PaymentType,
		&p.PlanID, &p.Status, &p.TransactionID, &p.CreatedAt, &p.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// SettlePayment completes a pending payment and activates the purchased
// subscription window in one transaction; a completed payment can never be
// left without its subscription. Settling an already-settled or unknown
// payment returns ErrNotFound.
func (db *DB) SettlePayment(ctx context.Context, id, userID string, expires time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	settle := `
		UPDATE payments
		SET status = 'completed', completed_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2 AND status = 'pending'
	`
	result, err := tx.ExecContext(ctx, settle, id, userID)
	if err != nil {
		return fmt.Errorf("failed to complete payment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	activate := `
		UPDATE users
		SET subscription_status = 'premium', subscription_expires = $2
		WHERE id = $1
	`
	result, err = tx.ExecContext(ctx, activate, userID, expires)
	if err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

// ListPayments retrieves the user's payments, newest first.
func (db *DB) ListPayments(ctx context.Context, userID string, limit int) ([]Payment, error) {
	query := `
		SELECT id, user_id, amount, currency, payment_type, plan_id, status, transaction_id, created_at, completed_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]Payment, 0, limit)
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.PaymentType,
			&p.PlanID, &p.Status, &p.TransactionID, &p.CreatedAt, &p.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
