package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const userColumns = `id, email, password_hash, first_name, last_name, age, gender,
	free_consultations_used, subscription_status, subscription_expires, created_at, last_login`

// CreateUser creates a new user. Returns ErrAlreadyExists when the email is
// taken.
func (db *DB) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, age, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, free_consultations_used, subscription_status, created_at
	`

	err := db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Age, user.Gender,
	).Scan(&user.ID, &user.FreeConsultationsUsed, &user.SubscriptionStatus, &user.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (db *DB) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Age, &user.Gender, &user.FreeConsultationsUsed, &user.SubscriptionStatus,
		&user.SubscriptionExpires, &user.CreatedAt, &user.LastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return db.scanUser(db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves a user by ID
func (db *DB) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return db.scanUser(db.QueryRowContext(ctx, query, id))
}

// UpdateUserProfile updates the editable profile fields.
func (db *DB) UpdateUserProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, age = $4, gender = $5
		WHERE id = $1
	`
	result, err := db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Age, user.Gender,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login
func (db *DB) TouchLastLogin(ctx context.Context, userID string) error {
	query := `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`
	if _, err := db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ConsumeFreeConsultation marks the free consultation credit as used. The
// conditional update is the concurrency guard: when two requests race for
// the last credit only one row update succeeds, and the loser gets
// ErrNotFound.
func (db *DB) ConsumeFreeConsultation(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET free_consultations_used = free_consultations_used + 1
		WHERE id = $1 AND free_consultations_used < 1
	`
	result, err := db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to consume free consultation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
