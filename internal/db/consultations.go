package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateConsultation stores one analysis result
func (db *DB) CreateConsultation(ctx context.Context, c *Consultation) error {
	query := `
		INSERT INTO consultations (user_id, symptoms, severity, duration, age, gender, additional_info, analysis, urgency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := db.QueryRowContext(ctx, query,
		c.UserID, c.Symptoms, c.Severity, c.Duration, c.Age, c.Gender,
		c.AdditionalInfo, c.Analysis, c.Urgency,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

// GetConsultation retrieves a consultation owned by userID. Requests for
// another user's record come back as ErrNotFound, not a permission error.
func (db *DB) GetConsultation(ctx context.Context, id, userID string) (*Consultation, error) {
	query := `
		SELECT id, user_id, symptoms, severity, duration, age, gender, additional_info, analysis, urgency, created_at
		FROM consultations
		WHERE id = $1 AND user_id = $2
	`

	c := &Consultation{}
	err := db.QueryRowContext(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Symptoms, &c.Severity, &c.Duration, &c.Age,
		&c.Gender, &c.AdditionalInfo, &c.Analysis, &c.Urgency, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return c, nil
}

// ListConsultations retrieves the user's consultations, newest first.
func (db *DB) ListConsultations(ctx context.Context, userID string, limit int) ([]Consultation, error) {
	query := `
		SELECT id, user_id, symptoms, severity, duration, age, gender, additional_info, analysis, urgency, created_at
		FROM consultations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	defer rows.Close()

	consultations := make([]Consultation, 0, limit)
	for rows.Next() {
		var c Consultation
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Symptoms, &c.Severity, &c.Duration, &c.Age,
			&c.Gender, &c.AdditionalInfo, &c.Analysis, &c.Urgency, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan consultation: %w", err)
		}
		consultations = append(consultations, c)
	}
	return consultations, rows.Err()
}
