package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateChatSession opens a new session with the given ID.
func (db *DB) CreateChatSession(ctx context.Context, sessionID, userID string) (*ChatSession, error) {
	query := `
		INSERT INTO chat_sessions (id, user_id)
		VALUES ($1, $2)
		RETURNING id, user_id, created_at, last_activity, is_active
	`

	s := &ChatSession{}
	err := db.QueryRowContext(ctx, query, sessionID, userID).Scan(
		&s.ID, &s.UserID, &s.CreatedAt, &s.LastActivity, &s.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return s, nil
}

// GetChatSession retrieves a session owned by userID.
func (db *DB) GetChatSession(ctx context.Context, sessionID, userID string) (*ChatSession, error) {
	query := `
		SELECT id, user_id, created_at, last_activity, is_active
		FROM chat_sessions
		WHERE id = $1 AND user_id = $2
	`

	s := &ChatSession{}
	err := db.QueryRowContext(ctx, query, sessionID, userID).Scan(
		&s.ID, &s.UserID, &s.CreatedAt, &s.LastActivity, &s.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	return s, nil
}

// SaveChatMessage appends a message to a session and bumps its activity
// timestamp.
func (db *DB) SaveChatMessage(ctx context.Context, sessionID, role, content string) (*ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (session_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, role, content, created_at
	`

	msg := &ChatMessage{}
	err := db.QueryRowContext(ctx, query, sessionID, role, content).Scan(
		&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	touch := `UPDATE chat_sessions SET last_activity = CURRENT_TIMESTAMP WHERE id = $1`
	if _, err := db.ExecContext(ctx, touch, sessionID); err != nil {
		return nil, fmt.Errorf("failed to touch chat session: %w", err)
	}

	return msg, nil
}

// GetSessionMessages retrieves the session's most recent limit messages in
// chronological order. The inner query selects from the tail of the
// conversation so a long session never pins the history window to its oldest
// messages.
func (db *DB) GetSessionMessages(ctx context.Context, sessionID string, limit int) ([]ChatMessage, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM (
			SELECT id, session_id, role, content, created_at
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]ChatMessage, 0, limit)
	for rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListChatSessions retrieves the user's sessions, most recent activity
// first.
func (db *DB) ListChatSessions(ctx context.Context, userID string, limit int) ([]ChatSession, error) {
	query := `
		SELECT id, user_id, created_at, last_activity, is_active
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY last_activity DESC
		LIMIT $2
	`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]ChatSession, 0, limit)
	for rows.Next() {
		var s ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.LastActivity, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan chat session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
