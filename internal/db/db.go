package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewFromURL creates a database connection from a connection URL
func NewFromURL(databaseURL string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{sqlDB}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// User represents a registered patient account
type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Age                   int        `json:"age"`
	Gender                string     `json:"gender"`
	FreeConsultationsUsed int        `json:"free_consultations_used"`
	SubscriptionStatus    string     `json:"subscription_status"` // "free" or "premium"
	SubscriptionExpires   *time.Time `json:"subscription_expires,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	LastLogin             *time.Time `json:"last_login,omitempty"`
}

// CanUseFreeConsultation reports whether the free credit is still available.
func (u *User) CanUseFreeConsultation() bool {
	return u.FreeConsultationsUsed < 1
}

// HasActiveSubscription reports whether a premium subscription is in force.
func (u *User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == "premium" &&
		u.SubscriptionExpires != nil &&
		u.SubscriptionExpires.After(time.Now())
}

// Consultation is one stored symptom analysis. Symptoms and Analysis hold
// JSON-encoded payloads; the engine output is opaque to the storage layer.
type Consultation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Symptoms       string    `json:"symptoms"`
	Severity       string    `json:"severity,omitempty"`
	Duration       string    `json:"duration,omitempty"`
	Age            int       `json:"age,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	Analysis       string    `json:"analysis"`
	Urgency        string    `json:"urgency"`
	CreatedAt      time.Time `json:"created_at"`
}

// Payment is one payment record
type Payment struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	PaymentType   string     `json:"payment_type"` // "consultation" or "subscription"
	PlanID        string     `json:"plan_id"`
	Status        string     `json:"status"` // "pending", "completed", "failed"
	TransactionID string     `json:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ChatSession groups the messages of one chat conversation
type ChatSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
}

// ChatMessage is one stored chat turn
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
