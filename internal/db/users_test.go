package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return &DB{sqlDB}, mock
}

func TestGetUserByEmail(t *testing.T) {
	store, mock := newMockDB(t)

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "age", "gender",
		"free_consultations_used", "subscription_status", "subscription_expires", "created_at", "last_login",
	}).AddRow("user-1", "jo@example.com", "hash", "Jo", "Doe", 30, "female", 0, "free", nil, created, nil)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("jo@example.com").
		WillReturnRows(rows)

	user, err := store.GetUserByEmail(context.Background(), "jo@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail error = %v", err)
	}
	if user.ID != "user-1" || user.FirstName != "Jo" {
		t.Errorf("unexpected user: %+v", user)
	}
	if !user.CanUseFreeConsultation() {
		t.Error("fresh user should have a free consultation")
	}
	if user.HasActiveSubscription() {
		t.Error("free user should not have an active subscription")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUser_HasActiveSubscription(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"premium with future expiry", User{SubscriptionStatus: "premium", SubscriptionExpires: &future}, true},
		{"premium expired", User{SubscriptionStatus: "premium", SubscriptionExpires: &past}, false},
		{"premium no expiry", User{SubscriptionStatus: "premium"}, false},
		{"free", User{SubscriptionStatus: "free", SubscriptionExpires: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasActiveSubscription(); got != tt.want {
				t.Errorf("HasActiveSubscription() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConsumeFreeConsultation(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.ConsumeFreeConsultation(context.Background(), "user-1"); err != nil {
		t.Fatalf("ConsumeFreeConsultation error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsumeFreeConsultation_AlreadySpent(t *testing.T) {
	store, mock := newMockDB(t)

	// The conditional update matches no row once the credit is gone.
	mock.ExpectExec(`UPDATE users`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.ConsumeFreeConsultation(context.Background(), "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
