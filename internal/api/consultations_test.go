package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/Dionlucil/health-assistant/internal/catalog"
	"github.com/Dionlucil/health-assistant/internal/db"
	"github.com/Dionlucil/health-assistant/internal/doctor"
	"github.com/Dionlucil/health-assistant/internal/payment"
	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

func newAnalyzeRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	database := &db.DB{DB: sqlDB}

	lex := symptoms.NewLexicon()
	cat, err := catalog.New(lex)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	h := NewConsultationHandler(database, doctor.New(lex, cat), payment.NewManager(database))

	r := gin.New()
	r.POST("/api/consultations/analyze", func(c *gin.Context) {
		c.Set("user_id", "user-1")
	}, h.Analyze)
	return r, mock
}

func userRows(used int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "age", "gender",
		"free_consultations_used", "subscription_status", "subscription_expires", "created_at", "last_login",
	}).AddRow("user-1", "jo@example.com", "hash", "Jo", "Doe", 30, "female", used, "free", nil, time.Now(), nil)
}

func TestAnalyze_CreditExhausted(t *testing.T) {
	r, mock := newAnalyzeRouter(t)

	// The credit check fails before any analysis runs, so nothing is
	// persisted.
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs("user-1").
		WillReturnRows(userRows(1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/consultations/analyze",
		strings.NewReader(`{"symptoms":["fever"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAnalyze_LostCreditRace(t *testing.T) {
	r, mock := newAnalyzeRouter(t)

	// The read shows the credit as available, but a concurrent request spends
	// it before the conditional update runs.
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs("user-1").
		WillReturnRows(userRows(0))
	mock.ExpectExec(`UPDATE users`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/consultations/analyze",
		strings.NewReader(`{"symptoms":["fever"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
