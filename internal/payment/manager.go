package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Dionlucil/health-assistant/internal/db"
)

// ErrPaymentRequired signals that the user has no remaining consultation
// credit and no active subscription.
var ErrPaymentRequired = errors.New("payment required")

// ErrUnknownPlan signals a plan ID outside the fixed offering.
var ErrUnknownPlan = errors.New("unknown plan")

// Plan is a purchasable consultation package
type Plan struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Consultations int     `json:"consultations_limit"`
	DurationDays  int     `json:"duration_days"`
}

// plans is the fixed offering; order is the display order.
var plans = []Plan{
	{ID: "single_consultation", Name: "Single Consultation", Price: 9.99, Currency: "USD", Consultations: 1, DurationDays: 1},
	{ID: "monthly_premium", Name: "Monthly Premium", Price: 29.99, Currency: "USD", Consultations: 10, DurationDays: 30},
	{ID: "yearly_premium", Name: "Yearly Premium", Price: 299.99, Currency: "USD", Consultations: 120, DurationDays: 365},
}

// Store is the persistence dependency of the manager.
type Store interface {
	GetUserByID(ctx context.Context, id string) (*db.User, error)
	ConsumeFreeConsultation(ctx context.Context, userID string) error
	CreatePayment(ctx context.Context, p *db.Payment) error
	GetPayment(ctx context.Context, id, userID string) (*db.Payment, error)
	SettlePayment(ctx context.Context, id, userID string, expires time.Time) error
	ListPayments(ctx context.Context, userID string, limit int) ([]db.Payment, error)
}

// Manager implements the consultation billing rules: one free consultation
// per account, then a paid plan.
type Manager struct {
	store Store
}

// NewManager creates a payment manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Plans returns the purchasable plans in display order.
func (m *Manager) Plans() []Plan {
	return plans
}

// PlanByID looks up a plan.
func (m *Manager) PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// CanConsult reports whether the user may run a consultation right now.
func (m *Manager) CanConsult(ctx context.Context, userID string) (bool, error) {
	user, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	return user.CanUseFreeConsultation() || user.HasActiveSubscription(), nil
}

// ConsumeCredit spends the user's consultation allowance for one analysis.
// Subscribed users consult within their subscription window; free users
// burn their single free credit. Returns ErrPaymentRequired when neither is
// available.
func (m *Manager) ConsumeCredit(ctx context.Context, userID string) error {
	user, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if user.HasActiveSubscription() {
		return nil
	}
	if user.CanUseFreeConsultation() {
		err := m.store.ConsumeFreeConsultation(ctx, userID)
		if errors.Is(err, db.ErrNotFound) {
			// A concurrent request won the race for the last credit.
			return ErrPaymentRequired
		}
		return err
	}
	return ErrPaymentRequired
}

// CreatePayment opens a pending payment for the given plan.
func (m *Manager) CreatePayment(ctx context.Context, userID, planID string) (*db.Payment, error) {
	plan, ok := m.PlanByID(planID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, planID)
	}

	p := &db.Payment{
		UserID:        userID,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		PaymentType:   "subscription",
		PlanID:        plan.ID,
		Status:        "pending",
		TransactionID: uuid.NewString(),
	}
	if plan.ID == "single_consultation" {
		p.PaymentType = "consultation"
	}

	if err := m.store.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CompletePayment settles a pending payment and activates the purchased
// subscription window.
func (m *Manager) CompletePayment(ctx context.Context, paymentID, userID string) (*db.Payment, error) {
	p, err := m.store.GetPayment(ctx, paymentID, userID)
	if err != nil {
		return nil, err
	}
	if p.Status != "pending" {
		return nil, fmt.Errorf("payment %s is %s, not pending", paymentID, p.Status)
	}

	plan, ok := m.PlanByID(p.PlanID)
	if !ok {
		return nil, fmt.Errorf("payment %s references unknown plan %q", paymentID, p.PlanID)
	}

	expires := time.Now().Add(time.Duration(plan.DurationDays) * 24 * time.Hour)
	if err := m.store.SettlePayment(ctx, paymentID, userID, expires); err != nil {
		return nil, err
	}

	p.Status = "completed"
	now := time.Now()
	p.CompletedAt = &now
	return p, nil
}

// History returns the user's payment records, newest first.
func (m *Manager) History(ctx context.Context, userID string, limit int) ([]db.Payment, error) {
	return m.store.ListPayments(ctx, userID, limit)
}
