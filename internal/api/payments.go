package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dionlucil/health-assistant/internal/api/middleware"
	"github.com/Dionlucil/health-assistant/internal/db"
	"github.com/Dionlucil/health-assistant/internal/payment"
)

// PaymentHandler handles plan listing and the simulated payment flow.
type PaymentHandler struct {
	payments *payment.Manager
}

// NewPaymentHandler creates a payment handler
func NewPaymentHandler(payments *payment.Manager) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePaymentRequest selects the plan to purchase.
type CreatePaymentRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// Plans returns the available plans in display order.
func (h *PaymentHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.payments.Plans()})
}

// Create opens a pending payment for the selected plan.
func (h *PaymentHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.payments.CreatePayment(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Complete settles a pending payment and activates the purchased plan.
func (h *PaymentHandler) Complete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	paymentID := c.Param("id")

	record, err := h.payments.CompletePayment(c.Request.Context(), paymentID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found or already settled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete payment"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// History returns the user's payments, newest first.
func (h *PaymentHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.payments.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": records})
}
