package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dionlucil/health-assistant/internal/api/middleware"
	"github.com/Dionlucil/health-assistant/internal/db"
	"github.com/Dionlucil/health-assistant/internal/doctor"
	"github.com/Dionlucil/health-assistant/internal/payment"
	"github.com/Dionlucil/health-assistant/internal/report"
)

// ConsultationHandler handles the structured symptom-form endpoints.
type ConsultationHandler struct {
	db       *db.DB
	doctor   *doctor.Doctor
	payments *payment.Manager
	reports  *report.Writer
}

// NewConsultationHandler creates a consultation handler
func NewConsultationHandler(database *db.DB, doc *doctor.Doctor, payments *payment.Manager) *ConsultationHandler {
	return &ConsultationHandler{
		db:       database,
		doctor:   doc,
		payments: payments,
		reports:  report.NewWriter(),
	}
}

// AnalyzeRequest is the symptom-form submission.
type AnalyzeRequest struct {
	Symptoms       []string `json:"symptoms"`
	Text           string   `json:"text"`
	Severity       string   `json:"severity"`
	Duration       string   `json:"duration"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	AdditionalInfo string   `json:"additional_info"`
}

// AnalyzeResponse wraps the analysis with the stored consultation ID.
type AnalyzeResponse struct {
	ConsultationID string          `json:"consultation_id"`
	Analysis       doctor.Analysis `json:"analysis"`
}

// Analyze runs the symptom analysis and records the consultation. The
// credit is consumed up front; the gate middleware only pre-screens, so a
// concurrent request may have spent the last credit since it ran.
func (h *ConsultationHandler) Analyze(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Symptoms) == 0 && req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symptoms or text required"})
		return
	}

	if err := h.payments.ConsumeCredit(c.Request.Context(), userID); err != nil {
		if errors.Is(err, payment.ErrPaymentRequired) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":   "consultation limit reached",
				"message": "Your free consultation has been used. Please purchase a plan to continue.",
			})
			return
		}
		log.Printf("Failed to consume consultation credit for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify consultation credit"})
		return
	}

	analysis := h.doctor.Analyze(c.Request.Context(), doctor.AnalyzeInput{
		Symptoms: req.Symptoms,
		Text:     req.Text,
		Demographics: doctor.Demographics{
			Age:      req.Age,
			Gender:   req.Gender,
			Severity: req.Severity,
			Duration: req.Duration,
		},
	})

	symptomsJSON, err := json.Marshal(req.Symptoms)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode symptoms"})
		return
	}
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode analysis"})
		return
	}

	consultation := &db.Consultation{
		UserID:         userID,
		Symptoms:       string(symptomsJSON),
		Severity:       req.Severity,
		Duration:       req.Duration,
		Age:            req.Age,
		Gender:         req.Gender,
		AdditionalInfo: req.AdditionalInfo,
		Analysis:       string(analysisJSON),
		Urgency:        string(analysis.Urgency),
	}
	if err := h.db.CreateConsultation(c.Request.Context(), consultation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save consultation"})
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		ConsultationID: consultation.ID,
		Analysis:       analysis,
	})
}

// List returns the user's consultation history, newest first.
func (h *ConsultationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	consultations, err := h.db.ListConsultations(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load consultations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

// Get returns a single consultation owned by the user.
func (h *ConsultationHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	consultationID := c.Param("id")

	consultation, err := h.db.GetConsultation(c.Request.Context(), consultationID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load consultation"})
		return
	}

	c.JSON(http.StatusOK, consultation)
}

// Report renders a consultation as a downloadable PDF.
func (h *ConsultationHandler) Report(c *gin.Context) {
	userID := middleware.GetUserID(c)
	consultationID := c.Param("id")

	consultation, err := h.db.GetConsultation(c.Request.Context(), consultationID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load consultation"})
		return
	}

	user, err := h.db.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	pdfBytes, err := h.reports.Consultation(user, consultation)
	if err != nil {
		log.Printf("Failed to render report for consultation %s: %v", consultationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}

	filename := fmt.Sprintf("consultation-%s.pdf", consultation.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
