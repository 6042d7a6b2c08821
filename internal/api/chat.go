package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dionlucil/health-assistant/internal/api/middleware"
	"github.com/Dionlucil/health-assistant/internal/classifier"
	"github.com/Dionlucil/health-assistant/internal/db"
	"github.com/Dionlucil/health-assistant/internal/doctor"
	"github.com/Dionlucil/health-assistant/internal/payment"
	"github.com/Dionlucil/health-assistant/internal/privacy"
)

// historyLimit caps how many stored messages feed back into a reply.
const historyLimit = 20

// ChatHandler handles the conversational consultation endpoints.
type ChatHandler struct {
	db       *db.DB
	doctor   *doctor.Doctor
	payments *payment.Manager
}

// NewChatHandler creates a chat handler
func NewChatHandler(database *db.DB, doc *doctor.Doctor, payments *payment.Manager) *ChatHandler {
	return &ChatHandler{
		db:       database,
		doctor:   doc,
		payments: payments,
	}
}

// ChatRequest is a single chat message. SessionID is optional; when absent
// a new session is created and returned in the response.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse pairs the doctor's reply with its session.
type ChatResponse struct {
	SessionID string                      `json:"session_id"`
	Response  doctor.ConsultationResponse `json:"response"`
}

// Message accepts one user message and returns the doctor's reply. Replies
// that deliver a diagnosis or treatment plan consume a consultation credit;
// greetings, clarifications, and other small talk stay free.
func (h *ChatHandler) Message(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
		if _, err := h.db.CreateChatSession(ctx, sessionID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
	} else {
		if _, err := h.db.GetChatSession(ctx, sessionID, userID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
	}

	messages, err := h.db.GetSessionMessages(ctx, sessionID, historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	history := make([]doctor.Turn, 0, len(messages))
	for _, m := range messages {
		history = append(history, doctor.Turn{Role: m.Role, Text: m.Content})
	}

	response := h.doctor.Respond(ctx, req.Message, history)

	if consumesCredit(response.Intent) {
		if err := h.payments.ConsumeCredit(ctx, userID); err != nil {
			if errors.Is(err, payment.ErrPaymentRequired) {
				c.JSON(http.StatusPaymentRequired, gin.H{
					"error":   "consultation limit reached",
					"message": "Your free consultation has been used. Please purchase a plan to continue.",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check consultation credit"})
			return
		}
	}

	// Identifiers are stripped before the message is persisted; the reply
	// above was computed from the raw text.
	if _, err := h.db.SaveChatMessage(ctx, sessionID, "user", privacy.SanitizeForStorage(req.Message)); err != nil {
		log.Printf("Failed to save user message for session %s: %v", sessionID, err)
	}
	if _, err := h.db.SaveChatMessage(ctx, sessionID, "assistant", response.Narrative); err != nil {
		log.Printf("Failed to save assistant message for session %s: %v", sessionID, err)
	}

	c.JSON(http.StatusOK, ChatResponse{
		SessionID: sessionID,
		Response:  response,
	})
}

// Sessions lists the user's chat sessions, most recently active first.
func (h *ChatHandler) Sessions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	sessions, err := h.db.ListChatSessions(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Messages returns a session's transcript in chronological order.
func (h *ChatHandler) Messages(c *gin.Context) {
	h.transcript(c, c.Param("id"))
}

func (h *ChatHandler) transcript(c *gin.Context, sessionID string) {
	userID := middleware.GetUserID(c)

	if _, err := h.db.GetChatSession(c.Request.Context(), sessionID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	messages, err := h.db.GetSessionMessages(c.Request.Context(), sessionID, 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// History returns a session's transcript by query parameter, for clients
// that track the session ID themselves.
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	h.transcript(c, sessionID)
}

// consumesCredit reports whether a reply with this intent counts as a
// consultation.
func consumesCredit(intent classifier.Intent) bool {
	return intent == classifier.IntentSymptom || intent == classifier.IntentPrescription
}
