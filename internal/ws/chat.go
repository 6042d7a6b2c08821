package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Dionlucil/health-assistant/internal/api/middleware"
	"github.com/Dionlucil/health-assistant/internal/classifier"
	"github.com/Dionlucil/health-assistant/internal/db"
	"github.com/Dionlucil/health-assistant/internal/doctor"
	"github.com/Dionlucil/health-assistant/internal/memory"
	"github.com/Dionlucil/health-assistant/internal/payment"
	"github.com/Dionlucil/health-assistant/internal/privacy"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// ChatHandler handles WebSocket consultation sessions.
type ChatHandler struct {
	doctor    *doctor.Doctor
	memory    *memory.Manager
	payments  *payment.Manager
	db        *db.DB
	jwtSecret string
}

// NewChatHandler creates a new WebSocket chat handler
func NewChatHandler(
	doc *doctor.Doctor,
	mem *memory.Manager,
	payments *payment.Manager,
	database *db.DB,
	jwtSecret string,
) *ChatHandler {
	return &ChatHandler{
		doctor:    doc,
		memory:    mem,
		payments:  payments,
		db:        database,
		jwtSecret: jwtSecret,
	}
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Content string `json:"content"`
}

// OutgoingMessage represents a message to the client
type OutgoingMessage struct {
	Type      string      `json:"type"` // "session", "response", "error", "done"
	SessionID string      `json:"session_id,omitempty"`
	Content   string      `json:"content,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// HandleChat authenticates, upgrades, and runs one consultation session.
// The token arrives as a query parameter because browsers cannot set headers
// on WebSocket requests.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	userID := claims.UserID

	sessionID := c.Query("session_id")
	resumed := sessionID != ""
	if resumed {
		if _, err := h.db.GetChatSession(c.Request.Context(), sessionID, userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
	} else {
		sessionID = uuid.NewString()
		if _, err := h.db.CreateChatSession(c.Request.Context(), sessionID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket connected: user=%s session=%s", userID, sessionID)

	if resumed {
		h.seedMemory(c.Request.Context(), sessionID)
	}

	if err := conn.WriteJSON(OutgoingMessage{Type: "session", SessionID: sessionID}); err != nil {
		return
	}

	limiter := middleware.NewWebSocketLimiter(30)

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if !limiter.Allow() {
			h.sendError(conn, "Too many messages. Please slow down.")
			continue
		}

		if err := h.processMessage(c.Request.Context(), conn, userID, sessionID, msg.Content); err != nil {
			log.Printf("Error processing message: %v", err)
			h.sendError(conn, "Failed to process message")
		}
	}
}

// processMessage runs one turn of the consultation.
func (h *ChatHandler) processMessage(ctx context.Context, conn *websocket.Conn, userID, sessionID, content string) error {
	history := h.memory.History(sessionID)

	response := h.doctor.Respond(ctx, content, history)
	log.Printf("Message %q: intent=%s urgency=%s", privacy.SanitizeForLogging(content), response.Intent, response.Urgency)

	if consumesCredit(response.Intent) {
		if err := h.payments.ConsumeCredit(ctx, userID); err != nil {
			if errors.Is(err, payment.ErrPaymentRequired) {
				return conn.WriteJSON(OutgoingMessage{
					Type:    "error",
					Content: "Your free consultation has been used. Please purchase a plan to continue.",
				})
			}
			return err
		}
	}

	h.memory.AddTurn(sessionID, doctor.Turn{Role: "user", Text: content})
	h.memory.AddTurn(sessionID, doctor.Turn{Role: "assistant", Text: response.Narrative})

	// Identifiers are stripped before the message is persisted; the reply
	// above was computed from the raw text.
	if _, err := h.db.SaveChatMessage(ctx, sessionID, "user", privacy.SanitizeForStorage(content)); err != nil {
		log.Printf("Failed to save user message: %v", err)
	}
	if _, err := h.db.SaveChatMessage(ctx, sessionID, "assistant", response.Narrative); err != nil {
		log.Printf("Failed to save assistant message: %v", err)
	}

	if err := conn.WriteJSON(OutgoingMessage{Type: "response", Data: response}); err != nil {
		return err
	}
	return h.sendDone(conn)
}

// seedMemory loads a resumed session's transcript into the in-memory buffer.
func (h *ChatHandler) seedMemory(ctx context.Context, sessionID string) {
	messages, err := h.db.GetSessionMessages(ctx, sessionID, 20)
	if err != nil {
		log.Printf("Failed to seed session %s: %v", sessionID, err)
		return
	}
	for _, m := range messages {
		h.memory.AddTurn(sessionID, doctor.Turn{Role: m.Role, Text: m.Content})
	}
}

// consumesCredit reports whether a reply with this intent counts as a
// consultation.
func consumesCredit(intent classifier.Intent) bool {
	return intent == classifier.IntentSymptom || intent == classifier.IntentPrescription
}

// sendError sends an error message to the client
func (h *ChatHandler) sendError(conn *websocket.Conn, message string) error {
	return conn.WriteJSON(OutgoingMessage{
		Type:    "error",
		Content: message,
	})
}

// sendDone signals that the response is complete
func (h *ChatHandler) sendDone(conn *websocket.Conn) error {
	return conn.WriteJSON(OutgoingMessage{
		Type: "done",
	})
}
