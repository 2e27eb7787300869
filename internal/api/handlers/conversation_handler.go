package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fefe-learning/curriculum-ai/internal/router"
	"github.com/fefe-learning/curriculum-ai/internal/session"
)

// personalityTraits is advertised when a conversation starts so clients can
// surface the assistant's register.
var personalityTraits = fiber.Map{
	"friendly":       true,
	"encouraging":    true,
	"patient":        true,
	"expert":         true,
	"conversational": true,
}

type ConversationHandler struct {
	sessions *session.Store
	router   *router.Router
}

func NewConversationHandler(sessions *session.Store, r *router.Router) *ConversationHandler {
	return &ConversationHandler{
		sessions: sessions,
		router:   r,
	}
}

func (h *ConversationHandler) HandleStart(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	// The body is optional; an empty one starts an anonymous session.
	_ = c.BodyParser(&req)
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	sessionID := fmt.Sprintf("%s_%s", req.UserID, uuid.NewString())
	greeting := h.router.Greeting()

	h.sessions.Append(sessionID, "Session started", greeting)

	return c.JSON(fiber.Map{
		"session_id":  sessionID,
		"greeting":    greeting,
		"personality": personalityTraits,
		"status":      "conversation_started",
	})
}

func (h *ConversationHandler) HandleHistory(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	history := h.sessions.History(sessionID)
	if history == nil {
		history = []session.Turn{}
	}

	return c.JSON(fiber.Map{
		"session_id":           sessionID,
		"conversation_history": history,
		"conversation_length":  len(history),
	})
}

func (h *ConversationHandler) HandleClear(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	h.sessions.Clear(sessionID)

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"status":     "conversation_cleared",
		"message":    "Ready for a fresh start! What would you like to learn about?",
	})
}
