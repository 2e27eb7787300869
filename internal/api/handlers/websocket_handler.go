package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/provider"
	"github.com/fefe-learning/curriculum-ai/internal/router"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

// WebSocketHandler streams answers word by word over a chat connection.
type WebSocketHandler struct {
	router *router.Router
}

func NewWebSocketHandler(r *router.Router) *WebSocketHandler {
	return &WebSocketHandler{router: r}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			UserID    string `json:"user_id"`
			SessionID string `json:"session_id"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "question" {
			continue
		}

		if msg.SessionID == "" {
			msg.SessionID = msg.UserID
		}
		if msg.SessionID == "" {
			msg.SessionID = "anonymous"
		}

		if err := h.streamAnswer(c, msg.SessionID, msg.Content); err != nil {
			logger.Error("Failed to stream answer", zap.Error(err))
			h.sendError(c, "Failed to answer question")
		}
	}
}

func (h *WebSocketHandler) streamAnswer(c *websocket.Conn, sessionID, question string) error {
	if err := h.send(c, "status", "Thinking about your question..."); err != nil {
		return err
	}

	result, decision := h.router.Answer(context.Background(), sessionID, question)

	words := strings.Fields(result.Answer)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if err := h.send(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return h.sendComplete(c, result, decision)
}

func (h *WebSocketHandler) send(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, result *provider.Result, decision router.Decision) error {
	return c.WriteJSON(map[string]interface{}{
		"type":                "complete",
		"ai_service":          result.Service,
		"response_type":       result.ResponseType,
		"confidence":          result.Confidence,
		"conversation_length": decision.HistoryLength,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	if err := c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}); err != nil {
		logger.Debug("Failed to send WebSocket error", zap.Error(err))
	}
}
