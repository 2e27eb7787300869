package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/document"
	"github.com/fefe-learning/curriculum-ai/internal/metrics"
	"github.com/fefe-learning/curriculum-ai/internal/provider"
	"github.com/fefe-learning/curriculum-ai/internal/router"
	"github.com/fefe-learning/curriculum-ai/internal/session"
	"github.com/fefe-learning/curriculum-ai/internal/storage/models"
	"github.com/fefe-learning/curriculum-ai/internal/storage/sqlite"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

type AskHandler struct {
	router   *router.Router
	docs     *document.Store
	sessions *session.Store
	store    *sqlite.Client
}

func NewAskHandler(r *router.Router, docs *document.Store, sessions *session.Store, store *sqlite.Client) *AskHandler {
	return &AskHandler{
		router:   r,
		docs:     docs,
		sessions: sessions,
		store:    store,
	}
}

func (h *AskHandler) HandleAsk(c *fiber.Ctx) error {
	var req struct {
		Question  string `json:"question"`
		UserID    string `json:"user_id"`
		SessionID string `json:"session_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.UserID == "" {
		req.UserID = "anonymous"
	}
	if req.SessionID == "" {
		req.SessionID = req.UserID
	}

	if req.Question == "" {
		return c.JSON(fiber.Map{
			"answer":        h.router.Greeting(),
			"confidence":    1.0,
			"ai_service":    "Conversational",
			"response_type": "greeting",
		})
	}

	start := time.Now()
	result, decision := h.router.Answer(c.Context(), req.SessionID, req.Question)
	latency := time.Since(start)

	h.recordMetrics(result, decision, latency)
	if !decision.RequiresDocument {
		h.recordSession(req.UserID, req.SessionID, req.Question, result, latency)
	}

	response := fiber.Map{
		"answer":              result.Answer,
		"confidence":          result.Confidence,
		"ai_service":          result.Service,
		"response_type":       result.ResponseType,
		"conversation_length": decision.HistoryLength,
		"pdf_metadata":        h.documentMetadata(),
		"available_services":  h.router.Available(),
	}
	if decision.RequiresDocument {
		response["requires_pdf"] = true
	}

	return c.JSON(response)
}

func (h *AskHandler) documentMetadata() fiber.Map {
	doc, ok := h.docs.Current()
	if !ok {
		return fiber.Map{}
	}
	return fiber.Map{
		"filename":             doc.Metadata.Filename,
		"title":                doc.Metadata.Title,
		"author":               doc.Metadata.Author,
		"total_pages":          doc.Metadata.Pages,
		"word_count":           doc.Metadata.WordCount,
		"curriculum_structure": doc.Structure,
	}
}

func (h *AskHandler) recordMetrics(result *provider.Result, decision router.Decision, latency time.Duration) {
	chosen := string(decision.Chosen)
	if chosen == "" {
		// No provider was invoked, e.g. a question that needs a document
		// when none is loaded.
		chosen = "none"
	}
	metrics.QuestionDuration.WithLabelValues(chosen).Observe(latency.Seconds())
	metrics.QuestionTotal.WithLabelValues(chosen, result.ResponseType).Inc()
	metrics.ConfidenceScore.Observe(result.Confidence)
	metrics.ActiveSessions.Set(float64(h.sessions.Count()))

	for _, failed := range decision.Failed {
		metrics.ProviderFailures.WithLabelValues(string(failed)).Inc()
	}
	if decision.Chosen == provider.Fallback {
		metrics.FallbackTriggered.Inc()
	}
}

func (h *AskHandler) recordSession(userID, sessionID, question string, result *provider.Result, latency time.Duration) {
	if h.store == nil {
		return
	}

	title := "No PDF uploaded"
	if doc, ok := h.docs.Current(); ok {
		title = doc.Metadata.Title
	}

	record := &models.LearningSession{
		ID:            uuid.NewString(),
		UserID:        userID,
		SessionID:     sessionID,
		Question:      question,
		Answer:        result.Answer,
		AIService:     result.Service,
		ResponseType:  result.ResponseType,
		Confidence:    result.Confidence,
		DocumentTitle: title,
		LatencyMS:     latency.Milliseconds(),
		CreatedAt:     time.Now(),
	}

	if err := h.store.InsertLearningSession(record); err != nil {
		logger.Error("Failed to record learning session", zap.Error(err))
	}
}

// HandleAskHistory returns recent persisted exchanges, optionally filtered
// by user.
func (h *AskHandler) HandleAskHistory(c *fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"history": []interface{}{}})
	}

	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var (
		records []models.LearningSession
		err     error
	)
	if userID := c.Query("user_id"); userID != "" {
		records, err = h.store.GetLearningHistory(userID, limit)
	} else {
		records, err = h.store.RecentLearningSessions(limit)
	}
	if err != nil {
		logger.Error("Failed to load learning history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load history",
		})
	}

	if records == nil {
		records = []models.LearningSession{}
	}
	return c.JSON(fiber.Map{
		"history": records,
		"count":   len(records),
	})
}
