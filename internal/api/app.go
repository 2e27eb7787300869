// Package api assembles the HTTP surface: middleware, routes and the
// websocket chat endpoint. Construction is separated from listening so
// tests can drive the app in-process.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/fefe-learning/curriculum-ai/internal/api/handlers"
	"github.com/fefe-learning/curriculum-ai/internal/document"
	"github.com/fefe-learning/curriculum-ai/internal/ingestion"
	"github.com/fefe-learning/curriculum-ai/internal/metrics"
	"github.com/fefe-learning/curriculum-ai/internal/middleware/ratelimit"
	"github.com/fefe-learning/curriculum-ai/internal/middleware/validation"
	"github.com/fefe-learning/curriculum-ai/internal/router"
	"github.com/fefe-learning/curriculum-ai/internal/session"
	"github.com/fefe-learning/curriculum-ai/internal/storage/sqlite"
	"github.com/fefe-learning/curriculum-ai/pkg/config"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

// Deps carries the wired components the app serves. Store and Limiter are
// optional.
type Deps struct {
	Router    *router.Router
	Docs      *document.Store
	Sessions  *session.Store
	Processor *ingestion.Processor
	Store     *sqlite.Client
	Limiter   *ratelimit.Limiter
}

func NewApp(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	if deps.Limiter != nil {
		app.Use(deps.Limiter.Middleware())
	}
	app.Use(validation.Middleware(validation.Config{
		Logger: logger.GetLogger(),
	}))

	askHandler := handlers.NewAskHandler(deps.Router, deps.Docs, deps.Sessions, deps.Store)
	documentHandler := handlers.NewDocumentHandler(deps.Processor, deps.Docs, deps.Router, cfg.Upload.Dir)
	conversationHandler := handlers.NewConversationHandler(deps.Sessions, deps.Router)
	wsHandler := handlers.NewWebSocketHandler(deps.Router)

	app.Post("/upload_pdf", documentHandler.HandleUpload)
	app.Get("/get_pdf_info", documentHandler.HandleInfo)
	app.Post("/clear_pdf", documentHandler.HandleClear)
	app.Get("/get_curriculum_breakdown", documentHandler.HandleBreakdown)

	app.Post("/ask_ai", askHandler.HandleAsk)
	app.Get("/ask_history", askHandler.HandleAskHistory)

	app.Post("/start_conversation", conversationHandler.HandleStart)
	app.Get("/get_conversation_history/:session_id", conversationHandler.HandleHistory)
	app.Post("/clear_conversation/:session_id", conversationHandler.HandleClear)

	app.Get("/health", func(c *fiber.Ctx) error {
		services := deps.Router.Available()
		total := 0
		for _, available := range services {
			if available {
				total++
			}
		}
		return c.JSON(fiber.Map{
			"status":         "healthy",
			"ai_services":    services,
			"total_services": total,
			"timestamp":      time.Now().Format(time.RFC3339),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	return app
}
