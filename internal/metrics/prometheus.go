package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuestionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curriculum_ai_question_duration_seconds",
			Help:    "Question processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	QuestionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curriculum_ai_question_total",
			Help: "Total number of questions answered",
		},
		[]string{"provider", "response_type"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curriculum_ai_confidence_score",
			Help:    "Answer confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ProviderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curriculum_ai_provider_failures_total",
			Help: "Provider invocations that fell through to the next candidate",
		},
		[]string{"provider"},
	)

	FallbackTriggered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "curriculum_ai_fallback_triggered_total",
			Help: "Questions answered by the deterministic fallback",
		},
	)

	DocumentsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "curriculum_ai_documents_processed_total",
			Help: "Total curriculum documents ingested",
		},
	)

	DocumentChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "curriculum_ai_document_chunks",
			Help: "Chunk count of the active document",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "curriculum_ai_active_sessions",
			Help: "Sessions with conversation history in memory",
		},
	)
)

func Init() {
	prometheus.MustRegister(QuestionDuration)
	prometheus.MustRegister(QuestionTotal)
	prometheus.MustRegister(ConfidenceScore)
	prometheus.MustRegister(ProviderFailures)
	prometheus.MustRegister(FallbackTriggered)
	prometheus.MustRegister(DocumentsProcessed)
	prometheus.MustRegister(DocumentChunks)
	prometheus.MustRegister(ActiveSessions)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
