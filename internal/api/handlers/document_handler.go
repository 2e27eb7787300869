package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/curriculum"
	"github.com/fefe-learning/curriculum-ai/internal/document"
	"github.com/fefe-learning/curriculum-ai/internal/ingestion"
	"github.com/fefe-learning/curriculum-ai/internal/metrics"
	"github.com/fefe-learning/curriculum-ai/internal/router"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

const textPreviewLen = 200

type DocumentHandler struct {
	processor *ingestion.Processor
	docs      *document.Store
	router    *router.Router
	uploadDir string
}

func NewDocumentHandler(processor *ingestion.Processor, docs *document.Store, r *router.Router, uploadDir string) *DocumentHandler {
	return &DocumentHandler{
		processor: processor,
		docs:      docs,
		router:    r,
		uploadDir: uploadDir,
	}
}

func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("pdf_file")
	if err != nil {
		return c.JSON(fiber.Map{"success": false, "message": "No PDF file part"})
	}

	if file.Filename == "" {
		return c.JSON(fiber.Map{"success": false, "message": "No selected file"})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return c.JSON(fiber.Map{"success": false, "message": "Invalid file type. Please upload a PDF."})
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logger.Error("Failed to create upload directory", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to store uploaded file",
		})
	}

	path := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveFile(file, path); err != nil {
		logger.Error("Failed to save uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to store uploaded file",
		})
	}

	doc, err := h.processor.Process(path)
	if err != nil {
		logger.Error("Failed to process uploaded PDF", zap.Error(err))
		return c.JSON(fiber.Map{"success": false, "message": "Failed to extract text from PDF."})
	}

	metrics.DocumentsProcessed.Inc()
	metrics.DocumentChunks.Set(float64(len(doc.Chunks)))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "PDF uploaded and processed successfully!",
		"metadata": fiber.Map{
			"filename":   doc.Metadata.Filename,
			"pages":      doc.Metadata.Pages,
			"word_count": doc.Metadata.WordCount,
			"chunks":     len(doc.Chunks),
		},
		"curriculum_analysis": fiber.Map{
			"grades_covered":    doc.Structure.Grades,
			"key_concepts":      head(doc.Structure.Concepts, 5),
			"learning_outcomes": head(doc.Structure.LearningOutcomes, 3),
			"subject_areas":     doc.Structure.SubjectAreas,
			"sections_found":    len(doc.Structure.Sections),
		},
		"ai_services_available": h.router.Available(),
	})
}

func (h *DocumentHandler) HandleInfo(c *fiber.Ctx) error {
	doc, ok := h.docs.Current()
	if !ok {
		return c.JSON(fiber.Map{"loaded": false})
	}

	preview := doc.Text
	if len(preview) > textPreviewLen {
		preview = preview[:textPreviewLen] + "..."
	}

	return c.JSON(fiber.Map{
		"loaded":               true,
		"metadata":             doc.Metadata,
		"curriculum_structure": doc.Structure,
		"chunks_count":         len(doc.Chunks),
		"text_preview":         preview,
		"ai_services":          h.router.Available(),
	})
}

func (h *DocumentHandler) HandleClear(c *fiber.Ctx) error {
	h.docs.Clear()
	metrics.DocumentChunks.Set(0)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "PDF cleared successfully",
	})
}

func (h *DocumentHandler) HandleBreakdown(c *fiber.Ctx) error {
	doc, ok := h.docs.Current()
	if !ok {
		return c.JSON(fiber.Map{"error": "No PDF loaded"})
	}

	s := doc.Structure
	breakdown := curriculum.SynthesizeBreakdown(s)

	return c.JSON(fiber.Map{
		"curriculum_breakdown": breakdown,
		"detailed_analysis": fiber.Map{
			"total_concepts":        len(s.Concepts),
			"learning_outcomes":     s.LearningOutcomes,
			"assessment_standards":  s.AssessmentStandards,
			"content_areas":         s.ContentAreas,
			"skills":                s.Skills,
			"knowledge_areas":       s.KnowledgeAreas,
			"activities":            s.Activities,
			"resources":             s.Resources,
			"term_breakdown":        s.TermBreakdown,
			"weekly_breakdown":      s.WeeklyBreakdown,
			"mathematical_concepts": s.MathConcepts,
			"sections":              s.Sections,
		},
		"summary": fiber.Map{
			"grades_covered":          s.Grades,
			"subject_areas":           s.SubjectAreas,
			"total_sections":          len(s.Sections),
			"learning_outcomes_count": len(s.LearningOutcomes),
			"concepts_count":          len(s.Concepts),
		},
		"ai_services_used": h.router.Available(),
	})
}

func head(items []string, n int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
