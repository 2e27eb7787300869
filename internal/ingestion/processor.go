// Package ingestion turns an uploaded curriculum PDF into the active
// document: extracted text, chunks and the analyzed structure.
package ingestion

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/chunker"
	"github.com/fefe-learning/curriculum-ai/internal/curriculum"
	"github.com/fefe-learning/curriculum-ai/internal/document"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

type Processor struct {
	docs         *document.Store
	maxChunkSize int
}

func NewProcessor(docs *document.Store, maxChunkSize int) *Processor {
	if maxChunkSize <= 0 {
		maxChunkSize = chunker.DefaultMaxChunkSize
	}
	return &Processor{
		docs:         docs,
		maxChunkSize: maxChunkSize,
	}
}

// Process extracts, chunks and analyzes the PDF at path and installs it as
// the current document. No partial state is committed on failure.
func (p *Processor) Process(path string) (*document.Document, error) {
	logger.Info("Processing document", zap.String("path", path))

	text, meta, err := ExtractPDF(path)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	meta.Filename = filepath.Base(path)

	doc := &document.Document{
		Text:      text,
		Chunks:    chunker.Split(text, p.maxChunkSize),
		Metadata:  meta,
		Structure: curriculum.Analyze(text),
	}

	p.docs.Replace(doc)

	logger.Info("Document processed successfully",
		zap.String("filename", meta.Filename),
		zap.Int("pages", meta.Pages),
		zap.Int("word_count", meta.WordCount),
		zap.Int("chunks", len(doc.Chunks)),
		zap.Int("sections", len(doc.Structure.Sections)),
	)

	return doc, nil
}
