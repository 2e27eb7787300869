// Package document holds the process-wide current-document state.
package document

import (
	"sync"

	"github.com/fefe-learning/curriculum-ai/internal/curriculum"
)

// Metadata describes the source file of the current document.
type Metadata struct {
	Filename  string `json:"filename"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Pages     int    `json:"total_pages"`
	WordCount int    `json:"word_count"`
}

// Document is one fully ingested curriculum document: raw text, its chunked
// form, file metadata and the extracted structure. Treated as immutable.
type Document struct {
	Text      string
	Chunks    []string
	Metadata  Metadata
	Structure *curriculum.Structure
}

// Store is a single-slot holder for the active document. Replacement is a
// full swap under an exclusive lock so concurrent readers never observe a
// half-updated document.
type Store struct {
	mu      sync.RWMutex
	current *Document
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs doc as the current document, discarding any previous one.
func (s *Store) Replace(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = doc
}

// Clear drops the current document.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns the active document, if any.
func (s *Store) Current() (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// Loaded reports whether a document is active.
func (s *Store) Loaded() bool {
	_, ok := s.Current()
	return ok
}
