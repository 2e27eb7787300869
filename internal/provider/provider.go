// Package provider defines the closed set of answer-generation backends and
// the capability interface the router dispatches over.
package provider

import (
	"context"
	"errors"

	"github.com/fefe-learning/curriculum-ai/internal/curriculum"
)

// ID names a provider variant in routing decisions and metrics.
type ID string

const (
	LocalQA     ID = "local_qa"
	Educational ID = "educational"
	Creative    ID = "creative"
	Fallback    ID = "fallback"
)

// ResponseTypeBreakdown marks answers synthesized from the extracted
// curriculum structure rather than retrieved from the document text. The
// router serves these pre-rendered, without the normalization pass.
const ResponseTypeBreakdown = "structured_breakdown"

var (
	// ErrUnavailable marks a provider that is not configured or whose
	// breaker is open; the router excludes it from candidates.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrNoAnswer marks a provider that ran but found nothing above its
	// acceptance floor; the router falls through to the next candidate.
	ErrNoAnswer = errors.New("no confident answer")
)

// Request carries everything a provider may need for one question. Remote
// providers consume Prompt when set and otherwise build their own from the
// document context; the local provider scores Chunks directly.
type Request struct {
	Question  string
	Chunks    []string
	Prompt    string
	Structure *curriculum.Structure
}

// Result is one provider's answer. Confidence is the provider's own
// estimate; the router never compares confidences across providers.
type Result struct {
	Answer       string  `json:"answer"`
	Confidence   float64 `json:"confidence"`
	Service      string  `json:"ai_service"`
	ResponseType string  `json:"response_type"`
}

// Provider is the uniform capability interface over all backend variants.
type Provider interface {
	ID() ID
	// Available reports whether the provider can be a candidate right now.
	// It reflects startup probes and per-call failure signaling, not polling.
	Available() bool
	Invoke(ctx context.Context, req Request) (*Result, error)
}
