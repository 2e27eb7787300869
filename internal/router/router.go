// Package router selects an answer backend for each question and drives the
// fallback chain. It owns the per-exchange session mutation: history is read
// before routing and the finished exchange is appended after.
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/document"
	"github.com/fefe-learning/curriculum-ai/internal/normalizer"
	"github.com/fefe-learning/curriculum-ai/internal/provider"
	"github.com/fefe-learning/curriculum-ai/internal/session"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

// DefaultTimeout bounds a single provider invocation.
const DefaultTimeout = 30 * time.Second

// documentContextChunks is how many leading chunks feed the remote prompt.
const documentContextChunks = 5

var (
	complexKeywords     = []string{"explain", "analyze", "create", "generate", "design", "plan", "develop", "synthesize"}
	creativeKeywords    = []string{"write", "create", "story", "example", "scenario", "imagine"}
	educationalKeywords = []string{"teach", "learn", "study", "curriculum", "lesson", "assessment"}

	// conversationalKeywords gate the no-document small-talk path.
	conversationalKeywords = []string{"hello", "hi", "hey", "what", "how", "help", "explain"}
)

// Decision records how one question was routed, for the response payload,
// metrics and the audit log.
type Decision struct {
	IsComplex     bool
	IsCreative    bool
	IsEducational bool

	// Candidates is the ordered chain built from the classification,
	// Chosen the provider whose answer was accepted, Failed the ones
	// tried before it.
	Candidates []provider.ID
	Chosen     provider.ID
	Failed     []provider.ID

	// RequiresDocument is set when the question needs a loaded document
	// and none is present.
	RequiresDocument bool
	// Conversational is set on the no-document small-talk path.
	Conversational bool

	// HistoryLength is the session history length before this exchange.
	HistoryLength int
}

// Router dispatches questions over the configured providers.
type Router struct {
	providers map[provider.ID]provider.Provider
	fallback  provider.Provider
	docs      *document.Store
	sessions  *session.Store
	norm      *normalizer.Normalizer
	timeout   time.Duration
}

func New(providers []provider.Provider, docs *document.Store, sessions *session.Store, norm *normalizer.Normalizer, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	byID := make(map[provider.ID]provider.Provider, len(providers))
	var fallback provider.Provider
	for _, p := range providers {
		if p.ID() == provider.Fallback {
			fallback = p
			continue
		}
		byID[p.ID()] = p
	}
	if fallback == nil {
		fallback = provider.NewFallback()
	}

	return &Router{
		providers: byID,
		fallback:  fallback,
		docs:      docs,
		sessions:  sessions,
		norm:      norm,
		timeout:   timeout,
	}
}

// Greeting returns a session-opening message.
func (r *Router) Greeting() string {
	return r.norm.Greeting()
}

// Available reports which providers can currently answer.
func (r *Router) Available() map[provider.ID]bool {
	out := make(map[provider.ID]bool, len(r.providers))
	for id, p := range r.providers {
		out[id] = p.Available()
	}
	return out
}

// Answer routes one question, normalizes the accepted answer and appends
// the exchange to the session history. It never returns an error: the
// chain terminates in the deterministic fallback.
func (r *Router) Answer(ctx context.Context, sessionID, question string) (*provider.Result, Decision) {
	history := r.sessions.History(sessionID)

	decision := r.classify(question)
	decision.HistoryLength = len(history)

	doc, loaded := r.docs.Current()

	if !loaded {
		result, ok := r.converse(ctx, question, history, &decision)
		if !ok {
			// A suggestion to upload is not an exchange worth remembering.
			decision.RequiresDocument = true
			return &provider.Result{
				Answer:       "Hey! I'd love to help you learn. I work best when you upload a curriculum PDF, but I can still try to answer general questions. What would you like to know?",
				Confidence:   0.8,
				Service:      "Conversational",
				ResponseType: "helpful_suggestion",
			}, decision
		}
		r.sessions.Append(sessionID, question, result.Answer)
		return result, decision
	}

	docContext := doc.Chunks
	if len(docContext) > documentContextChunks {
		docContext = docContext[:documentContextChunks]
	}
	req := provider.Request{
		Question:  question,
		Chunks:    doc.Chunks,
		Prompt:    contextualPrompt(question, history, strings.Join(docContext, " ")),
		Structure: doc.Structure,
	}

	decision.Candidates = r.candidates(&decision)
	result := r.tryChain(ctx, req, &decision)

	r.sessions.Append(sessionID, question, result.Answer)
	return result, decision
}

func (r *Router) classify(question string) Decision {
	lower := strings.ToLower(question)
	return Decision{
		IsComplex:     containsAny(lower, complexKeywords),
		IsCreative:    containsAny(lower, creativeKeywords),
		IsEducational: containsAny(lower, educationalKeywords),
	}
}

// candidates builds the ordered chain. First available wins once invoked
// successfully; the order itself never changes mid-request.
func (r *Router) candidates(d *Decision) []provider.ID {
	var chain []provider.ID
	add := func(id provider.ID) {
		p, ok := r.providers[id]
		if !ok || !p.Available() {
			return
		}
		for _, existing := range chain {
			if existing == id {
				return
			}
		}
		chain = append(chain, id)
	}

	if d.IsEducational {
		add(provider.Educational)
	}
	if d.IsCreative {
		add(provider.Creative)
	}
	if d.IsComplex {
		add(provider.Educational)
		add(provider.Creative)
	}
	add(provider.LocalQA)

	return chain
}

// tryChain invokes candidates in order with the configured timeout each and
// accepts the first usable result. A failed candidate is never retried.
func (r *Router) tryChain(ctx context.Context, req provider.Request, d *Decision) *provider.Result {
	for _, id := range d.Candidates {
		p := r.providers[id]

		result, err := r.invoke(ctx, p, req)
		if err != nil {
			logger.GetLogger().Warn("provider failed, falling through",
				zap.String("provider", string(id)),
				zap.Error(err))
			d.Failed = append(d.Failed, id)
			continue
		}

		d.Chosen = id
		if id == provider.LocalQA {
			result.Service = "Local QA (Enhanced)"
			// Structured breakdowns are already rendered; normalizing
			// would flatten their line structure.
			if result.ResponseType != provider.ResponseTypeBreakdown {
				result.Answer = r.norm.Normalize(result.Answer)
				result.ResponseType = "enhanced_local"
			}
		} else {
			result.Answer = r.norm.Normalize(result.Answer)
		}
		return result
	}

	d.Chosen = provider.Fallback
	result, _ := r.fallback.Invoke(ctx, req)
	return result
}

func (r *Router) invoke(ctx context.Context, p provider.Provider, req provider.Request) (*provider.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return p.Invoke(callCtx, req)
}

// converse handles questions asked before any document is uploaded. Only
// small talk and broad help requests qualify; anything else reports that a
// document is required.
func (r *Router) converse(ctx context.Context, question string, history []session.Turn, d *Decision) (*provider.Result, bool) {
	if !containsAny(strings.ToLower(question), conversationalKeywords) {
		return nil, false
	}
	d.Conversational = true

	req := provider.Request{
		Question: question,
		Prompt:   contextualPrompt(question, history, ""),
	}

	for _, id := range []provider.ID{provider.Educational, provider.Creative} {
		p, ok := r.providers[id]
		if !ok || !p.Available() {
			continue
		}
		result, err := r.invoke(ctx, p, req)
		if err != nil {
			d.Failed = append(d.Failed, id)
			continue
		}
		d.Chosen = id
		result.Answer = r.norm.Normalize(result.Answer)
		result.ResponseType = "general_conversation"
		return result, true
	}

	d.Chosen = provider.Fallback
	answer := fmt.Sprintf("%s I'd love to help you learn! While I work best with curriculum documents, I can still try to explain things. What would you like to understand better?", r.norm.Encouragement())
	return &provider.Result{
		Answer:       answer,
		Confidence:   0.7,
		Service:      "Conversational Assistant",
		ResponseType: "encouraging",
	}, true
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
