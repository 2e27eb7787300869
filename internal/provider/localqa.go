package provider

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/curriculum"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

// DefaultScoreFloor is the minimum chunk score the local provider accepts;
// below it the provider reports no answer rather than a weak guess.
const DefaultScoreFloor = 0.3

// defaultMaxChunkChars truncates each chunk before scoring.
const defaultMaxChunkChars = 1000

// breakdownConfidence is reported for answers built from the extracted
// curriculum structure instead of lexical retrieval.
const breakdownConfidence = 0.85

// learningKeywords trigger the synthesized breakdown answer ahead of
// lexical retrieval, matched as substrings of the lowered question.
var learningKeywords = []string{
	"learn", "study", "concept", "breakdown", "explain",
	"what is", "how to", "teach", "understand",
}

// stopwords excluded from lexical scoring. Question words are kept short on
// purpose; the interrogative itself carries routing signal elsewhere.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "do": true, "does": true, "for": true, "from": true,
	"how": true, "i": true, "in": true, "is": true, "it": true, "of": true,
	"on": true, "or": true, "should": true, "the": true, "to": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"why": true, "with": true, "you": true,
}

// LocalQAProvider answers from the document itself. Questions about
// learning the material get a study plan synthesized from the extracted
// curriculum structure; everything else is scored lexically and answered
// with the best sentence window from the highest-scoring chunk above the
// floor.
type LocalQAProvider struct {
	enabled       bool
	scoreFloor    float64
	maxChunkChars int
}

func NewLocalQA(enabled bool, scoreFloor float64, maxChunkChars int) *LocalQAProvider {
	if scoreFloor <= 0 {
		scoreFloor = DefaultScoreFloor
	}
	if maxChunkChars <= 0 {
		maxChunkChars = defaultMaxChunkChars
	}
	return &LocalQAProvider{
		enabled:       enabled,
		scoreFloor:    scoreFloor,
		maxChunkChars: maxChunkChars,
	}
}

func (p *LocalQAProvider) ID() ID {
	return LocalQA
}

func (p *LocalQAProvider) Available() bool {
	return p.enabled
}

func (p *LocalQAProvider) Invoke(ctx context.Context, req Request) (*Result, error) {
	if !p.enabled {
		return nil, ErrUnavailable
	}

	if answer := structuredBreakdown(req); answer != "" {
		return &Result{
			Answer:       answer,
			Confidence:   breakdownConfidence,
			Service:      "Local QA",
			ResponseType: ResponseTypeBreakdown,
		}, nil
	}

	terms := contentTerms(req.Question)
	if len(terms) == 0 {
		return nil, ErrNoAnswer
	}

	bestScore := -1.0
	bestChunk := ""
	for _, chunk := range req.Chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if len(chunk) > p.maxChunkChars {
			cut := p.maxChunkChars
			// Back off to a rune boundary so multi-byte text is never
			// split into invalid UTF-8.
			for cut > 0 && !utf8.RuneStart(chunk[cut]) {
				cut--
			}
			chunk = chunk[:cut]
		}
		// Confidence IS compared across chunks: highest score wins.
		if score := overlapScore(terms, chunk); score > bestScore {
			bestScore = score
			bestChunk = chunk
		}
	}

	if bestScore < p.scoreFloor {
		logger.Debug("Local QA below acceptance floor",
			zap.Float64("best_score", bestScore),
			zap.Float64("floor", p.scoreFloor),
		)
		return nil, ErrNoAnswer
	}

	answer := bestSentences(terms, bestChunk)
	if answer == "" {
		answer = bestChunk
	}

	return &Result{
		Answer:       answer,
		Confidence:   bestScore,
		Service:      "Local QA",
		ResponseType: "basic_qa",
	}, nil
}

// structuredBreakdown renders a study-plan answer when the question asks
// about learning the material and the document yielded usable structure.
// Returns "" when the lexical path should run instead.
func structuredBreakdown(req Request) string {
	if req.Structure == nil {
		return ""
	}
	lower := strings.ToLower(req.Question)
	matched := false
	for _, k := range learningKeywords {
		if strings.Contains(lower, k) {
			matched = true
			break
		}
	}
	if !matched {
		return ""
	}

	b := curriculum.SynthesizeBreakdown(req.Structure)
	if len(b.KeyConcepts) == 0 && len(b.LearningPath) == 0 && len(b.RecommendedSequence) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("📚 **CAPS Curriculum Breakdown for your question:**\n\n")

	sb.WriteString("🎯 **Key Concepts to Learn:**\n")
	writeBullets(&sb, "• ", b.KeyConcepts, 5)

	sb.WriteString("\n📖 **Learning Path:**\n")
	writeBullets(&sb, "→ ", b.LearningPath, 3)

	sb.WriteString("\n⏰ **Recommended Sequence:**\n")
	writeBullets(&sb, "📅 ", b.RecommendedSequence, 4)

	sb.WriteString("\n📊 **Assessment Focus:**\n")
	writeBullets(&sb, "✓ ", b.AssessmentCriteria, 3)

	sb.WriteString("\n🎓 **Target Grades:** " + joinOrNotSpecified(b.Overview.TargetGrades) + "\n")
	sb.WriteString("\n📋 **Subject Areas:** " + joinOrNotSpecified(b.Overview.SubjectAreas) + "\n")

	return sb.String()
}

func writeBullets(sb *strings.Builder, marker string, items []string, max int) {
	if len(items) > max {
		items = items[:max]
	}
	for _, item := range items {
		sb.WriteString(marker + item + "\n")
	}
}

func joinOrNotSpecified(items []string) string {
	if len(items) == 0 {
		return "Not specified"
	}
	return strings.Join(items, ", ")
}

// contentTerms tokenizes the question and keeps lower-cased content words.
func contentTerms(question string) map[string]bool {
	terms := map[string]bool{}
	for _, tok := range tokenize(question) {
		word := strings.ToLower(tok)
		if len(word) < 2 || stopwords[word] {
			continue
		}
		terms[word] = true
	}
	return terms
}

// overlapScore is the fraction of question terms present in the chunk.
func overlapScore(terms map[string]bool, chunk string) float64 {
	present := map[string]bool{}
	for _, tok := range tokenize(chunk) {
		word := strings.ToLower(tok)
		if terms[word] {
			present[word] = true
		}
	}
	return float64(len(present)) / float64(len(terms))
}

// bestSentences picks up to two adjacent sentences around the sentence with
// the strongest term overlap, so the answer reads as a span, not a chunk.
func bestSentences(terms map[string]bool, chunk string) string {
	sentences := splitSentences(chunk)
	if len(sentences) == 0 {
		return ""
	}

	bestIdx, bestHits := 0, -1
	for i, sent := range sentences {
		hits := 0
		for _, tok := range tokenize(sent) {
			if terms[strings.ToLower(tok)] {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestIdx = i
		}
	}

	answer := strings.TrimSpace(sentences[bestIdx])
	if bestIdx+1 < len(sentences) {
		answer += " " + strings.TrimSpace(sentences[bestIdx+1])
	}
	return answer
}

func tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return strings.Fields(text)
	}

	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Text)
	}
	return out
}

func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return []string{text}
	}

	sentences := doc.Sentences()
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, s.Text)
	}
	return out
}
