package provider

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefe-learning/curriculum-ai/internal/curriculum"
)

func TestLocalQA_DisabledIsUnavailable(t *testing.T) {
	p := NewLocalQA(false, 0.3, 1000)

	assert.False(t, p.Available())
	_, err := p.Invoke(context.Background(), Request{Question: "anything"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLocalQA_BestChunkWins(t *testing.T) {
	p := NewLocalQA(true, 0.3, 1000)

	req := Request{
		Question: "How are quadratic equations assessed?",
		Chunks: []string{
			"Learners plant seedlings during the biology field trip in spring.",
			"Quadratic equations are assessed through a written test. The test counts toward the term mark.",
		},
	}

	res, err := p.Invoke(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, res.Answer, "Quadratic equations are assessed")
	assert.GreaterOrEqual(t, res.Confidence, 0.3)
	assert.Equal(t, "basic_qa", res.ResponseType)
}

func TestLocalQA_BelowFloorReportsNoAnswer(t *testing.T) {
	p := NewLocalQA(true, 0.3, 1000)

	req := Request{
		Question: "Explain photosynthesis respiration chloroplast",
		Chunks:   []string{"Term 1 covers algebra and number patterns only."},
	}

	_, err := p.Invoke(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestLocalQA_LearningQuestionGetsBreakdown(t *testing.T) {
	p := NewLocalQA(true, 0.3, 1000)

	text := "Grade 10 Mathematics\n" +
		"Concepts: Functions and graphs\n" +
		"Term 1: Algebra basics\n" +
		"Learning Outcomes: Solve linear equations confidently"

	res, err := p.Invoke(context.Background(), Request{
		Question:  "what should I study first",
		Chunks:    []string{text},
		Structure: curriculum.Analyze(text),
	})
	require.NoError(t, err)

	assert.Equal(t, breakdownConfidence, res.Confidence)
	assert.Equal(t, ResponseTypeBreakdown, res.ResponseType)
	assert.Contains(t, res.Answer, "Key Concepts to Learn")
	assert.Contains(t, res.Answer, "• Functions and graphs")
	assert.Contains(t, res.Answer, "📅 Term 1: Algebra basics")
	assert.Contains(t, res.Answer, "Target Grades:** 10")
}

func TestLocalQA_EmptyStructureFallsBackToRetrieval(t *testing.T) {
	p := NewLocalQA(true, 0.3, 1000)

	// The question carries a learning keyword but the document yielded no
	// structure worth a breakdown, so the lexical path answers.
	res, err := p.Invoke(context.Background(), Request{
		Question:  "explain the term test",
		Chunks:    []string{"The test counts toward the term mark."},
		Structure: curriculum.Analyze("plain prose with no headings at all"),
	})
	require.NoError(t, err)
	assert.Equal(t, "basic_qa", res.ResponseType)
}

func TestLocalQA_TruncationKeepsRuneBoundary(t *testing.T) {
	// A cap of 13 bytes lands inside the second word's two-byte è.
	p := NewLocalQA(true, 0.3, 13)

	res, err := p.Invoke(context.Background(), Request{
		Question: "algèbre",
		Chunks:   []string{"algèbre algèbre algèbre"},
	})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(res.Answer))
	assert.Contains(t, res.Answer, "algèbre")
}

func TestLocalQA_EmptyChunks(t *testing.T) {
	p := NewLocalQA(true, 0.3, 1000)

	_, err := p.Invoke(context.Background(), Request{Question: "what is algebra"})
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestLocalQA_CancelledContext(t *testing.T) {
	p := NewLocalQA(true, 0.3, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Invoke(ctx, Request{
		Question: "what is algebra",
		Chunks:   []string{"algebra is the study of symbols"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFallback_Deterministic(t *testing.T) {
	p := NewFallback()
	require.True(t, p.Available())

	res1, err := p.Invoke(context.Background(), Request{Question: "q"})
	require.NoError(t, err)
	res2, err := p.Invoke(context.Background(), Request{Question: "q"})
	require.NoError(t, err)

	assert.Equal(t, res1.Answer, res2.Answer)
	assert.Equal(t, FallbackConfidence, res1.Confidence)
	assert.Equal(t, "encouraging_fallback", res1.ResponseType)
}

func TestRemote_MissingKeyIsUnavailable(t *testing.T) {
	p := NewEducational(remoteTestConfig(""))

	assert.False(t, p.Available())
	_, err := p.Invoke(context.Background(), Request{Question: "q"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
