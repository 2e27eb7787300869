package curriculum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeBreakdown_Sample(t *testing.T) {
	s := Analyze(sampleText)
	b := SynthesizeBreakdown(s)

	assert.Equal(t, []string{"10"}, b.Overview.TargetGrades)
	assert.Equal(t, []string{"mathematics"}, b.Overview.SubjectAreas)

	// Terms outrank weeks and come back in numeric order.
	assert.Equal(t, "Term 1: Algebra basics", b.RecommendedSequence[0])
	assert.Equal(t, "Term 2: Trigonometric Identity work", b.RecommendedSequence[1])

	assert.Equal(t, s.TimeAllocations, b.TimeAllocation["estimated_duration"])
	assert.NotEmpty(t, b.KeyConcepts)
	assert.LessOrEqual(t, len(b.KeyConcepts), 10)
}

func TestSynthesizeBreakdown_WeeklyFallbackCapped(t *testing.T) {
	s := Analyze("Week 1: a\nWeek 2: b\nWeek 3: c\nWeek 4: d\nWeek 5: e\nWeek 6: f\nWeek 7: g\nWeek 8: h\nWeek 9: i\nWeek 10: j")
	b := SynthesizeBreakdown(s)

	assert.Len(t, b.RecommendedSequence, 8)
	assert.Equal(t, "Week 1: a", b.RecommendedSequence[0])
}

func TestSynthesizeBreakdown_EmptyStructure(t *testing.T) {
	b := SynthesizeBreakdown(Analyze(""))

	assert.Empty(t, b.RecommendedSequence)
	assert.Empty(t, b.KeyConcepts)
	assert.Empty(t, b.TimeAllocation)
}

func TestSynthesizeBreakdown_KeyConceptsDeduped(t *testing.T) {
	s := Analyze("Concepts: Functions\nTopics: Functions\nConcepts: Graphs")
	b := SynthesizeBreakdown(s)

	// "Functions" is mentioned as both a concept and a topic but shows up once.
	count := 0
	for _, c := range b.KeyConcepts {
		if c == "Functions" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "Functions", b.KeyConcepts[0])
	assert.Equal(t, "Graphs", b.KeyConcepts[1])
}
