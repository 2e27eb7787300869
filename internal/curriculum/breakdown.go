package curriculum

import "fmt"

// Breakdown is the synthesized learning plan derived from a Structure.
type Breakdown struct {
	Overview            Overview            `json:"curriculum_overview"`
	LearningPath        []string            `json:"learning_path"`
	KeyConcepts         []string            `json:"key_concepts"`
	AssessmentCriteria  []string            `json:"assessment_criteria"`
	RecommendedSequence []string            `json:"recommended_sequence"`
	TimeAllocation      map[string][]string `json:"time_allocation"`
	ResourcesNeeded     []string            `json:"resources_needed"`
}

type Overview struct {
	TargetGrades []string `json:"target_grades,omitempty"`
	SubjectAreas []string `json:"subject_areas,omitempty"`
}

const (
	maxKeyConcepts    = 10
	maxLearningPath   = 5
	maxAssessments    = 5
	maxWeeklySequence = 8
	maxResources      = 5
)

// SynthesizeBreakdown condenses an extracted structure into the learning
// breakdown returned by the breakdown endpoint and used in prompts.
func SynthesizeBreakdown(s *Structure) *Breakdown {
	b := &Breakdown{
		LearningPath:        []string{},
		KeyConcepts:         []string{},
		AssessmentCriteria:  []string{},
		RecommendedSequence: []string{},
		TimeAllocation:      map[string][]string{},
		ResourcesNeeded:     []string{},
	}

	b.Overview.TargetGrades = s.Grades
	b.Overview.SubjectAreas = s.SubjectAreas

	// Concepts, topics and detected section headings all count as key
	// concepts; first mention wins, capped at ten.
	seen := map[string]bool{}
	for _, group := range [][]string{s.Concepts, s.Topics, s.Sections} {
		for _, c := range group {
			if seen[c] || len(b.KeyConcepts) >= maxKeyConcepts {
				continue
			}
			seen[c] = true
			b.KeyConcepts = append(b.KeyConcepts, c)
		}
	}

	b.LearningPath = capped(s.LearningOutcomes, maxLearningPath)
	b.AssessmentCriteria = capped(s.AssessmentStandards, maxAssessments)

	// Term breakdown outranks the weekly one as the recommended sequence.
	if len(s.TermBreakdown) > 0 {
		for _, label := range sortedBreakdownKeys(s.TermBreakdown, "Term ") {
			b.RecommendedSequence = append(b.RecommendedSequence,
				fmt.Sprintf("%s: %s", label, s.TermBreakdown[label]))
		}
	} else if len(s.WeeklyBreakdown) > 0 {
		for _, label := range sortedBreakdownKeys(s.WeeklyBreakdown, "Week ") {
			if len(b.RecommendedSequence) >= maxWeeklySequence {
				break
			}
			b.RecommendedSequence = append(b.RecommendedSequence,
				fmt.Sprintf("%s: %s", label, s.WeeklyBreakdown[label]))
		}
	}

	if len(s.TimeAllocations) > 0 {
		b.TimeAllocation["estimated_duration"] = s.TimeAllocations
	}

	b.ResourcesNeeded = capped(s.Resources, maxResources)

	return b
}

func capped(src []string, n int) []string {
	if len(src) <= n {
		return append([]string{}, src...)
	}
	return append([]string{}, src[:n]...)
}

// sortedBreakdownKeys orders labels like "Term 2" by their numeric index so
// the synthesized sequence is stable across runs.
func sortedBreakdownKeys(m map[string]string, prefix string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	// Labels share a prefix and differ in a small integer suffix.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && labelIndex(keys[j-1], prefix) > labelIndex(keys[j], prefix); j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func labelIndex(label, prefix string) int {
	n := 0
	for _, r := range label[len(prefix):] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
