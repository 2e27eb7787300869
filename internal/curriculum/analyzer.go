// Package curriculum extracts a typed structure from raw curriculum text.
//
// Extraction is a fixed table of independent, case-insensitive rules that
// each scan the whole document. Overlapping matches across categories are
// expected; deduplication happens only inside set-valued categories.
package curriculum

import (
	"fmt"
	"regexp"
	"strings"
)

// Structure is the parsed representation of one curriculum document. It is
// immutable once built and replaced wholesale on re-upload.
type Structure struct {
	Grades              []string          `json:"grades"`
	LearningOutcomes    []string          `json:"learning_outcomes"`
	AssessmentStandards []string          `json:"assessment_standards"`
	ContentAreas        []string          `json:"content_areas"`
	Topics              []string          `json:"topics"`
	Skills              []string          `json:"skills"`
	Concepts            []string          `json:"concepts"`
	KnowledgeAreas      []string          `json:"knowledge_areas"`
	TermBreakdown       map[string]string `json:"term_breakdown"`
	WeeklyBreakdown     map[string]string `json:"weekly_breakdown"`
	Objectives          []string          `json:"objectives"`
	Activities          []string          `json:"activities"`
	Resources           []string          `json:"resources"`
	TimeAllocations     []string          `json:"time_allocations"`
	MathConcepts        []string          `json:"mathematical_concepts"`
	SubjectAreas        []string          `json:"subject_areas"`
	Sections            []string          `json:"sections"`
}

// minSectionLen filters heading noise: trimmed matches must be longer.
const minSectionLen = 5

var (
	gradeRe        = regexp.MustCompile(`(?i)Grade\s+(\d+)`)
	outcomeRe      = regexp.MustCompile(`(?i)Learning\s+Outcome[s]?\s*:?\s*([^\n]+)`)
	standardRe     = regexp.MustCompile(`(?i)Assessment\s+Standard[s]?\s*:?\s*([^\n]+)`)
	contentAreaRe  = regexp.MustCompile(`(?i)Content\s+Area[s]?\s*:?\s*([^\n]+)`)
	topicRe        = regexp.MustCompile(`(?i)Topic[s]?\s*:?\s*([^\n]+)`)
	skillRe        = regexp.MustCompile(`(?i)Skill[s]?\s*:?\s*([^\n]+)`)
	conceptRe      = regexp.MustCompile(`(?i)Concept[s]?\s*:?\s*([^\n]+)`)
	knowledgeRe    = regexp.MustCompile(`(?i)Knowledge\s*:?\s*([^\n]+)`)
	termRe         = regexp.MustCompile(`(?i)Term\s+(\d+)\s*:?\s*([^\n]+)`)
	weekRe         = regexp.MustCompile(`(?i)Week\s+(\d+)\s*:?\s*([^\n]+)`)
	objectiveRe    = regexp.MustCompile(`(?i)(?:Learning\s+)?Objective[s]?\s*:?\s*([^\n]+)`)
	activityRe     = regexp.MustCompile(`(?i)Activit(?:y|ies)\s*:?\s*([^\n]+)`)
	resourceRe     = regexp.MustCompile(`(?i)Resource[s]?\s*:?\s*([^\n]+)`)
	timeRe         = regexp.MustCompile(`(?i)Time\s*:?\s*(\d+)\s*(hours?|minutes?|periods?)`)
	mathConceptRe  = regexp.MustCompile(`(?i)(sin|cos|tan|algebra|geometry|calculus|trigonometry|logarithm|equation|formula|theorem)`)
	subjectAreaRe  = regexp.MustCompile(`(?i)(Mathematics|Science|English|History|Geography|Life Sciences|Physical Sciences|Technology)`)
	sectionRe      = regexp.MustCompile(`(?m)(?:^|\n)[ \t]*(?:\d+\.?[ \t]*)?([A-Z][^.\n]*(?i:Identity|Formula|Concept|Topic|Skill|Knowledge|Learning|Assessment)[^.\n]*)`)
)

// rule binds one pattern to its placement in the structure.
type rule struct {
	name    string
	pattern *regexp.Regexp
	apply   func(s *Structure, match []string)
}

// The table order mirrors the extraction order of the document analysis;
// every rule scans the full text independently.
var rules = []rule{
	{"grades", gradeRe, func(s *Structure, m []string) {
		s.Grades = appendUnique(s.Grades, m[1])
	}},
	{"learning_outcomes", outcomeRe, listInto(func(s *Structure) *[]string { return &s.LearningOutcomes })},
	{"assessment_standards", standardRe, listInto(func(s *Structure) *[]string { return &s.AssessmentStandards })},
	{"content_areas", contentAreaRe, listInto(func(s *Structure) *[]string { return &s.ContentAreas })},
	{"topics", topicRe, listInto(func(s *Structure) *[]string { return &s.Topics })},
	{"skills", skillRe, listInto(func(s *Structure) *[]string { return &s.Skills })},
	{"concepts", conceptRe, listInto(func(s *Structure) *[]string { return &s.Concepts })},
	{"knowledge_areas", knowledgeRe, listInto(func(s *Structure) *[]string { return &s.KnowledgeAreas })},
	{"term_breakdown", termRe, func(s *Structure, m []string) {
		s.TermBreakdown[fmt.Sprintf("Term %s", m[1])] = strings.TrimSpace(m[2])
	}},
	{"weekly_breakdown", weekRe, func(s *Structure, m []string) {
		s.WeeklyBreakdown[fmt.Sprintf("Week %s", m[1])] = strings.TrimSpace(m[2])
	}},
	{"objectives", objectiveRe, listInto(func(s *Structure) *[]string { return &s.Objectives })},
	{"activities", activityRe, listInto(func(s *Structure) *[]string { return &s.Activities })},
	{"resources", resourceRe, listInto(func(s *Structure) *[]string { return &s.Resources })},
	{"time_allocations", timeRe, func(s *Structure, m []string) {
		s.TimeAllocations = append(s.TimeAllocations, m[1]+" "+strings.ToLower(m[2]))
	}},
	{"mathematical_concepts", mathConceptRe, func(s *Structure, m []string) {
		s.MathConcepts = appendUnique(s.MathConcepts, strings.ToLower(m[1]))
	}},
	{"subject_areas", subjectAreaRe, func(s *Structure, m []string) {
		s.SubjectAreas = appendUnique(s.SubjectAreas, strings.ToLower(m[1]))
	}},
	{"sections", sectionRe, func(s *Structure, m []string) {
		heading := strings.TrimSpace(m[1])
		if len(heading) > minSectionLen {
			s.Sections = append(s.Sections, heading)
		}
	}},
}

// Analyze extracts the curriculum structure from raw text. It is total:
// absence of matches yields empty collections, never an error.
func Analyze(text string) *Structure {
	s := &Structure{
		Grades:              []string{},
		LearningOutcomes:    []string{},
		AssessmentStandards: []string{},
		ContentAreas:        []string{},
		Topics:              []string{},
		Skills:              []string{},
		Concepts:            []string{},
		KnowledgeAreas:      []string{},
		TermBreakdown:       map[string]string{},
		WeeklyBreakdown:     map[string]string{},
		Objectives:          []string{},
		Activities:          []string{},
		Resources:           []string{},
		TimeAllocations:     []string{},
		MathConcepts:        []string{},
		SubjectAreas:        []string{},
		Sections:            []string{},
	}

	for _, r := range rules {
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			r.apply(s, m)
		}
	}

	return s
}

// listInto appends the trimmed capture to an ordered list field, dropping
// empty captures. Duplicates are allowed; recency of mention matters.
func listInto(field func(*Structure) *[]string) func(*Structure, []string) {
	return func(s *Structure, m []string) {
		v := strings.TrimSpace(m[1])
		if v == "" {
			return
		}
		dst := field(s)
		*dst = append(*dst, v)
	}
}

func appendUnique(dst []string, v string) []string {
	for _, existing := range dst {
		if existing == v {
			return dst
		}
	}
	return append(dst, v)
}
