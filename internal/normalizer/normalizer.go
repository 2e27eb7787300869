// Package normalizer reformats raw provider answers into the final
// user-visible reply: punctuation repair, section structure, tone rewriting
// and a light personality layer.
//
// The pipeline is deterministic modulo the injected random source, and
// idempotent: feeding its own output back through produces the same text.
package normalizer

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
)

// longParagraphLen is the threshold above which a plain paragraph is
// re-wrapped into sentence-grouped lines of at most wrapLineLen characters.
const (
	longParagraphLen = 200
	wrapLineLen      = 150
	numberedIndent   = "   "
	exampleMarker    = "💡 "
)

var (
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)
	newlineTrimRe = regexp.MustCompile(` *\n *`)
	sentenceGapRe = regexp.MustCompile(`([.!?])([A-Z])`)
	commaRe       = regexp.MustCompile(`\s*,\s*`)
	colonRe       = regexp.MustCompile(`\s*:\s*([^*\s])`)
	quoteSquishRe = regexp.MustCompile(`\s*"\s*`)
	breakRunRe    = regexp.MustCompile(`\n{3,}`)
	numberedRe    = regexp.MustCompile(`^\d+\.`)
)

// sectionIndicators open a new logical section at a sentence boundary.
var sectionIndicators = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.`),
	regexp.MustCompile(`^[A-Z][a-z]*:`),
	regexp.MustCompile(`(?i)^Here's`),
	regexp.MustCompile(`(?i)^Let me`),
	regexp.MustCompile(`(?i)^Now,`),
	regexp.MustCompile(`(?i)^First,`),
	regexp.MustCompile(`(?i)^Second,`),
	regexp.MustCompile(`(?i)^Finally,`),
	regexp.MustCompile(`(?i)^For example`),
	regexp.MustCompile(`(?i)^To understand`),
	regexp.MustCompile(`(?i)^Think of it`),
}

// Normalizer applies the response pipeline. The random source drives only
// the personality choice points; fix the seed to fix the output.
type Normalizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New(seed int64) *Normalizer {
	return &Normalizer{rng: rand.New(rand.NewSource(seed))}
}

// Greeting returns a conversation starter.
func (n *Normalizer) Greeting() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return ConversationStarters[n.rng.Intn(len(ConversationStarters))]
}

// Encouragement returns one encouraging phrase for canned replies built
// outside the main pipeline.
func (n *Normalizer) Encouragement() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return encouragingPhrases[n.rng.Intn(len(encouragingPhrases))]
}

// Normalize runs the full pipeline over a raw answer.
func (n *Normalizer) Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	// All random draws happen up front in a fixed order so that a second
	// pass over already-normalized text consumes the identical sequence
	// and the guards below turn it into a no-op.
	n.mu.Lock()
	addEncouragement := n.rng.Intn(2) == 0
	encouragement := encouragingPhrases[n.rng.Intn(len(encouragingPhrases))]
	transition := transitionPhrases[n.rng.Intn(len(transitionPhrases))]
	empathy := empathyResponses[n.rng.Intn(len(empathyResponses))]
	n.mu.Unlock()

	text = fixPunctuation(text)
	text = restructure(text)
	text = rewriteTone(text)

	if len(text) > 100 && strings.Contains(strings.ToLower(text), "explain") &&
		!containsAny(text, transitionPhrases) {
		text = strings.Replace(text, "Let me explain", transition, 1)
	}

	// The two openers stack: empathy is prepended after encouragement so
	// it ends up first. Each guard matches only its own phrase table, so
	// one opener never suppresses the other.
	if addEncouragement && !opensWith(text, encouragingPhrases) {
		text = encouragement + "\n\n" + text
	}

	if containsDifficultyWord(text) && !opensWith(text, empathyResponses) {
		text = empathy + "\n\n" + text
	}

	return finalCleanup(text)
}

// fixPunctuation repairs spacing and terminal punctuation without touching
// line structure.
func fixPunctuation(text string) string {
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineTrimRe.ReplaceAllString(text, "\n")
	text = sentenceGapRe.ReplaceAllString(text, "$1 $2")

	if text != "" && !strings.ContainsAny(text[len(text)-1:], ".!?") {
		text += "."
	}

	text = commaRe.ReplaceAllString(text, ", ")
	text = colonRe.ReplaceAllString(text, ": $1")
	text = quoteSquishRe.ReplaceAllString(text, `"`)

	return text
}

// restructure partitions the text into logical sections and formats each.
// Existing blank-line boundaries are respected, then sentences within a
// paragraph are regrouped at structural cues.
func restructure(text string) string {
	var sections []string
	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.Trim(paragraph, " ")
		if paragraph == "" {
			continue
		}
		// Wrapped lines inside a paragraph are one logical unit.
		flat := strings.ReplaceAll(paragraph, "\n", " ")
		sections = append(sections, splitSections(flat)...)
	}

	formatted := make([]string, 0, len(sections))
	for _, section := range sections {
		if s := formatSection(section); s != "" {
			formatted = append(formatted, s)
		}
	}
	return strings.Join(formatted, "\n\n")
}

func splitSections(text string) []string {
	var sections []string
	current := ""

	for _, sentence := range strings.Split(text, ". ") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if opensSection(sentence) && current != "" {
			sections = append(sections, current)
			current = sentence
			continue
		}

		if current == "" {
			current = sentence
		} else {
			current += ". " + sentence
		}
	}

	if current != "" {
		sections = append(sections, current)
	}
	return sections
}

func opensSection(sentence string) bool {
	for _, re := range sectionIndicators {
		if re.MatchString(sentence) {
			return true
		}
	}
	return false
}

func formatSection(section string) string {
	if section == "" {
		return ""
	}

	if !strings.ContainsAny(section[len(section)-1:], ".!?") {
		section += "."
	}

	// Already-rendered sections pass through untouched.
	if strings.HasPrefix(section, exampleMarker) || strings.Contains(section, "**") {
		return section
	}

	if numberedRe.MatchString(section) {
		return numberedIndent + section
	}

	if parts := strings.SplitN(section, ":", 2); len(parts) == 2 && strings.Count(section, ":") == 1 {
		topic := strings.TrimSpace(parts[0])
		explanation := strings.TrimSpace(parts[1])
		return "**" + topic + ":** " + explanation
	}

	lower := strings.ToLower(section)
	if strings.HasPrefix(lower, "for example") || strings.HasPrefix(lower, "think of it") ||
		strings.HasPrefix(lower, "imagine") {
		return exampleMarker + section
	}

	return formatParagraph(section)
}

// formatParagraph re-wraps long plain paragraphs into sentence-grouped
// lines so walls of text stay readable.
func formatParagraph(section string) string {
	if len(section) <= longParagraphLen {
		return section
	}

	trimmed := strings.TrimSuffix(section, ".")
	sentences := strings.Split(trimmed, ". ")
	if len(sentences) <= 2 {
		return section
	}

	var lines []string
	var group []string
	groupLen := 0

	for _, sentence := range sentences {
		if groupLen+len(sentence) > wrapLineLen && len(group) > 0 {
			lines = append(lines, strings.Join(group, ". ")+".")
			group = []string{sentence}
			groupLen = len(sentence)
			continue
		}
		group = append(group, sentence)
		groupLen += len(sentence)
	}
	if len(group) > 0 {
		lines = append(lines, strings.Join(group, ". ")+".")
	}

	return strings.Join(lines, "\n")
}

// rewriteTone applies the formal-to-casual substitutions verbatim.
func rewriteTone(text string) string {
	for _, r := range toneRewrites {
		text = strings.ReplaceAll(text, r.formal, r.casual)
	}
	return text
}

// opensWith reports whether one of the first two paragraphs is exactly a
// phrase from the given table. Two paragraphs are checked because the
// stacked openers put empathy ahead of encouragement.
func opensWith(text string, phrases []string) bool {
	paragraphs := strings.SplitN(text, "\n\n", 3)
	limit := len(paragraphs)
	if limit > 2 {
		limit = 2
	}
	for i := 0; i < limit; i++ {
		for _, p := range phrases {
			if paragraphs[i] == p {
				return true
			}
		}
	}
	return false
}

func containsDifficultyWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range difficultyWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func finalCleanup(text string) string {
	text = breakRunRe.ReplaceAllString(text, "\n\n")

	paragraphs := strings.Split(text, "\n\n")
	cleaned := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimRight(p, " \n")
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p[len(p)-1:], ".!?:") {
			p += "."
		}
		cleaned = append(cleaned, p)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n\n"))
}
