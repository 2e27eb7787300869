package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmpty(t *testing.T) {
	n := New(1)
	assert.Equal(t, "", n.Normalize(""))
	assert.Equal(t, "", n.Normalize("   \n\t  "))
}

func TestFixPunctuation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"space runs", "too   many    spaces", "too many spaces."},
		{"sentence gap", "First point.Second point.", "First point. Second point."},
		{"missing terminal", "no period here", "no period here."},
		{"comma spacing", "a ,b ,  c", "a, b, c."},
		{"colon spacing", "Time : 4 hours.", "Time: 4 hours."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixPunctuation(tt.in))
		})
	}
}

func TestFixPunctuationKeepsBoldLabels(t *testing.T) {
	in := "**Photosynthesis:** how plants make food."
	assert.Equal(t, in, fixPunctuation(in))
}

func TestToneRewrites(t *testing.T) {
	n := New(1)
	out := n.Normalize("In conclusion, plants need light. Furthermore, they need water.")
	assert.NotContains(t, out, "In conclusion")
	assert.NotContains(t, out, "Furthermore")
	assert.Contains(t, out, "So basically")
	assert.Contains(t, out, "Also")
}

func TestNumberedSectionFormatting(t *testing.T) {
	out := formatSection("1. Review the basics")
	assert.Equal(t, "   1. Review the basics.", out)
}

func TestDefinitionFormatting(t *testing.T) {
	out := formatSection("Photosynthesis: the process plants use to make food")
	assert.Equal(t, "**Photosynthesis:** the process plants use to make food.", out)

	// Already-rendered definitions are left alone.
	assert.Equal(t, out, formatSection(out))
}

func TestExampleFormatting(t *testing.T) {
	out := formatSection("Think of it like a factory inside the leaf")
	require.True(t, strings.HasPrefix(out, exampleMarker))
	assert.Equal(t, out, formatSection(out))
}

func TestLongParagraphWrapping(t *testing.T) {
	sentence := "this clause talks about one aspect of the topic in some detail"
	paragraph := strings.Repeat(sentence+". ", 6)

	out := formatParagraph(strings.TrimSpace(paragraph))
	require.Contains(t, out, "\n")
	for _, line := range strings.Split(out, "\n") {
		assert.True(t, strings.HasSuffix(line, "."))
	}
}

func TestSectionSplitOnIndicators(t *testing.T) {
	text := "Plants need sunlight. For example, a sunflower tracks the sun. Finally, water matters too."
	sections := splitSections(text)
	require.Len(t, sections, 3)
	assert.Equal(t, "Plants need sunlight", sections[0])
	assert.True(t, strings.HasPrefix(sections[1], "For example"))
	assert.True(t, strings.HasPrefix(sections[2], "Finally"))
}

func TestEmpathyOpenerAlwaysLeads(t *testing.T) {
	input := "This topic is confusing for many students but it gets easier with practice and some patience over time."

	for seed := int64(0); seed < 6; seed++ {
		out := New(seed).Normalize(input)
		first := strings.SplitN(out, "\n\n", 2)[0]
		assert.Contains(t, empathyResponses, first, "seed %d", seed)
	}
}

func TestOpenersStack(t *testing.T) {
	input := "This topic is confusing for many students but it gets easier with practice and some patience over time."

	stacked := false
	for seed := int64(0); seed < 6; seed++ {
		out := New(seed).Normalize(input)
		paragraphs := strings.Split(out, "\n\n")
		require.NotEmpty(t, paragraphs)
		assert.Contains(t, empathyResponses, paragraphs[0], "seed %d", seed)

		if len(paragraphs) > 1 {
			for _, p := range encouragingPhrases {
				if paragraphs[1] == p {
					stacked = true
					// Stacked openers survive a second pass intact.
					assert.Equal(t, out, New(seed).Normalize(out), "seed %d", seed)
				}
			}
		}
	}
	require.True(t, stacked, "no seed in range added both openers")
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := "Great news!Photosynthesis is how plants make food. " +
		"Photosynthesis: light plus water plus carbon dioxide. " +
		"For example, a leaf in sunlight. " +
		"1. Light reactions happen first. " +
		"2. The Calvin cycle follows. " +
		"This can be confusing at first,but it clicks with practice"

	for seed := int64(0); seed < 5; seed++ {
		once := New(seed).Normalize(raw)
		twice := New(seed).Normalize(once)
		assert.Equal(t, once, twice, "seed %d", seed)
	}
}

func TestGreetingComesFromStarters(t *testing.T) {
	n := New(3)
	g := n.Greeting()
	assert.Contains(t, ConversationStarters, g)
}
