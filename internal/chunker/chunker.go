// Package chunker splits raw document text into bounded retrieval units.
package chunker

import "strings"

// DefaultMaxChunkSize is the soft cap on a chunk's character length.
const DefaultMaxChunkSize = 500

// Split greedily accumulates whitespace-delimited words until the joined
// buffer would exceed maxSize, then emits the buffer and starts the next
// chunk with the overflowing word. Boundaries always fall on word breaks;
// a single word longer than maxSize is emitted whole as its own chunk.
func Split(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	joinedLen := 0

	for _, word := range words {
		next := joinedLen + len(word)
		if len(current) > 0 {
			next++ // joining space
		}

		if next > maxSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			joinedLen = len(word)
			continue
		}

		current = append(current, word)
		joinedLen = next
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
