// Package session keeps bounded, in-memory conversational history per
// session id. History deliberately does not survive the process; the
// persistent learning log lives in storage/sqlite.
package session

import (
	"sync"
	"time"
)

// DefaultMaxTurns caps how many exchanges a session remembers.
const DefaultMaxTurns = 10

// Turn is one completed question/answer exchange.
type Turn struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"user"`
	Answer    string    `json:"ai"`
}

// Store maps session ids to their rolling history. Appends are atomic with
// respect to reads, and overflow evicts the oldest turn first.
type Store struct {
	mu       sync.Mutex
	maxTurns int
	sessions map[string][]Turn
}

func NewStore(maxTurns int) *Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Store{
		maxTurns: maxTurns,
		sessions: make(map[string][]Turn),
	}
}

// Append records one exchange for the session, creating it on first use and
// evicting the oldest turns beyond the cap.
func (s *Store) Append(sessionID, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], Turn{
		Timestamp: time.Now(),
		Question:  question,
		Answer:    answer,
	})
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.sessions[sessionID] = turns
}

// History returns a copy of the session's turns in chronological order.
func (s *Store) History(sessionID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear removes the session entirely.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Count reports how many sessions currently hold history.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
