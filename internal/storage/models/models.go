// Package models defines the persisted records of the learning log.
package models

import "time"

// LearningSession is one persisted question/answer exchange, the durable
// audit trail behind the in-memory conversation history.
type LearningSession struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SessionID     string    `json:"session_id"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	AIService     string    `json:"ai_service"`
	ResponseType  string    `json:"response_type"`
	Confidence    float64   `json:"confidence"`
	DocumentTitle string    `json:"document_title"`
	LatencyMS     int64     `json:"latency_ms"`
	CreatedAt     time.Time `json:"created_at"`
}
