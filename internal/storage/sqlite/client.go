// Package sqlite persists the learning log. Conversation memory itself is
// in-memory and bounded; this store is the durable record of every answered
// question for later review.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/storage/models"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS learning_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		session_id TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT,
		ai_service TEXT,
		response_type TEXT,
		confidence REAL,
		document_title TEXT,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON learning_sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_session ON learning_sessions(session_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON learning_sessions(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertLearningSession(record *models.LearningSession) error {
	query := `
		INSERT INTO learning_sessions (id, user_id, session_id, question, answer, ai_service,
			response_type, confidence, document_title, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.SessionID,
		record.Question,
		record.Answer,
		record.AIService,
		record.ResponseType,
		record.Confidence,
		record.DocumentTitle,
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert learning session: %w", err)
	}

	logger.Debug("Learning session recorded",
		zap.String("session_id", record.SessionID),
		zap.String("ai_service", record.AIService),
		zap.Float64("confidence", record.Confidence),
	)

	return nil
}

func (c *Client) GetLearningHistory(userID string, limit int) ([]models.LearningSession, error) {
	query := `
		SELECT id, user_id, session_id, question, answer, ai_service, response_type,
			confidence, document_title, latency_ms, created_at
		FROM learning_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get learning history: %w", err)
	}
	defer rows.Close()

	var records []models.LearningSession
	for rows.Next() {
		var r models.LearningSession
		var createdAt int64

		err := rows.Scan(&r.ID, &r.UserID, &r.SessionID, &r.Question, &r.Answer,
			&r.AIService, &r.ResponseType, &r.Confidence, &r.DocumentTitle,
			&r.LatencyMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, nil
}

func (c *Client) RecentLearningSessions(limit int) ([]models.LearningSession, error) {
	query := `
		SELECT id, user_id, session_id, question, answer, ai_service, response_type,
			confidence, document_title, latency_ms, created_at
		FROM learning_sessions
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent sessions: %w", err)
	}
	defer rows.Close()

	var records []models.LearningSession
	for rows.Next() {
		var r models.LearningSession
		var createdAt int64

		err := rows.Scan(&r.ID, &r.UserID, &r.SessionID, &r.Question, &r.Answer,
			&r.AIService, &r.ResponseType, &r.Confidence, &r.DocumentTitle,
			&r.LatencyMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, nil
}
