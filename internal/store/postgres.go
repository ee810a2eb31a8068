// Package store provides storage backends for MindHaven.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/mindhaven/mindhaven/internal/models"
)

const postgresMigrations = `
CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    started_at TIMESTAMPTZ NOT NULL,
    messages   TEXT NOT NULL DEFAULT '[]',
    exercises  TEXT NOT NULL DEFAULT '[]',
    completed  BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS emergency_contacts (
    user_id TEXT NOT NULL,
    email   TEXT NOT NULL,
    UNIQUE (user_id, email)
);
CREATE INDEX IF NOT EXISTS idx_emergency_contacts_user ON emergency_contacts (user_id);
`

// PostgresStore persists sessions and contacts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// SaveSession persists a session, replacing any previous version.
func (s *PostgresStore) SaveSession(session models.Session) error {
	messages, exercises, err := encodeSessionColumns(session)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, started_at, messages, exercises, completed) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET messages = EXCLUDED.messages, exercises = EXCLUDED.exercises, completed = EXCLUDED.completed`,
		session.ID, session.StartedAt, messages, exercises, session.Completed)
	if err != nil {
		slog.Error("PostgresStore SaveSession failed", "error", err, "sessionID", session.ID)
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
func (s *PostgresStore) GetSession(id string) (*models.Session, error) {
	row := s.db.QueryRow(`SELECT id, started_at, messages, exercises, completed FROM sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetSession failed", "error", err, "sessionID", id)
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return session, nil
}

// ListSessions returns all sessions, most recently started first.
func (s *PostgresStore) ListSessions() ([]models.Session, error) {
	rows, err := s.db.Query(`SELECT id, started_at, messages, exercises, completed FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		slog.Error("PostgresStore ListSessions query failed", "error", err)
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return sessions, nil
}

// UpdateExerciseCompletion sets the completion flag of one exercise.
func (s *PostgresStore) UpdateExerciseCompletion(sessionID, exerciseID string, completed bool) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return models.ErrSessionNotFound
	}
	if !setExerciseCompleted(session, exerciseID, completed) {
		return models.ErrExerciseNotFound
	}

	exercises, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("failed to encode exercises: %w", err)
	}
	_, err = s.db.Exec(`UPDATE sessions SET exercises = $1 WHERE id = $2`, string(exercises), sessionID)
	if err != nil {
		slog.Error("PostgresStore UpdateExerciseCompletion failed", "error", err, "sessionID", sessionID, "exerciseID", exerciseID)
		return fmt.Errorf("failed to update exercise %s: %w", exerciseID, err)
	}
	return nil
}

// GetEmergencyContacts returns the registered addresses for a user.
func (s *PostgresStore) GetEmergencyContacts(userID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT email FROM emergency_contacts WHERE user_id = $1`, userID)
	if err != nil {
		slog.Error("PostgresStore GetEmergencyContacts query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query emergency contacts: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact rows: %w", err)
	}
	return emails, nil
}

// AddEmergencyContact registers an address for a user. Duplicates are ignored.
func (s *PostgresStore) AddEmergencyContact(userID, email string) error {
	_, err := s.db.Exec(`INSERT INTO emergency_contacts (user_id, email) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, email)
	if err != nil {
		slog.Error("PostgresStore AddEmergencyContact failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to add emergency contact: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
