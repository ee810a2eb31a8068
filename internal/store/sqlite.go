// Package store provides storage backends for MindHaven.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mindhaven/mindhaven/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists sessions and contacts in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN (a file
// path). The parent directory is created if it does not exist.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// SaveSession persists a session, replacing any previous version.
func (s *SQLiteStore) SaveSession(session models.Session) error {
	messages, exercises, err := encodeSessionColumns(session)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, started_at, messages, exercises, completed) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET messages = excluded.messages, exercises = excluded.exercises, completed = excluded.completed`,
		session.ID, session.StartedAt, messages, exercises, session.Completed)
	if err != nil {
		slog.Error("SQLiteStore SaveSession failed", "error", err, "sessionID", session.ID)
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	slog.Debug("SQLiteStore SaveSession succeeded", "sessionID", session.ID)
	return nil
}

// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetSession(id string) (*models.Session, error) {
	row := s.db.QueryRow(`SELECT id, started_at, messages, exercises, completed FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetSession failed", "error", err, "sessionID", id)
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return session, nil
}

// ListSessions returns all sessions, most recently started first.
func (s *SQLiteStore) ListSessions() ([]models.Session, error) {
	rows, err := s.db.Query(`SELECT id, started_at, messages, exercises, completed FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		slog.Error("SQLiteStore ListSessions query failed", "error", err)
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			slog.Error("SQLiteStore ListSessions scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	slog.Debug("SQLiteStore ListSessions succeeded", "count", len(sessions))
	return sessions, nil
}

// UpdateExerciseCompletion sets the completion flag of one exercise.
func (s *SQLiteStore) UpdateExerciseCompletion(sessionID, exerciseID string, completed bool) error {
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
	_, err = s.db.Exec(`UPDATE sessions SET exercises = ? WHERE id = ?`, string(exercises), sessionID)
	if err != nil {
		slog.Error("SQLiteStore UpdateExerciseCompletion failed", "error", err, "sessionID", sessionID, "exerciseID", exerciseID)
		return fmt.Errorf("failed to update exercise %s: %w", exerciseID, err)
	}
	return nil
}

// GetEmergencyContacts returns the registered addresses for a user.
func (s *SQLiteStore) GetEmergencyContacts(userID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT email FROM emergency_contacts WHERE user_id = ?`, userID)
	if err != nil {
		slog.Error("SQLiteStore GetEmergencyContacts query failed", "error", err, "userID", userID)
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
func (s *SQLiteStore) AddEmergencyContact(userID, email string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO emergency_contacts (user_id, email) VALUES (?, ?)`, userID, email)
	if err != nil {
		slog.Error("SQLiteStore AddEmergencyContact failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to add emergency contact: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		session   models.Session
		startedAt time.Time
		messages  string
		exercises string
	)
	if err := row.Scan(&session.ID, &startedAt, &messages, &exercises, &session.Completed); err != nil {
		return nil, err
	}
	session.StartedAt = startedAt
	if err := json.Unmarshal([]byte(messages), &session.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	if err := json.Unmarshal([]byte(exercises), &session.Exercises); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}
	return &session, nil
}

func encodeSessionColumns(session models.Session) (string, string, error) {
	messages, err := json.Marshal(session.Messages)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode messages: %w", err)
	}
	exercises := []byte("[]")
	if session.Exercises != nil {
		exercises, err = json.Marshal(session.Exercises)
		if err != nil {
			return "", "", fmt.Errorf("failed to encode exercises: %w", err)
		}
	}
	return string(messages), string(exercises), nil
}

func setExerciseCompleted(session *models.Session, exerciseID string, completed bool) bool {
	for i := range session.Exercises {
		if session.Exercises[i].ID == exerciseID {
			session.Exercises[i].Completed = completed
			return true
		}
	}
	return false
}
