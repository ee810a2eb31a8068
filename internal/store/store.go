// Package store provides storage backends for MindHaven.
//
// It persists completed guided sessions and the emergency contact
// registry, with in-memory, SQLite, and PostgreSQL implementations.
package store

import (
	"sort"
	"sync"

	"github.com/mindhaven/mindhaven/internal/models"
)

// Store defines the persistence operations used by the session manager and
// the escalation orchestrator.
type Store interface {
	// SaveSession persists a completed session with its exercises.
	SaveSession(session models.Session) error

	// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
	GetSession(id string) (*models.Session, error)

	// ListSessions returns all persisted sessions, most recent first.
	ListSessions() ([]models.Session, error)

	// UpdateExerciseCompletion sets the completion flag of one exercise.
	UpdateExerciseCompletion(sessionID, exerciseID string, completed bool) error

	// GetEmergencyContacts returns the email addresses registered for a
	// user. An empty list is a valid, non-error result.
	GetEmergencyContacts(userID string) ([]string, error)

	// AddEmergencyContact registers an email address for a user.
	AddEmergencyContact(userID, email string) error

	// Close releases any underlying resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// InMemoryStore is a thread-safe in-memory store used for tests and as the
// default backend when no DSN is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	order    []string
	contacts map[string][]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]models.Session),
		contacts: make(map[string][]string),
	}
}

// SaveSession persists a session, replacing any previous version.
func (s *InMemoryStore) SaveSession(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; !exists {
		s.order = append(s.order, session.ID)
	}
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

// GetSession retrieves a session by ID.
func (s *InMemoryStore) GetSession(id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	c := cloneSession(session)
	return &c, nil
}

// ListSessions returns all sessions, most recently started first.
func (s *InMemoryStore) ListSessions() ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneSession(s.sessions[id]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

// UpdateExerciseCompletion sets the completion flag of one exercise.
func (s *InMemoryStore) UpdateExerciseCompletion(sessionID, exerciseID string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return models.ErrSessionNotFound
	}
	for i := range session.Exercises {
		if session.Exercises[i].ID == exerciseID {
			session.Exercises[i].Completed = completed
			s.sessions[sessionID] = session
			return nil
		}
	}
	return models.ErrExerciseNotFound
}

// GetEmergencyContacts returns the registered addresses for a user.
func (s *InMemoryStore) GetEmergencyContacts(userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contacts := s.contacts[userID]
	out := make([]string, len(contacts))
	copy(out, contacts)
	return out, nil
}

// AddEmergencyContact registers an address for a user. Duplicates are ignored.
func (s *InMemoryStore) AddEmergencyContact(userID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.contacts[userID] {
		if existing == email {
			return nil
		}
	}
	s.contacts[userID] = append(s.contacts[userID], email)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}

// cloneSession deep-copies the slices a caller could otherwise mutate.
func cloneSession(session models.Session) models.Session {
	out := session
	out.Messages = make([]models.Message, len(session.Messages))
	copy(out.Messages, session.Messages)
	out.Exercises = make([]models.Exercise, len(session.Exercises))
	for i, ex := range session.Exercises {
		instructions := make([]string, len(ex.Instructions))
		copy(instructions, ex.Instructions)
		ex.Instructions = instructions
		out.Exercises[i] = ex
	}
	return out
}
