package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindhaven/mindhaven/internal/exercise"
	"github.com/mindhaven/mindhaven/internal/models"
	"github.com/mindhaven/mindhaven/internal/parts"
	"github.com/mindhaven/mindhaven/internal/store"
	"github.com/mindhaven/mindhaven/internal/util"
)

// Manager owns the single active session and the completed-session
// history. Turns are strictly sequential: a per-session mutex serializes
// Advance so no two advances are in flight for the same session.
type Manager struct {
	mu         sync.Mutex
	active     *activeSession
	advancer   Advancer
	classifier *parts.Classifier
	selector   *exercise.Selector
	store      store.Store
}

type activeSession struct {
	mu    sync.Mutex
	state *SessionState
}

// NewManager creates a session manager.
func NewManager(advancer Advancer, classifier *parts.Classifier, selector *exercise.Selector, st store.Store) *Manager {
	slog.Debug("flow.NewManager: creating session manager", "scheme", classifier.Scheme())
	return &Manager{
		advancer:   advancer,
		classifier: classifier,
		selector:   selector,
		store:      st,
	}
}

// StartSession begins a new guided session, seeded with the opening
// assistant turn at progress 0. At most one session may be active per
// process; starting while one is active returns ErrSessionActive.
func (m *Manager) StartSession(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		slog.Warn("Manager.StartSession: session already active", "sessionID", m.active.state.Session.ID)
		return nil, models.ErrSessionActive
	}

	openingText, nodeID, err := m.advancer.Start(ctx)
	if err != nil {
		slog.Error("Manager.StartSession: advancer start failed", "error", err)
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Messages: []models.Message{{
			ID:        util.GenerateMessageID(),
			Role:      models.RoleAssistant,
			Content:   openingText,
			Timestamp: time.Now(),
		}},
	}
	m.active = &activeSession{state: &SessionState{
		Session:       session,
		CurrentNodeID: nodeID,
	}}

	slog.Info("Manager.StartSession: session started", "sessionID", session.ID)
	snapshot := cloneSession(*session)
	return &snapshot, nil
}

// AdvanceSession consumes one user turn. On success it returns the new
// assistant turn, the updated progress, and whether the session completed.
// A failed advance (e.g. generation failure) leaves the session unchanged
// so the caller may retry the same input. Advancing a completed session is
// rejected with ErrSessionCompleted and mutates nothing.
func (m *Manager) AdvanceSession(ctx context.Context, sessionID, userText string) (*models.AdvanceResult, error) {
	if err := models.ValidateUserText(userText); err != nil {
		return nil, err
	}

	entry, err := m.lookupActive(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	state := entry.state
	if state.Session.Completed {
		return nil, models.ErrSessionCompleted
	}

	turn, err := m.advancer.Advance(ctx, state, userText)
	if err != nil {
		return nil, fmt.Errorf("advance failed for session %s: %w", sessionID, err)
	}

	now := time.Now()
	state.Session.Messages = append(state.Session.Messages, models.Message{
		ID:        util.GenerateMessageID(),
		Role:      models.RoleUser,
		Content:   userText,
		Timestamp: now,
	})

	var assistantMsg models.Message
	if turn.AssistantText != "" {
		assistantMsg = models.Message{
			ID:        util.GenerateMessageID(),
			Role:      models.RoleAssistant,
			Content:   turn.AssistantText,
			Timestamp: now,
		}
		state.Session.Messages = append(state.Session.Messages, assistantMsg)
	}

	if turn.Done {
		m.completeSession(state)
	}

	return &models.AdvanceResult{
		AssistantMessage: assistantMsg,
		Progress:         turn.Progress,
		Completed:        turn.Done,
	}, nil
}

// completeSession classifies the transcript, attaches the selected
// exercises, flips the completion flag, persists the session, and retires
// it from the active slot. Called with the session lock held.
func (m *Manager) completeSession(state *SessionState) {
	session := state.Session
	labels := m.classifier.Classify(session.TranscriptText())
	session.Exercises = m.selector.Select(labels)
	session.Completed = true

	if err := m.store.SaveSession(*session); err != nil {
		// The session still completes in memory; history is best effort.
		slog.Error("Manager.completeSession: failed to persist session", "sessionID", session.ID, "error", err)
	}

	m.mu.Lock()
	if m.active != nil && m.active.state.Session.ID == session.ID {
		m.active = nil
	}
	m.mu.Unlock()

	slog.Info("Manager.completeSession: session completed", "sessionID", session.ID, "labels", len(labels), "exercises", len(session.Exercises))
}

// lookupActive resolves the active session entry for an advance, mapping a
// finished or unknown session to the right sentinel error.
func (m *Manager) lookupActive(sessionID string) (*activeSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.active.state.Session.ID == sessionID {
		return m.active, nil
	}

	persisted, err := m.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if persisted != nil && persisted.Completed {
		return nil, models.ErrSessionCompleted
	}
	return nil, models.ErrSessionNotFound
}

// GetSession returns a snapshot of a session, active or completed.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	m.mu.Lock()
	if m.active != nil && m.active.state.Session.ID == sessionID {
		snapshot := cloneSession(*m.active.state.Session)
		m.mu.Unlock()
		return &snapshot, nil
	}
	m.mu.Unlock()

	persisted, err := m.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if persisted == nil {
		return nil, models.ErrSessionNotFound
	}
	return persisted, nil
}

// GetGeneratedExercises returns the exercises attached to a session.
// Active sessions have none yet; unknown sessions are an error.
func (m *Manager) GetGeneratedExercises(ctx context.Context, sessionID string) ([]models.Exercise, error) {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Exercises, nil
}

// ToggleExerciseCompletion flips one exercise's completion flag and
// returns the new value.
func (m *Manager) ToggleExerciseCompletion(ctx context.Context, sessionID, exerciseID string) (bool, error) {
	session, err := m.store.GetSession(sessionID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, models.ErrSessionNotFound
	}

	for _, ex := range session.Exercises {
		if ex.ID == exerciseID {
			completed := !ex.Completed
			if err := m.store.UpdateExerciseCompletion(sessionID, exerciseID, completed); err != nil {
				return false, err
			}
			slog.Debug("Manager.ToggleExerciseCompletion: toggled", "sessionID", sessionID, "exerciseID", exerciseID, "completed", completed)
			return completed, nil
		}
	}
	return false, models.ErrExerciseNotFound
}

// ListCompletedSessions returns the persisted session history.
func (m *Manager) ListCompletedSessions(ctx context.Context) ([]models.Session, error) {
	return m.store.ListSessions()
}

// cloneSession copies a session so callers cannot mutate managed state.
func cloneSession(session models.Session) models.Session {
	out := session
	out.Messages = make([]models.Message, len(session.Messages))
	copy(out.Messages, session.Messages)
	if session.Exercises != nil {
		out.Exercises = make([]models.Exercise, len(session.Exercises))
		copy(out.Exercises, session.Exercises)
	}
	return out
}
