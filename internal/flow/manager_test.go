package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/mindhaven/mindhaven/internal/exercise"
	"github.com/mindhaven/mindhaven/internal/models"
	"github.com/mindhaven/mindhaven/internal/parts"
	"github.com/mindhaven/mindhaven/internal/store"
)

func newTestManager() (*Manager, *store.InMemoryStore) {
	st := store.NewInMemoryStore()
	m := NewManager(
		NewStaticAdvancer(DefaultGraph()),
		parts.NewClassifier(models.SchemeIFS),
		exercise.NewSelector(models.SchemeIFS),
		st,
	)
	return m, st
}

// driveToCompletion advances a fresh session until it completes and returns
// its ID.
func driveToCompletion(t *testing.T, m *Manager) string {
	t.Helper()
	ctx := context.Background()

	session, err := m.StartSession(ctx)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	for i := 0; i < DefaultGraph().Len()+1; i++ {
		result, err := m.AdvanceSession(ctx, session.ID, "I want to protect myself")
		if err != nil {
			t.Fatalf("turn %d: unexpected error: %v", i+1, err)
		}
		if result.Completed {
			return session.ID
		}
	}
	t.Fatal("session never completed")
	return ""
}

func TestStartSession(t *testing.T) {
	m, _ := newTestManager()

	session, err := m.StartSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID == "" {
		t.Error("expected a session ID")
	}
	if session.Completed {
		t.Error("new session must not be completed")
	}
	if len(session.Messages) != 1 {
		t.Fatalf("expected 1 opening message, got %d", len(session.Messages))
	}
	if session.Messages[0].Role != models.RoleAssistant {
		t.Errorf("opening message role = %q, want assistant", session.Messages[0].Role)
	}
	if session.Messages[0].Content != DefaultGraph().Entry().Content {
		t.Error("opening message must carry the entry prompt")
	}
}

func TestStartSessionRejectsSecondActive(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if _, err := m.StartSession(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.StartSession(ctx); !errors.Is(err, models.ErrSessionActive) {
		t.Errorf("second start error = %v, want ErrSessionActive", err)
	}
}

func TestAdvanceSessionValidation(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	session, err := m.StartSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		userText  string
		wantErr   error
	}{
		{name: "empty text", sessionID: session.ID, userText: "", wantErr: models.ErrEmptyUserText},
		{name: "oversized text", sessionID: session.ID, userText: string(make([]byte, models.MaxUserTextLength+1)), wantErr: models.ErrUserTextTooLong},
		{name: "unknown session", sessionID: "nope", userText: "hello", wantErr: models.ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AdvanceSession(ctx, tt.sessionID, tt.userText)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAdvanceSessionAppendsBothTurns(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	session, err := m.StartSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := m.AdvanceSession(ctx, session.ID, "feeling tense today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Completed {
		t.Error("first advance must not complete the session")
	}
	if result.AssistantMessage.Content == "" {
		t.Error("expected an assistant reply")
	}

	snapshot, err := m.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Messages) != 3 {
		t.Fatalf("expected opening + user + assistant messages, got %d", len(snapshot.Messages))
	}
	if snapshot.Messages[1].Role != models.RoleUser || snapshot.Messages[1].Content != "feeling tense today" {
		t.Error("user turn not recorded in order")
	}
	if snapshot.Messages[2].Role != models.RoleAssistant {
		t.Error("assistant turn not recorded after user turn")
	}
}

func TestSessionCompletionAttachesExercisesAndPersists(t *testing.T) {
	m, st := newTestManager()
	sessionID := driveToCompletion(t, m)

	persisted, err := st.GetSession(sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persisted == nil {
		t.Fatal("completed session not persisted")
	}
	if !persisted.Completed {
		t.Error("persisted session must be completed")
	}
	if len(persisted.Exercises) == 0 {
		t.Error("completed session must carry at least one exercise")
	}
	for _, ex := range persisted.Exercises {
		if ex.Completed {
			t.Errorf("exercise %q must start incomplete", ex.ID)
		}
	}

	// The active slot is free again.
	if _, err := m.StartSession(context.Background()); err != nil {
		t.Errorf("expected a new session to start after completion, got %v", err)
	}
}

func TestAdvanceCompletedSessionRejected(t *testing.T) {
	m, _ := newTestManager()
	sessionID := driveToCompletion(t, m)

	_, err := m.AdvanceSession(context.Background(), sessionID, "one more thing")
	if !errors.Is(err, models.ErrSessionCompleted) {
		t.Errorf("error = %v, want ErrSessionCompleted", err)
	}
}

func TestGetSessionCompleted(t *testing.T) {
	m, _ := newTestManager()
	sessionID := driveToCompletion(t, m)

	session, err := m.GetSession(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.Completed {
		t.Error("expected the completed session")
	}

	if _, err := m.GetSession(context.Background(), "missing"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestToggleExerciseCompletion(t *testing.T) {
	m, _ := newTestManager()
	sessionID := driveToCompletion(t, m)
	ctx := context.Background()

	exercises, err := m.GetGeneratedExercises(ctx, sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("expected exercises on the completed session")
	}
	exerciseID := exercises[0].ID

	completed, err := m.ToggleExerciseCompletion(ctx, sessionID, exerciseID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !completed {
		t.Error("first toggle must mark the exercise completed")
	}

	completed, err = m.ToggleExerciseCompletion(ctx, sessionID, exerciseID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed {
		t.Error("second toggle must mark the exercise incomplete again")
	}

	if _, err := m.ToggleExerciseCompletion(ctx, sessionID, "ex_missing"); !errors.Is(err, models.ErrExerciseNotFound) {
		t.Errorf("error = %v, want ErrExerciseNotFound", err)
	}
}

func TestListCompletedSessions(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	sessions, err := m.ListCompletedSessions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty history, got %d sessions", len(sessions))
	}

	first := driveToCompletion(t, m)
	second := driveToCompletion(t, m)

	sessions, err = m.ListCompletedSessions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	seen := map[string]bool{sessions[0].ID: true, sessions[1].ID: true}
	if !seen[first] || !seen[second] {
		t.Error("history missing a completed session")
	}
}

func TestSessionSnapshotIsolation(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	session, err := m.StartSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Messages[0].Content = "tampered"

	snapshot, err := m.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Messages[0].Content == "tampered" {
		t.Error("mutating a returned session must not affect managed state")
	}
}
