package store

import (
	"errors"
	"testing"
	"time"

	"github.com/mindhaven/mindhaven/internal/models"
)

func testSession(id string, startedAt time.Time) models.Session {
	return models.Session{
		ID:        id,
		StartedAt: startedAt,
		Completed: true,
		Messages: []models.Message{
			{ID: "m_1", Role: models.RoleAssistant, Content: "Welcome.", Timestamp: startedAt},
			{ID: "m_2", Role: models.RoleUser, Content: "I am here.", Timestamp: startedAt},
		},
		Exercises: []models.Exercise{
			{
				ID:           "ex_1",
				Title:        "Checking In",
				Description:  "A short reflection",
				Category:     models.CategoryReflection,
				Instructions: []string{"Sit quietly", "Notice your breath"},
			},
		},
	}
}

func TestInMemoryStoreGetSessionAbsent(t *testing.T) {
	st := NewInMemoryStore()

	session, err := st.GetSession("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Error("expected nil for an absent session")
	}
}

func TestInMemoryStoreSaveAndGet(t *testing.T) {
	st := NewInMemoryStore()
	want := testSession("s-1", time.Now())

	if err := st.SaveSession(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := st.GetSession("s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("session not found after save")
	}
	if got.ID != want.ID || !got.Completed {
		t.Errorf("got session %+v", got)
	}
	if len(got.Messages) != 2 || len(got.Exercises) != 1 {
		t.Errorf("round-trip lost data: %d messages, %d exercises", len(got.Messages), len(got.Exercises))
	}
}

func TestInMemoryStoreSaveReplaces(t *testing.T) {
	st := NewInMemoryStore()
	session := testSession("s-1", time.Now())

	if err := st.SaveSession(session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Messages = append(session.Messages, models.Message{ID: "m_3", Role: models.RoleUser, Content: "more"})
	if err := st.SaveSession(session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := st.GetSession("s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Messages) != 3 {
		t.Errorf("expected replacement save, got %d messages", len(got.Messages))
	}

	sessions, err := st.ListSessions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("replacement save must not duplicate history, got %d sessions", len(sessions))
	}
}

func TestInMemoryStoreListSessionsOrder(t *testing.T) {
	st := NewInMemoryStore()
	base := time.Now()

	if err := st.SaveSession(testSession("older", base.Add(-time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.SaveSession(testSession("newer", base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sessions, err := st.ListSessions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "newer" || sessions[1].ID != "older" {
		t.Errorf("expected most recent first, got %q then %q", sessions[0].ID, sessions[1].ID)
	}
}

func TestInMemoryStoreUpdateExerciseCompletion(t *testing.T) {
	st := NewInMemoryStore()
	if err := st.SaveSession(testSession("s-1", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := st.UpdateExerciseCompletion("s-1", "ex_1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := st.GetSession("s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Exercises[0].Completed {
		t.Error("exercise completion flag not persisted")
	}

	if err := st.UpdateExerciseCompletion("missing", "ex_1", true); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
	if err := st.UpdateExerciseCompletion("s-1", "ex_missing", true); !errors.Is(err, models.ErrExerciseNotFound) {
		t.Errorf("error = %v, want ErrExerciseNotFound", err)
	}
}

func TestInMemoryStoreEmergencyContacts(t *testing.T) {
	st := NewInMemoryStore()

	contacts, err := st.GetEmergencyContacts("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("expected empty contact list, got %v", contacts)
	}

	if err := st.AddEmergencyContact("user-1", "a@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.AddEmergencyContact("user-1", "b@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Duplicate registration is a no-op.
	if err := st.AddEmergencyContact("user-1", "a@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contacts, err = st.GetEmergencyContacts("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 {
		t.Errorf("expected 2 contacts, got %v", contacts)
	}

	other, err := st.GetEmergencyContacts("user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("contacts leaked across users: %v", other)
	}
}

func TestInMemoryStoreCloneIsolation(t *testing.T) {
	st := NewInMemoryStore()
	if err := st.SaveSession(testSession("s-1", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := st.GetSession("s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got.Messages[0].Content = "tampered"
	got.Exercises[0].Instructions[0] = "tampered"

	fresh, err := st.GetSession("s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Messages[0].Content == "tampered" || fresh.Exercises[0].Instructions[0] == "tampered" {
		t.Error("mutating a returned session must not affect stored state")
	}
}
