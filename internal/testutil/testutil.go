// Package testutil provides common test utilities and helpers for MindHaven tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindhaven/mindhaven/internal/api"
	"github.com/mindhaven/mindhaven/internal/email"
	"github.com/mindhaven/mindhaven/internal/escalation"
	"github.com/mindhaven/mindhaven/internal/exercise"
	"github.com/mindhaven/mindhaven/internal/flow"
	"github.com/mindhaven/mindhaven/internal/genai"
	"github.com/mindhaven/mindhaven/internal/models"
	"github.com/mindhaven/mindhaven/internal/parts"
	"github.com/mindhaven/mindhaven/internal/store"
	"github.com/mindhaven/mindhaven/internal/voicecall"
)

// TestServerDeps exposes the mock collaborators behind a test server so
// tests can script responses and inspect side effects.
type TestServerDeps struct {
	Store   *store.InMemoryStore
	GenAI   *genai.MockClient
	Caller  *voicecall.MockClient
	Sender  *email.MockSender
	Manager *flow.Manager
}

// NewTestServer creates a test API server with in-memory dependencies.
// This centralizes the test server creation logic used across multiple test files.
func NewTestServer() (*api.Server, *TestServerDeps) {
	st := store.NewInMemoryStore()
	mockGenAI := &genai.MockClient{DefaultResponse: "test reply"}
	caller := &voicecall.MockClient{}
	sender := email.NewMockSender()

	manager := flow.NewManager(
		flow.NewStaticAdvancer(flow.DefaultGraph()),
		parts.NewClassifier(models.SchemeIFS),
		exercise.NewSelector(models.SchemeIFS),
		st,
	)
	orchestrator := escalation.NewOrchestrator(caller, sender, st, 0)

	server := api.NewServer(manager, mockGenAI, orchestrator, st, "")
	return server, &TestServerDeps{
		Store:   st,
		GenAI:   mockGenAI,
		Caller:  caller,
		Sender:  sender,
		Manager: manager,
	}
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes JSON response and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}

// CompleteSession drives a session from start through every static node
// until it completes, returning the finished session ID.
func CompleteSession(t *testing.T, manager *flow.Manager, userText string) string {
	t.Helper()
	ctx := t.Context()

	session, err := manager.StartSession(ctx)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}

	for i := 0; i < flow.DefaultGraph().Len()+1; i++ {
		result, err := manager.AdvanceSession(ctx, session.ID, userText)
		if err != nil {
			t.Fatalf("failed to advance session on turn %d: %v", i+1, err)
		}
		if result.Completed {
			return session.ID
		}
	}
	t.Fatal("session never completed")
	return ""
}

// SeedCompletedSession stores a minimal completed session with one exercise
// for handler tests that need persisted history.
func SeedCompletedSession(t *testing.T, st store.Store, sessionID string) models.Session {
	t.Helper()
	session := models.Session{
		ID:        sessionID,
		Completed: true,
		Messages: []models.Message{
			{ID: "m_1", Role: models.RoleAssistant, Content: "Welcome."},
			{ID: "m_2", Role: models.RoleUser, Content: "I want to protect myself."},
		},
		Exercises: []models.Exercise{
			{ID: "ex_1", Title: "Meet Your Protector", Description: "Notice the part that guards you.", Category: models.CategoryReflection},
		},
	}
	if err := st.SaveSession(session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return session
}

// MustMarshalJSON marshals an object to JSON and fails test on error.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}
