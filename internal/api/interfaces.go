package api

import (
	"context"

	"github.com/mindhaven/mindhaven/internal/models"
)

// SessionManager is the guided-session surface the API consumes.
type SessionManager interface {
	StartSession(ctx context.Context) (*models.Session, error)
	AdvanceSession(ctx context.Context, sessionID, userText string) (*models.AdvanceResult, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	GetGeneratedExercises(ctx context.Context, sessionID string) ([]models.Exercise, error)
	ToggleExerciseCompletion(ctx context.Context, sessionID, exerciseID string) (bool, error)
	ListCompletedSessions(ctx context.Context) ([]models.Session, error)
}

// GenAIClient is the language-model surface the chat path consumes.
type GenAIClient interface {
	GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Escalator triggers the fire-and-forget escalation pipeline.
type Escalator interface {
	EscalateAsync(userID, message string)
}

// ContactRegistry manages the emergency contact store.
type ContactRegistry interface {
	AddEmergencyContact(userID, email string) error
	GetEmergencyContacts(userID string) ([]string, error)
}
