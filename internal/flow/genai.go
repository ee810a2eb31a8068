package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"

	"github.com/mindhaven/mindhaven/internal/genai"
	"github.com/mindhaven/mindhaven/internal/models"
)

// DefaultProgressStep is the fixed per-turn progress increment for the
// externally-driven variant. The resulting turn ceiling is a deliberately
// crude termination heuristic, not a content-aware one.
const DefaultProgressStep = 10

const defaultSystemPrompt = "You are a gentle guide helping the user explore " +
	"their inner parts with curiosity and compassion. Ask one question at a " +
	"time, mirror the user's language, and never give medical advice."

// GenAIAdvancer produces assistant turns with the language-model
// collaborator, replaying the full transcript as context on every turn.
type GenAIAdvancer struct {
	client       genai.ClientInterface
	systemPrompt string
	progressStep int
}

// NewGenAIAdvancer creates an externally-driven advancer. A progressStep
// outside (0, 100] falls back to DefaultProgressStep.
func NewGenAIAdvancer(client genai.ClientInterface, systemPrompt string, progressStep int) *GenAIAdvancer {
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if progressStep <= 0 || progressStep > models.SessionProgressCeiling {
		progressStep = DefaultProgressStep
	}
	return &GenAIAdvancer{client: client, systemPrompt: systemPrompt, progressStep: progressStep}
}

// Start asks the model for an opening turn. There is no graph position in
// this variant, so the node identifier is empty.
func (a *GenAIAdvancer) Start(ctx context.Context) (string, string, error) {
	text, err := a.client.GeneratePrompt(ctx, a.systemPrompt, "Begin the session by welcoming the user and asking how they are feeling today.")
	if err != nil {
		slog.Error("GenAIAdvancer.Start: opening generation failed", "error", err)
		return "", "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}
	return text, "", nil
}

// Advance replays the transcript plus the new user turn to the model.
// Progress increments by the fixed step; reaching the ceiling forces
// completion. On generation failure the session state is untouched and
// the error wraps models.ErrGenerationFailed for the caller to retry.
func (a *GenAIAdvancer) Advance(ctx context.Context, state *SessionState, userText string) (Turn, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(state.Session.Messages)+2)
	messages = append(messages, openai.SystemMessage(a.systemPrompt))
	for _, msg := range state.Session.Messages {
		switch msg.Role {
		case models.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userText))

	text, err := a.client.GenerateWithMessages(ctx, messages)
	if err != nil {
		slog.Error("GenAIAdvancer.Advance: generation failed", "sessionID", state.Session.ID, "error", err)
		return Turn{}, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	state.StepsTaken++
	progress := state.Progress + a.progressStep
	if progress >= models.SessionProgressCeiling {
		progress = models.SessionProgressCeiling
	}
	state.Progress = progress

	done := progress >= models.SessionProgressCeiling
	slog.Debug("GenAIAdvancer.Advance: advanced", "sessionID", state.Session.ID, "progress", progress, "done", done)
	return Turn{AssistantText: text, Progress: progress, Done: done}, nil
}
