// Package models defines the core data structures for MindHaven.
//
// It includes types for guided sessions, prompts, exercises, and risk
// verdicts, which are shared across modules.
package models

import (
	"errors"
	"time"
)

// MessageRole identifies the author of a session message.
type MessageRole string

const (
	// RoleUser marks a message typed by the participant.
	RoleUser MessageRole = "user"
	// RoleAssistant marks a message produced by the guide.
	RoleAssistant MessageRole = "assistant"
)

// FlowType selects how assistant turns are produced during a session.
type FlowType string

const (
	// FlowTypeStatic advances through the authored prompt graph.
	FlowTypeStatic FlowType = "static"
	// FlowTypeGenAI produces assistant turns with the language model.
	FlowTypeGenAI FlowType = "genai"
)

// Validation constants for input validation
const (
	// MaxUserTextLength defines the maximum allowed length for a user turn
	MaxUserTextLength = 4096
	// SessionProgressCeiling is the progress value at which a session is complete
	SessionProgressCeiling = 100
)

// Error variables for better error handling and testability
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionCompleted   = errors.New("session already completed")
	ErrSessionActive      = errors.New("a session is already active")
	ErrEmptyUserText      = errors.New("user text cannot be empty")
	ErrUserTextTooLong    = errors.New("user text exceeds maximum length")
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrGenerationFailed   = errors.New("language model generation failed")
	ErrInvalidPromptGraph = errors.New("invalid prompt graph")
	ErrInvalidFlowType    = errors.New("invalid flow type")
)

// IsValidFlowType checks if the given flow type is supported.
func IsValidFlowType(ft FlowType) bool {
	switch ft {
	case FlowTypeStatic, FlowTypeGenAI:
		return true
	default:
		return false
	}
}

// PromptNode is a single authored prompt in the guided-session script.
// FollowUp names the next node; nil marks a terminal node. The full node
// set is authored once and read-only at runtime.
type PromptNode struct {
	ID       string  `json:"id"`
	Content  string  `json:"content"`
	FollowUp *string `json:"follow_up,omitempty"`
}

// Terminal reports whether the node ends the session.
func (n PromptNode) Terminal() bool {
	return n.FollowUp == nil
}

// Message is one turn of a session transcript. Immutable once created and
// owned exclusively by its Session.
type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExerciseCategory tags the kind of practice an exercise asks for.
type ExerciseCategory string

const (
	CategoryJournaling    ExerciseCategory = "journaling"
	CategoryMeditation    ExerciseCategory = "meditation"
	CategoryVisualization ExerciseCategory = "visualization"
	CategoryReflection    ExerciseCategory = "reflection"
)

// IsValidExerciseCategory checks if the given category is supported.
func IsValidExerciseCategory(c ExerciseCategory) bool {
	switch c {
	case CategoryJournaling, CategoryMeditation, CategoryVisualization, CategoryReflection:
		return true
	default:
		return false
	}
}

// ExerciseTemplate is a statically authored exercise, keyed by part label
// in the catalog. Immutable.
type ExerciseTemplate struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     ExerciseCategory `json:"category"`
	Instructions []string         `json:"instructions"`
}

// Exercise is a materialized copy of a template attached to one session.
// Only the Completed flag is mutable after creation.
type Exercise struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     ExerciseCategory `json:"category"`
	Instructions []string         `json:"instructions"`
	Completed    bool             `json:"completed"`
}

// Session is one guided-conversation instance from start prompt to
// termination. Messages are appended in turn order; exercises are attached
// exactly once at completion. Completed, once true, is never reset.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	Messages  []Message  `json:"messages"`
	Exercises []Exercise `json:"exercises,omitempty"`
	Completed bool       `json:"completed"`
}

// TranscriptText concatenates all message contents for classification.
// Order is preserved but not significant to callers.
func (s *Session) TranscriptText() string {
	total := 0
	for _, m := range s.Messages {
		total += len(m.Content) + 1
	}
	buf := make([]byte, 0, total)
	for i, m := range s.Messages {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, m.Content...)
	}
	return string(buf)
}

// PartScheme selects which part-label enumeration a deployment uses.
// The two schemes are never mixed within one deployment.
type PartScheme string

const (
	// SchemeIFS uses the internal-family-systems labels.
	SchemeIFS PartScheme = "ifs"
	// SchemeEmotion uses the emotion labels.
	SchemeEmotion PartScheme = "emotion"
)

// IsValidPartScheme checks if the given scheme is supported.
func IsValidPartScheme(s PartScheme) bool {
	switch s {
	case SchemeIFS, SchemeEmotion:
		return true
	default:
		return false
	}
}

// PartLabel is a symbolic label for a facet of a conversation, used purely
// for deterministic exercise selection. Computed on demand, never persisted.
type PartLabel string

// IFS scheme labels.
const (
	PartProtector   PartLabel = "protector"
	PartExile       PartLabel = "exile"
	PartManager     PartLabel = "manager"
	PartFirefighter PartLabel = "firefighter"
	PartSelf        PartLabel = "self"
)

// Emotion scheme labels.
const (
	PartDisgust PartLabel = "disgust"
	PartHappy   PartLabel = "happy"
	PartSad     PartLabel = "sad"
	PartFear    PartLabel = "fear"
	PartAngry   PartLabel = "angry"
	PartNeutral PartLabel = "neutral"
)

// RiskVerdict is the result of evaluating one generated reply. Ephemeral:
// computed per response, not persisted.
type RiskVerdict struct {
	Flagged bool   `json:"flagged"`
	Text    string `json:"text"`
}

// AdvanceResult is returned to the caller of a session advance: the new
// assistant turn, the updated progress, and whether the session finished.
type AdvanceResult struct {
	AssistantMessage Message `json:"assistant_message"`
	Progress         int     `json:"progress"`
	Completed        bool    `json:"completed"`
}

// ValidateUserText checks a user turn before it is appended to a session.
func ValidateUserText(text string) error {
	if text == "" {
		return ErrEmptyUserText
	}
	if len(text) > MaxUserTextLength {
		return ErrUserTextTooLong
	}
	return nil
}
