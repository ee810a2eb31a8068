// Package flow provides the guided-session state machine: prompt
// sequencing, per-session serialization, and exercise generation at
// completion.
package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mindhaven/mindhaven/internal/models"
)

// SessionState is the mutable runtime state of one active session. It is
// owned by the Manager and mutated only under the session's lock.
type SessionState struct {
	Session       *models.Session
	CurrentNodeID string
	StepsTaken    int
	Progress      int
}

// Turn is an Advancer's contribution to one advance call: the new assistant
// text (empty when the session ends without a closing line), the updated
// progress, and whether the session is finished.
type Turn struct {
	AssistantText string
	Progress      int
	Done          bool
}

// Advancer produces the next assistant turn for an active session.
// Implementations must not mutate state when they return an error.
type Advancer interface {
	// Start returns the opening assistant text and initial node position.
	Start(ctx context.Context) (assistantText, nodeID string, err error)
	// Advance consumes one user turn and produces the next Turn. The
	// userText is not yet part of state.Session.Messages; the Manager
	// appends both turns only after Advance succeeds, so a failed advance
	// leaves the session unchanged.
	Advance(ctx context.Context, state *SessionState, userText string) (Turn, error)
}

var registry = make(map[models.FlowType]Advancer)

// Register associates a FlowType with an Advancer implementation.
func Register(ft models.FlowType, adv Advancer) {
	registry[ft] = adv
}

// Get retrieves the Advancer for a given FlowType.
func Get(ft models.FlowType) (Advancer, bool) {
	adv, ok := registry[ft]
	return adv, ok
}

// Resolve returns the registered Advancer for a flow type or an error.
func Resolve(ft models.FlowType) (Advancer, error) {
	if adv, ok := Get(ft); ok {
		return adv, nil
	}
	slog.Error("flow.Resolve: no advancer registered", "flowType", ft)
	return nil, fmt.Errorf("%w: %s", models.ErrInvalidFlowType, ft)
}

func init() {
	Register(models.FlowTypeStatic, NewStaticAdvancer(DefaultGraph()))
}
