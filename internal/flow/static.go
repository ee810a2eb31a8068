package flow

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mindhaven/mindhaven/internal/models"
)

// StaticAdvancer walks the authored prompt graph: each user turn emits the
// successor of the current node until a terminal node closes the session.
type StaticAdvancer struct {
	graph *Graph
}

// NewStaticAdvancer creates a graph-driven advancer.
func NewStaticAdvancer(g *Graph) *StaticAdvancer {
	return &StaticAdvancer{graph: g}
}

// Start returns the entry node's text as the opening assistant turn.
func (a *StaticAdvancer) Start(ctx context.Context) (string, string, error) {
	entry := a.graph.Entry()
	return entry.Content, entry.ID, nil
}

// Advance moves the position pointer along the graph. When the current node
// declares a successor, the successor's text becomes the next assistant
// turn; reaching a terminal node completes the session in the same turn.
// Progress is round(100 * stepsTaken / totalSteps), monotonically
// non-decreasing and clamped to 100.
func (a *StaticAdvancer) Advance(ctx context.Context, state *SessionState, userText string) (Turn, error) {
	node, ok := a.graph.Node(state.CurrentNodeID)
	if !ok {
		slog.Error("StaticAdvancer.Advance: position points at unknown node", "sessionID", state.Session.ID, "nodeID", state.CurrentNodeID)
		return Turn{}, fmt.Errorf("%w: unknown current node %q", models.ErrInvalidPromptGraph, state.CurrentNodeID)
	}

	if node.Terminal() {
		// Current position has no successor: the session ends with no
		// further assistant text.
		state.Progress = models.SessionProgressCeiling
		return Turn{Progress: state.Progress, Done: true}, nil
	}

	succ, _ := a.graph.Node(*node.FollowUp)
	state.CurrentNodeID = succ.ID
	state.StepsTaken++

	progress := int(math.Round(100 * float64(state.StepsTaken) / float64(a.graph.TotalSteps())))
	if progress > models.SessionProgressCeiling {
		progress = models.SessionProgressCeiling
	}
	if progress < state.Progress {
		progress = state.Progress
	}
	state.Progress = progress

	done := succ.Terminal()
	if done {
		state.Progress = models.SessionProgressCeiling
	}
	slog.Debug("StaticAdvancer.Advance: advanced", "sessionID", state.Session.ID, "node", succ.ID, "progress", state.Progress, "done", done)
	return Turn{AssistantText: succ.Content, Progress: state.Progress, Done: done}, nil
}
