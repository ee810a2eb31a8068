package flow

import (
	"fmt"

	"github.com/mindhaven/mindhaven/internal/models"
)

// Graph is the immutable authored prompt script: an ordered node slice plus
// a lookup-by-identifier map. The first node is the designated entry node.
// Read-only after construction and safe to share across goroutines.
type Graph struct {
	nodes []models.PromptNode
	byID  map[string]models.PromptNode
	steps int
}

// NewGraph validates and builds a prompt graph. It requires a non-empty
// node set with unique identifiers, resolvable follow-ups, exactly one
// entry node (the first, referenced by no follow-up), at least one terminal
// node, and no cycles reachable from the entry.
func NewGraph(nodes []models.PromptNode) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", models.ErrInvalidPromptGraph)
	}

	byID := make(map[string]models.PromptNode, len(nodes))
	referenced := make(map[string]bool)
	hasTerminal := false
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node with empty id", models.ErrInvalidPromptGraph)
		}
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", models.ErrInvalidPromptGraph, n.ID)
		}
		byID[n.ID] = n
		if n.Terminal() {
			hasTerminal = true
		} else {
			referenced[*n.FollowUp] = true
		}
	}
	if !hasTerminal {
		return nil, fmt.Errorf("%w: no terminal node", models.ErrInvalidPromptGraph)
	}
	for _, n := range nodes {
		if !n.Terminal() {
			if _, ok := byID[*n.FollowUp]; !ok {
				return nil, fmt.Errorf("%w: node %q references unknown follow-up %q", models.ErrInvalidPromptGraph, n.ID, *n.FollowUp)
			}
		}
	}

	entry := nodes[0]
	if referenced[entry.ID] {
		return nil, fmt.Errorf("%w: entry node %q is referenced by a follow-up", models.ErrInvalidPromptGraph, entry.ID)
	}
	for _, n := range nodes[1:] {
		if !referenced[n.ID] {
			return nil, fmt.Errorf("%w: unreachable extra entry node %q", models.ErrInvalidPromptGraph, n.ID)
		}
	}

	// Walk from the entry to count steps and reject cycles.
	steps := 0
	visited := map[string]bool{entry.ID: true}
	for cur := entry; !cur.Terminal(); {
		next := byID[*cur.FollowUp]
		if visited[next.ID] {
			return nil, fmt.Errorf("%w: cycle at node %q", models.ErrInvalidPromptGraph, next.ID)
		}
		visited[next.ID] = true
		steps++
		cur = next
	}

	return &Graph{nodes: nodes, byID: byID, steps: steps}, nil
}

// Entry returns the graph's entry node.
func (g *Graph) Entry() models.PromptNode {
	return g.nodes[0]
}

// Node looks up a node by identifier.
func (g *Graph) Node(id string) (models.PromptNode, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// TotalSteps returns the number of advances from entry to terminal, used
// as the progress denominator.
func (g *Graph) TotalSteps() int {
	return g.steps
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

func followUp(id string) *string { return &id }

// DefaultGraph returns the authored guided-session script.
func DefaultGraph() *Graph {
	g, err := NewGraph([]models.PromptNode{
		{
			ID:       "intro",
			Content:  "Welcome to your IFS therapy session. I'm here to help you explore your inner family system. How are you feeling today?",
			FollowUp: followUp("identify-parts"),
		},
		{
			ID:       "identify-parts",
			Content:  "In IFS therapy, we recognize different parts of ourselves. These might include protectors, exiles, and the core Self. Can you identify any parts that feel active right now?",
			FollowUp: followUp("parts-exploration"),
		},
		{
			ID:       "parts-exploration",
			Content:  "Tell me more about this part. What does it feel like? Where do you feel it in your body?",
			FollowUp: followUp("parts-purpose"),
		},
		{
			ID:       "parts-purpose",
			Content:  "What do you think this part is trying to do for you? How might it be trying to protect you?",
			FollowUp: followUp("self-compassion"),
		},
		{
			ID:       "self-compassion",
			Content:  "Can you approach this part with curiosity and compassion? What might it need from you right now?",
			FollowUp: followUp("unburdening"),
		},
		{
			ID:       "unburdening",
			Content:  "If this part could release its burden, what would that feel like? Can you imagine giving it what it needs?",
			FollowUp: followUp("integration"),
		},
		{
			ID:       "integration",
			Content:  "How do you feel toward this part now? Has your relationship with it shifted in any way?",
			FollowUp: followUp("session-reflection"),
		},
		{
			ID:       "session-reflection",
			Content:  "We're nearing the end of our session. What insights have you gained about your inner system today?",
			FollowUp: followUp("session-close"),
		},
		{
			ID:      "session-close",
			Content: "Thank you for exploring your inner world today. I'll generate some personalized exercises based on our conversation to help you continue this work.",
		},
	})
	if err != nil {
		// The built-in script is authored; failing to validate is a bug.
		panic(err)
	}
	return g
}
