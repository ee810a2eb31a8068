// Package risk provides the deterministic risk classifier for generated
// replies. Matching is case-insensitive substring over a fixed phrase list:
// any single hit flags the text. There is no scoring and no negation
// handling; false positives are an accepted cost against missed true
// positives.
package risk

import (
	"strings"

	"github.com/mindhaven/mindhaven/internal/models"
)

// riskPhrases is the hard-coded set of phrases that flag a reply.
// Process-wide read-only; no runtime mutation path.
var riskPhrases = []string{
	"suicide",
	"kill myself",
	"end my life",
	"want to die",
	"hopeless",
	"no reason to live",
	"pain is too much",
}

// Phrases returns a copy of the configured risk phrase list.
func Phrases() []string {
	out := make([]string, len(riskPhrases))
	copy(out, riskPhrases)
	return out
}

// Evaluate classifies a single block of generated text. It is a total
// function: it never fails, and empty input is simply not flagged.
func Evaluate(text string) models.RiskVerdict {
	lowered := strings.ToLower(text)
	for _, phrase := range riskPhrases {
		if strings.Contains(lowered, phrase) {
			return models.RiskVerdict{Flagged: true, Text: text}
		}
	}
	return models.RiskVerdict{Flagged: false, Text: text}
}
