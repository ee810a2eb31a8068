// Package parts provides the part classifier: a keyword-substring scan over
// a session transcript that yields the set of part labels explored in the
// conversation.
//
// Two label schemes exist (IFS parts and emotions); a deployment picks one
// at startup and never mixes them. Matching is substring, case-insensitive,
// with no tokenization or stemming — "protect" matches "protecting". False
// positives are an accepted tradeoff of the design, not a defect.
package parts

import (
	"sort"
	"strings"

	"github.com/mindhaven/mindhaven/internal/models"
)

// ifsKeywords maps each IFS part label to the phrases that activate it.
var ifsKeywords = map[models.PartLabel][]string{
	models.PartProtector:   {"protect", "guard", "shield"},
	models.PartExile:       {"hurt", "pain", "wound", "young"},
	models.PartManager:     {"control", "organize", "plan", "perfect"},
	models.PartFirefighter: {"distract", "numb", "avoid", "escape"},
	models.PartSelf:        {"calm", "curious", "compassion", "clarity"},
}

// emotionKeywords maps each emotion label to the phrases that activate it.
var emotionKeywords = map[models.PartLabel][]string{
	models.PartDisgust: {"disgust", "gross", "sick of", "revolt"},
	models.PartHappy:   {"happy", "joy", "grateful", "excited"},
	models.PartSad:     {"sad", "grief", "lonely", "cry"},
	models.PartFear:    {"afraid", "anxious", "scared", "worry"},
	models.PartAngry:   {"angry", "furious", "resent", "rage"},
	models.PartNeutral: {"okay", "fine", "neutral", "alright"},
}

// Classifier scans transcripts for the keywords of one label scheme.
type Classifier struct {
	scheme   models.PartScheme
	keywords map[models.PartLabel][]string
}

// NewClassifier creates a classifier for the given scheme. Unknown schemes
// fall back to IFS.
func NewClassifier(scheme models.PartScheme) *Classifier {
	keywords := ifsKeywords
	if scheme == models.SchemeEmotion {
		keywords = emotionKeywords
	} else {
		scheme = models.SchemeIFS
	}
	return &Classifier{scheme: scheme, keywords: keywords}
}

// Scheme returns the label scheme this classifier operates on.
func (c *Classifier) Scheme() models.PartScheme {
	return c.scheme
}

// Labels returns the scheme's full label set in stable order.
func (c *Classifier) Labels() []models.PartLabel {
	labels := make([]models.PartLabel, 0, len(c.keywords))
	for label := range c.keywords {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// Classify returns the set of labels whose keyword list has at least one
// substring match in the transcript. Empty input or no matches yield an
// empty set; the caller applies the exercise selector's fallback. It is a
// total function and never fails.
func (c *Classifier) Classify(transcript string) []models.PartLabel {
	if transcript == "" {
		return nil
	}
	lowered := strings.ToLower(transcript)

	var matched []models.PartLabel
	for _, label := range c.Labels() {
		for _, keyword := range c.keywords[label] {
			if strings.Contains(lowered, keyword) {
				matched = append(matched, label)
				break
			}
		}
	}
	return matched
}
