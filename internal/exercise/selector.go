// Package exercise provides the static exercise catalog and the selector
// that materializes personalized exercises from classified part labels.
package exercise

import (
	"log/slog"
	"math/rand/v2"

	"github.com/mindhaven/mindhaven/internal/models"
	"github.com/mindhaven/mindhaven/internal/util"
)

// Selector draws exercises from the catalog of one label scheme.
type Selector struct {
	scheme  models.PartScheme
	catalog map[models.PartLabel][]models.ExerciseTemplate
}

// NewSelector creates a selector for the given scheme.
func NewSelector(scheme models.PartScheme) *Selector {
	if !models.IsValidPartScheme(scheme) {
		scheme = models.SchemeIFS
	}
	return &Selector{scheme: scheme, catalog: CatalogFor(scheme)}
}

// Select materializes exercises for the given label set. For each label it
// draws a uniformly-random count in {1, 2} and picks that many templates
// without replacement (shuffle then slice; any two templates for a label
// are equally likely). An empty label set falls back to the scheme's
// designated default template so the result is never empty. Selection is
// deliberately unseeded.
func (s *Selector) Select(labels []models.PartLabel) []models.Exercise {
	var exercises []models.Exercise

	for _, label := range labels {
		templates, ok := s.catalog[label]
		if !ok || len(templates) == 0 {
			slog.Warn("Selector.Select: no templates for label", "label", label, "scheme", s.scheme)
			continue
		}

		shuffled := make([]models.ExerciseTemplate, len(templates))
		copy(shuffled, templates)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		count := rand.IntN(2) + 1
		if count > len(shuffled) {
			count = len(shuffled)
		}
		for _, tmpl := range shuffled[:count] {
			exercises = append(exercises, materialize(tmpl))
		}
	}

	if len(exercises) == 0 {
		fallback := DefaultLabelFor(s.scheme)
		slog.Debug("Selector.Select: no labels matched, using default template", "scheme", s.scheme, "label", fallback)
		exercises = append(exercises, materialize(s.catalog[fallback][0]))
	}

	slog.Debug("Selector.Select: exercises selected", "scheme", s.scheme, "labels", len(labels), "count", len(exercises))
	return exercises
}

// materialize copies a template into a fresh, incomplete exercise.
func materialize(tmpl models.ExerciseTemplate) models.Exercise {
	instructions := make([]string, len(tmpl.Instructions))
	copy(instructions, tmpl.Instructions)
	return models.Exercise{
		ID:           util.GenerateExerciseID(),
		Title:        tmpl.Title,
		Description:  tmpl.Description,
		Category:     tmpl.Category,
		Instructions: instructions,
		Completed:    false,
	}
}
