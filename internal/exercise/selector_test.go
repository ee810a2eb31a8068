package exercise

import (
	"strings"
	"testing"

	"github.com/mindhaven/mindhaven/internal/models"
)

func TestSelectSingleLabel(t *testing.T) {
	s := NewSelector(models.SchemeIFS)
	templates := CatalogFor(models.SchemeIFS)[models.PartProtector]
	titles := make(map[string]bool, len(templates))
	for _, tmpl := range templates {
		titles[tmpl.Title] = true
	}

	// Selection is random; every draw must stay within the label's
	// templates and the {1, 2} count bound.
	for i := 0; i < 20; i++ {
		exercises := s.Select([]models.PartLabel{models.PartProtector})
		if len(exercises) < 1 || len(exercises) > 2 {
			t.Fatalf("expected 1 or 2 exercises, got %d", len(exercises))
		}
		for _, ex := range exercises {
			if !titles[ex.Title] {
				t.Errorf("exercise %q is not a protector template", ex.Title)
			}
			if ex.Completed {
				t.Error("materialized exercise must start incomplete")
			}
			if !strings.HasPrefix(ex.ID, "ex_") {
				t.Errorf("exercise ID %q missing ex_ prefix", ex.ID)
			}
		}
		if len(exercises) == 2 && exercises[0].Title == exercises[1].Title {
			t.Error("picked the same template twice for one label")
		}
	}
}

func TestSelectEmptyLabelsFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		scheme models.PartScheme
	}{
		{name: "ifs default", scheme: models.SchemeIFS},
		{name: "emotion default", scheme: models.SchemeEmotion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(tt.scheme)
			exercises := s.Select(nil)
			if len(exercises) != 1 {
				t.Fatalf("expected exactly the fallback exercise, got %d", len(exercises))
			}
			want := CatalogFor(tt.scheme)[DefaultLabelFor(tt.scheme)][0]
			if exercises[0].Title != want.Title {
				t.Errorf("fallback exercise = %q, want %q", exercises[0].Title, want.Title)
			}
		})
	}
}

func TestSelectUnknownLabelFallsBack(t *testing.T) {
	s := NewSelector(models.SchemeIFS)

	exercises := s.Select([]models.PartLabel{models.PartLabel("nonexistent")})
	if len(exercises) != 1 {
		t.Fatalf("expected the fallback exercise, got %d", len(exercises))
	}
	want := CatalogFor(models.SchemeIFS)[DefaultLabelFor(models.SchemeIFS)][0]
	if exercises[0].Title != want.Title {
		t.Errorf("fallback exercise = %q, want %q", exercises[0].Title, want.Title)
	}
}

func TestSelectMultipleLabels(t *testing.T) {
	s := NewSelector(models.SchemeEmotion)
	labels := []models.PartLabel{models.PartSad, models.PartFear}

	exercises := s.Select(labels)
	if len(exercises) < 2 || len(exercises) > 4 {
		t.Fatalf("expected between 2 and 4 exercises for two labels, got %d", len(exercises))
	}
}

func TestSelectFreshIDsPerCall(t *testing.T) {
	s := NewSelector(models.SchemeIFS)

	first := s.Select([]models.PartLabel{models.PartSelf})
	second := s.Select([]models.PartLabel{models.PartSelf})
	for _, a := range first {
		for _, b := range second {
			if a.ID == b.ID {
				t.Errorf("exercise ID %q reused across selections", a.ID)
			}
		}
	}
}

func TestMaterializeDoesNotAliasCatalog(t *testing.T) {
	s := NewSelector(models.SchemeIFS)
	original := CatalogFor(models.SchemeIFS)[models.PartSelf][0].Instructions[0]

	exercises := s.Select([]models.PartLabel{models.PartSelf})
	exercises[0].Instructions[0] = "mutated"

	if CatalogFor(models.SchemeIFS)[models.PartSelf][0].Instructions[0] != original {
		t.Error("mutating a materialized exercise must not change the catalog")
	}
}
