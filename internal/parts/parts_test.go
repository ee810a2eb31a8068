package parts

import (
	"sort"
	"testing"

	"github.com/mindhaven/mindhaven/internal/models"
)

func TestNewClassifierSchemeFallback(t *testing.T) {
	tests := []struct {
		name   string
		scheme models.PartScheme
		want   models.PartScheme
	}{
		{name: "ifs stays ifs", scheme: models.SchemeIFS, want: models.SchemeIFS},
		{name: "emotion stays emotion", scheme: models.SchemeEmotion, want: models.SchemeEmotion},
		{name: "unknown falls back to ifs", scheme: models.PartScheme("bogus"), want: models.SchemeIFS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(tt.scheme)
			if c.Scheme() != tt.want {
				t.Errorf("Scheme() = %q, want %q", c.Scheme(), tt.want)
			}
		})
	}
}

func TestClassifyIFS(t *testing.T) {
	c := NewClassifier(models.SchemeIFS)

	tests := []struct {
		name       string
		transcript string
		want       []models.PartLabel
	}{
		{
			name:       "empty transcript yields no labels",
			transcript: "",
			want:       nil,
		},
		{
			name:       "no keywords yields no labels",
			transcript: "the weather was nice today",
			want:       nil,
		},
		{
			name:       "single protector keyword",
			transcript: "I always try to protect myself from criticism",
			want:       []models.PartLabel{models.PartProtector},
		},
		{
			name:       "substring match inside a longer word",
			transcript: "I keep guarding my feelings",
			want:       []models.PartLabel{models.PartProtector},
		},
		{
			name:       "case insensitive",
			transcript: "Everything must be PERFECT",
			want:       []models.PartLabel{models.PartManager},
		},
		{
			name:       "multiple labels in one transcript",
			transcript: "I numb the pain and stay calm about it",
			want:       []models.PartLabel{models.PartExile, models.PartFirefighter, models.PartSelf},
		},
		{
			name:       "label appears once despite repeated keywords",
			transcript: "hurt and pain and wound",
			want:       []models.PartLabel{models.PartExile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.transcript)
			assertLabelsEqual(t, tt.want, got)
		})
	}
}

func TestClassifyEmotion(t *testing.T) {
	c := NewClassifier(models.SchemeEmotion)

	tests := []struct {
		name       string
		transcript string
		want       []models.PartLabel
	}{
		{
			name:       "single emotion keyword",
			transcript: "I have been so anxious all week",
			want:       []models.PartLabel{models.PartFear},
		},
		{
			name:       "mixed emotions",
			transcript: "I am angry at him but also grateful for my friends",
			want:       []models.PartLabel{models.PartAngry, models.PartHappy},
		},
		{
			name:       "neutral check-in",
			transcript: "honestly things are fine",
			want:       []models.PartLabel{models.PartNeutral},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.transcript)
			assertLabelsEqual(t, tt.want, got)
		})
	}
}

func TestLabelsStableOrder(t *testing.T) {
	c := NewClassifier(models.SchemeIFS)

	labels := c.Labels()
	if len(labels) != 5 {
		t.Fatalf("expected 5 IFS labels, got %d", len(labels))
	}
	if !sort.SliceIsSorted(labels, func(i, j int) bool { return labels[i] < labels[j] }) {
		t.Errorf("labels not in stable sorted order: %v", labels)
	}

	again := c.Labels()
	for i := range labels {
		if labels[i] != again[i] {
			t.Fatalf("label order changed between calls: %v vs %v", labels, again)
		}
	}
}

func assertLabelsEqual(t *testing.T, want, got []models.PartLabel) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got labels %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}
}
