package risk

import "testing"

func TestEvaluateFlagsEachPhrase(t *testing.T) {
	for _, phrase := range Phrases() {
		verdict := Evaluate("I sometimes feel like " + phrase + " these days")
		if !verdict.Flagged {
			t.Errorf("expected phrase %q to flag the text", phrase)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		flagged bool
	}{
		{
			name:    "clean text not flagged",
			text:    "I had a difficult day but talking helps",
			flagged: false,
		},
		{
			name:    "empty text not flagged",
			text:    "",
			flagged: false,
		},
		{
			name:    "case insensitive match",
			text:    "Sometimes I feel HOPELESS about everything",
			flagged: true,
		},
		{
			name:    "phrase embedded mid-sentence",
			text:    "it feels like the pain is too much to carry",
			flagged: true,
		},
		{
			name:    "multi-word phrase split across words not flagged",
			text:    "I want to see my life change",
			flagged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Evaluate(tt.text)
			if verdict.Flagged != tt.flagged {
				t.Errorf("Evaluate(%q).Flagged = %v, want %v", tt.text, verdict.Flagged, tt.flagged)
			}
			if verdict.Text != tt.text {
				t.Errorf("Evaluate(%q).Text = %q, want original text", tt.text, verdict.Text)
			}
		})
	}
}

func TestPhrasesReturnsCopy(t *testing.T) {
	phrases := Phrases()
	if len(phrases) == 0 {
		t.Fatal("expected a non-empty phrase list")
	}
	phrases[0] = "mutated"

	if Phrases()[0] == "mutated" {
		t.Error("mutating the returned slice must not affect the configured phrases")
	}
}
