package markov

import (
	"strings"
	"testing"
)

func TestStats(t *testing.T) {
	g := newTestGenerator(t, 1, "cat", "car", "dog")

	stats := g.Stats()
	// Contexts: start, c, a, t, r, d, o, g
	if stats.Contexts != 8 {
		t.Errorf("Contexts = %d, want 8", stats.Contexts)
	}
	// start->{c,d}, c->a, a->{t,r}, t->End, r->End, d->o, o->g, g->End
	if stats.Transitions != 10 {
		t.Errorf("Transitions = %d, want 10", stats.Transitions)
	}
	// Each word contributes len(word)+1 weight.
	if stats.TotalWeight != 12 {
		t.Errorf("TotalWeight = %d, want 12", stats.TotalWeight)
	}
	if stats.StartingSymbols != 2 {
		t.Errorf("StartingSymbols = %d, want 2", stats.StartingSymbols)
	}
	if stats.MaxTotal != 3 {
		t.Errorf("MaxTotal = %d, want 3", stats.MaxTotal)
	}
	if stats.TrainingWords != 3 {
		t.Errorf("TrainingWords = %d, want 3", stats.TrainingWords)
	}
}

func TestReadWords(t *testing.T) {
	input := "  cat\n\n dog \r\n\t\nbird\nlast"
	words, err := ReadWords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadWords() error = %v", err)
	}
	expected := []string{"cat", "dog", "bird", "last"}
	if strings.Join(words, ",") != strings.Join(expected, ",") {
		t.Errorf("ReadWords() = %q, want %q", words, expected)
	}
}
