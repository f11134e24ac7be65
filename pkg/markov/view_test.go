package markov

import (
	"errors"
	"reflect"
	"testing"
)

func TestTransitions(t *testing.T) {
	c, _ := NewChain(1)
	_ = c.TrainMany([]string{"cat", "car", "at"})

	view, ok := c.Transitions("a")
	if !ok {
		t.Fatal("expected context \"a\" to exist")
	}
	expected := []Edge{
		{Symbol: 't', Weight: 2, Cumulative: 2},
		{Symbol: 'r', Weight: 1, Cumulative: 3},
	}
	if !reflect.DeepEqual(view.Edges, expected) {
		t.Errorf("edges = %+v, want %+v", view.Edges, expected)
	}
	if view.Total != 3 {
		t.Errorf("total = %d, want 3", view.Total)
	}

	// The final context only leads to End, which is left out of the view.
	view, ok = c.Transitions("t")
	if !ok {
		t.Fatal("expected context \"t\" to exist")
	}
	if len(view.Edges) != 0 || view.Total != 2 {
		t.Errorf("end-only context: edges %+v total %d, want none and 2", view.Edges, view.Total)
	}

	if _, ok := c.Transitions("zz"); ok {
		t.Error("expected unknown context to be reported missing")
	}
}

func TestContextFor(t *testing.T) {
	c, _ := NewChain(3)

	testCases := []struct {
		text     string
		expected string
	}{
		{text: "", expected: StartKey},
		{text: "c", expected: string([]rune{Start, Start, 'c'})},
		{text: "ca", expected: string([]rune{Start, 'c', 'a'})},
		{text: "cart", expected: "art"},
	}
	for _, tc := range testCases {
		got, err := c.ContextFor(tc.text)
		if err != nil {
			t.Fatalf("ContextFor(%q) error = %v", tc.text, err)
		}
		if got != tc.expected {
			t.Errorf("ContextFor(%q) = %q, want %q", tc.text, got, tc.expected)
		}
	}

	if _, err := c.ContextFor("a" + string(End)); !errors.Is(err, ErrReservedSymbol) {
		t.Errorf("expected ErrReservedSymbol, got %v", err)
	}
}

func TestSamplerCopyIsIndependent(t *testing.T) {
	c, _ := NewChain(2)
	_ = c.TrainOne("ab")

	s, ok := c.Sampler(StartKey)
	if !ok {
		t.Fatal("start context missing")
	}
	_ = s.Add('z', 10)

	original, _ := c.Sampler(StartKey)
	if original.Total() != 1 || original.Weight('z') != 0 {
		t.Errorf("modifying a copy changed the chain: total %d", original.Total())
	}
}
