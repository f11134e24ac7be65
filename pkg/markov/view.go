package markov

import (
	"slices"
	"sort"
)

// Edge is one outgoing transition of a context.
type Edge struct {
	Symbol     rune
	Weight     int
	Cumulative int
}

// TransitionView is a read-only copy of one context's distribution, meant for
// consumers that render the transition table. Start and End entries are left
// out of Edges; Total is still the full mass of the context.
type TransitionView struct {
	Context string
	Total   int
	Edges   []Edge
}

// Transitions returns the view of the context key, or false if the chain has
// no such context.
func (c *Chain) Transitions(key string) (TransitionView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.table[key]
	if !ok {
		return TransitionView{}, false
	}
	view := TransitionView{Context: key, Total: s.Total()}
	for i, symbol := range s.elements {
		if isReserved(symbol) {
			continue
		}
		view.Edges = append(view.Edges, Edge{
			Symbol:     symbol,
			Weight:     s.weights[i],
			Cumulative: s.cumulative[i],
		})
	}
	return view, true
}

// Sampler returns a copy of the sampler stored under key, or false if the
// chain has no such context.
func (c *Chain) Sampler(key string) (*Sampler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.table[key]
	if !ok {
		return nil, false
	}
	cp := &Sampler{
		elements:   s.Elements(),
		weights:    s.Weights(),
		index:      make(map[rune]int, len(s.index)),
		cumulative: slices.Clone(s.cumulative),
		total:      s.total,
		dirty:      s.dirty,
	}
	for symbol, i := range s.index {
		cp.index[symbol] = i
	}
	return cp, true
}

// ContextFor returns the context key that follows text, i.e. the key used to
// pick the character after text during generation. An empty text maps to
// StartKey.
func (c *Chain) ContextFor(text string) (string, error) {
	if text == "" {
		return StartKey, nil
	}
	runes, err := prepareWord(text)
	if err != nil {
		return "", err
	}
	return contextKey(runes, len(runes)-1, c.order), nil
}

// Keys returns every context key in sorted order.
func (c *Chain) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.table))
	for key := range c.table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
