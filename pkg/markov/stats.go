package markov

// Stats holds aggregated statistics for a trained model.
type Stats struct {
	Contexts        int // The number of distinct context keys, including the start context.
	Transitions     int // The number of distinct context->symbol links.
	TotalWeight     int // The sum of all weights; the total number of trained transitions.
	StartingSymbols int // The number of distinct characters that can start a word.
	MaxTotal        int // The largest total mass of any single context.
	TrainingWords   int // The number of distinct training words.
}

// Len returns the number of context keys in the table.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}

// MaxTotal returns the largest total mass of any context, or 0 for an
// untrained chain.
func (c *Chain) MaxTotal() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	maxTotal := 0
	for _, s := range c.table {
		maxTotal = max(maxTotal, s.Total())
	}
	return maxTotal
}

// Stats returns a snapshot of statistics for the chain.
func (c *Chain) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{Contexts: len(c.table)}
	for key, s := range c.table {
		stats.Transitions += s.Len()
		stats.TotalWeight += s.Total()
		stats.MaxTotal = max(stats.MaxTotal, s.Total())
		if key == StartKey {
			stats.StartingSymbols = s.Len()
		}
	}
	return stats
}

// Stats returns the chain statistics together with the training set size.
func (g *Generator) Stats() Stats {
	stats := g.chain.Stats()
	stats.TrainingWords = len(g.training)
	return stats
}
