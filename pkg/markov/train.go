package markov

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Chain is a character-level Markov chain of fixed order. It maps each
// observed context key to a Sampler over the symbols that followed it.
//
// Training must not run concurrently with other methods. Once training is
// complete, Generate and the read-only views may be called from multiple
// goroutines.
type Chain struct {
	order int
	table map[string]*Sampler
	rand  Rand
	mu    sync.RWMutex
}

// Option configures a Chain.
type Option func(*Chain)

// WithRand sets the random source used for sampling. The source must be safe
// for concurrent use if the chain is shared between goroutines.
// Default: the process-wide math/rand/v2 source.
func WithRand(r Rand) Option {
	return func(c *Chain) {
		if r != nil {
			c.rand = r
		}
	}
}

// WithSeed makes sampling reproducible by using a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return WithRand(&lockedRand{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))})
}

// NewChain creates an empty chain of the given order.
func NewChain(order int, opts ...Option) (*Chain, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	c := &Chain{
		order: order,
		table: make(map[string]*Sampler),
		rand:  globalRand{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Order returns the number of preceding characters used as context.
func (c *Chain) Order() int {
	return c.order
}

// TrainOne adds a single word to the chain. The first character is counted in
// the Start distribution, every following character in the distribution of
// the context preceding it, and End in the distribution of the final context.
func (c *Chain) TrainOne(word string) error {
	runes, err := prepareWord(word)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	settleAll(c.train(runes, nil))
	return nil
}

// TrainMany trains the chain on each word in order. Every word is validated
// before the chain is modified, so a failed call leaves the chain unchanged.
func (c *Chain) TrainMany(words []string) error {
	return c.trainMany(words, nil)
}

func (c *Chain) trainMany(words []string, progress func(done int)) error {
	prepared := make([][]rune, len(words))
	for i, word := range words {
		runes, err := prepareWord(word)
		if err != nil {
			return fmt.Errorf("word %d: %w", i, err)
		}
		prepared[i] = runes
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []*Sampler
	for i, runes := range prepared {
		stale = c.train(runes, stale)
		if progress != nil {
			progress(i + 1)
		}
	}
	settleAll(stale)
	return nil
}

// train records the transitions of one word and appends every sampler whose
// cumulative weights went stale to stale.
func (c *Chain) train(word []rune, stale []*Sampler) []*Sampler {
	record := func(key string, symbol rune) {
		s := c.sampler(key)
		if s.add(symbol, 1) {
			stale = append(stale, s)
		}
	}

	record(StartKey, word[0])
	for i := 0; i < len(word)-1; i++ {
		record(contextKey(word, i, c.order), word[i+1])
	}
	record(contextKey(word, len(word)-1, c.order), End)
	return stale
}

// sampler returns the sampler for key, creating it if needed.
func (c *Chain) sampler(key string) *Sampler {
	s, ok := c.table[key]
	if !ok {
		s = NewSampler()
		c.table[key] = s
	}
	return s
}

func settleAll(samplers []*Sampler) {
	for _, s := range samplers {
		s.settle()
	}
}
