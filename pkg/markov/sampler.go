package markov

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
)

// Rand is the source of uniform integers used for sampling.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform integer in [0, n). It is only called with n > 0.
	IntN(n int) int
}

// globalRand draws from the process-wide math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// lockedRand makes a seeded source safe for concurrent generation.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// Sampler is an append-only, order-preserving multiset of symbols with
// positive integer weights. Elements keep the order in which they were first
// added, and a draw in [0, Total()) selects the first element whose cumulative
// weight is strictly greater than the draw.
//
// The zero value is an empty Sampler ready to use. A Sampler is not safe for
// concurrent use while it is being modified.
type Sampler struct {
	elements   []rune
	weights    []int
	index      map[rune]int
	cumulative []int
	total      int
	dirty      bool // cumulative is stale after a weight increase on an existing element
}

// NewSampler returns an empty Sampler.
func NewSampler() *Sampler {
	return &Sampler{index: make(map[rune]int)}
}

// Add increases the weight of symbol by weight, appending symbol if it has not
// been seen before. Adding to an existing element raises its cumulative value
// and that of every element inserted after it.
func (s *Sampler) Add(symbol rune, weight int) error {
	if weight <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeight, weight)
	}
	s.add(symbol, weight)
	return nil
}

// add reports whether the call made the cumulative weights stale.
func (s *Sampler) add(symbol rune, weight int) bool {
	if s.index == nil {
		s.index = make(map[rune]int)
	}
	staled := false
	if i, ok := s.index[symbol]; ok {
		s.weights[i] += weight
		staled = !s.dirty
		s.dirty = true
	} else {
		s.index[symbol] = len(s.elements)
		s.elements = append(s.elements, symbol)
		s.weights = append(s.weights, weight)
		if !s.dirty {
			s.cumulative = append(s.cumulative, s.total+weight)
		}
	}
	s.total += weight
	return staled
}

// settle rebuilds the cumulative weights once after a batch of adds.
func (s *Sampler) settle() {
	if !s.dirty {
		return
	}
	s.cumulative = s.cumulative[:0]
	running := 0
	for _, w := range s.weights {
		running += w
		s.cumulative = append(s.cumulative, running)
	}
	s.dirty = false
}

// Total returns the total mass of the sampler, or 0 if it is empty.
func (s *Sampler) Total() int {
	return s.total
}

// Len returns the number of distinct elements.
func (s *Sampler) Len() int {
	return len(s.elements)
}

// Elements returns the distinct elements in first-seen order.
func (s *Sampler) Elements() []rune {
	return slices.Clone(s.elements)
}

// Weights returns the accumulated weight of each element, aligned with Elements.
func (s *Sampler) Weights() []int {
	return slices.Clone(s.weights)
}

// Cumulative returns the cumulative weights, aligned with Elements.
// The last value equals Total.
func (s *Sampler) Cumulative() []int {
	s.settle()
	return slices.Clone(s.cumulative)
}

// Weight returns the accumulated weight of symbol, or 0 if it is absent.
func (s *Sampler) Weight(symbol rune) int {
	i, ok := s.index[symbol]
	if !ok {
		return 0
	}
	return s.weights[i]
}

// SampleUniform returns the element selected by draw, which must lie in
// [0, Total()). A draw equal to a bucket boundary resolves to the following
// element.
func (s *Sampler) SampleUniform(draw int) (rune, error) {
	if len(s.elements) == 0 {
		return 0, ErrEmptySampler
	}
	if draw < 0 || draw >= s.total {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrDrawOutOfRange, draw, s.total)
	}
	s.settle()
	i := sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] > draw
	})
	return s.elements[i], nil
}

// SampleRandom draws a uniform integer in [0, Total()) from r and returns the
// selected element. A nil r uses the process-wide random source.
func (s *Sampler) SampleRandom(r Rand) (rune, error) {
	if s.total == 0 {
		return 0, ErrEmptySampler
	}
	if r == nil {
		r = globalRand{}
	}
	return s.SampleUniform(r.IntN(s.total))
}
