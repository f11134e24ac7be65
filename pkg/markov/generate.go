package markov

import (
	"context"
	"fmt"
)

// DefaultMaxAttempts is the number of generations GenerateNovel tries before
// giving up with ErrExhausted.
const DefaultMaxAttempts = 1000

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	maxLength   int
	maxAttempts int
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in Generate, GenerateNovel and Stream.
type GenerateOption func(*generateOptions)

// WithMaxLength caps the number of characters in a generated word. A walk
// that runs longer fails with ErrMaxLength. A value of 0 disables the cap.
// Default: 0
func WithMaxLength(n int) GenerateOption {
	return func(o *generateOptions) { o.maxLength = n }
}

// WithMaxAttempts sets how many words GenerateNovel generates before
// reporting ErrExhausted. A value of 0 or less retries until a novel word is
// found or the context is cancelled, which never happens when every
// reachable word is part of the training data.
// Default: DefaultMaxAttempts
func WithMaxAttempts(n int) GenerateOption {
	return func(o *generateOptions) { o.maxAttempts = n }
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		maxLength:   0,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Generate walks the chain from the Start context, drawing one symbol at a
// time from the distribution of the current context until End is drawn. The
// returned word does not include End.
//
// Reaching a context that is not in the table fails with ErrMalformedModel.
func (c *Chain) Generate(ctx context.Context, opts ...GenerateOption) (string, error) {
	return c.generate(ctx, newGenerateOptions(opts))
}

// generate contains the main loop for walking the chain.
func (c *Chain) generate(ctx context.Context, options *generateOptions) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := StartKey
	sampler, ok := c.table[key]
	if !ok {
		return "", fmt.Errorf("%w: no start context, chain is untrained", ErrMalformedModel)
	}

	generated := make([]rune, 0, 2*c.order)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		next, err := sampler.SampleRandom(c.rand)
		if err != nil {
			return "", fmt.Errorf("%w: context %q: %w", ErrMalformedModel, key, err)
		}
		if next == End {
			break
		}
		if options.maxLength > 0 && len(generated) >= options.maxLength {
			return "", fmt.Errorf("%w: limit %d", ErrMaxLength, options.maxLength)
		}
		generated = append(generated, next)

		key = contextKey(generated, len(generated)-1, c.order)
		if sampler, ok = c.table[key]; !ok {
			return "", fmt.Errorf("%w: context %q not in table", ErrMalformedModel, key)
		}
	}
	return string(generated), nil
}
