package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Generator is the main entry point for training and using a word model.
// It holds a Chain together with the exact set of words it was trained on,
// which is used only to recognise generated words that are not novel.
//
// Train must not run concurrently with other methods.
type Generator struct {
	id       uuid.UUID
	name     string
	chain    *Chain
	training map[string]struct{}
	logger   *slog.Logger
}

// NewGenerator creates an untrained Generator whose chain has the given order.
func NewGenerator(order int, opts ...Option) (*Generator, error) {
	chain, err := NewChain(order, opts...)
	if err != nil {
		return nil, err
	}
	return newGenerator(uuid.New(), chain), nil
}

func newGenerator(id uuid.UUID, chain *Chain) *Generator {
	return &Generator{
		id:       id,
		chain:    chain,
		training: make(map[string]struct{}),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// ID returns the identifier assigned to the model when it was created.
func (g *Generator) ID() uuid.UUID {
	return g.id
}

// Name returns the model's display name, which may be empty.
func (g *Generator) Name() string {
	return g.name
}

// SetName sets the display name written into snapshots.
func (g *Generator) SetName(name string) {
	g.name = name
}

// Chain returns the underlying chain.
func (g *Generator) Chain() *Chain {
	return g.chain
}

// Known reports whether word is exactly one of the training words.
func (g *Generator) Known(word string) bool {
	_, ok := g.training[word]
	return ok
}

// TrainingSize returns the number of distinct training words.
func (g *Generator) TrainingSize() int {
	return len(g.training)
}

// Train adds words to the training set and trains the chain on them in order.
// If any word is invalid, neither the chain nor the training set is modified.
func (g *Generator) Train(ctx context.Context, words []string) error {
	// progressEvery controls how often training progress is logged at debug level.
	const progressEvery = 10000

	progress := func(done int) {
		if done%progressEvery == 0 {
			g.logger.DebugContext(ctx, "Training progress",
				slog.String("model_id", g.id.String()),
				slog.Int("words_done", done),
				slog.Int("words_total", len(words)),
			)
		}
	}
	if err := g.chain.trainMany(words, progress); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	for _, word := range words {
		g.training[word] = struct{}{}
	}

	g.logger.InfoContext(ctx, "Training completed",
		slog.String("model_id", g.id.String()),
		slog.Int("order", g.chain.Order()),
		slog.Int("words_processed", len(words)),
		slog.Int("contexts", g.chain.Len()),
	)
	return nil
}

// Generate returns one word from the chain without filtering.
func (g *Generator) Generate(ctx context.Context, opts ...GenerateOption) (string, error) {
	return g.chain.Generate(ctx, opts...)
}

// GenerateNovel generates words until one is not in the training set.
// It gives up with ErrExhausted after the number of attempts set by
// WithMaxAttempts. Walks that exceed WithMaxLength count as failed attempts.
func (g *Generator) GenerateNovel(ctx context.Context, opts ...GenerateOption) (string, error) {
	options := newGenerateOptions(opts)

	for attempt := 1; options.maxAttempts <= 0 || attempt <= options.maxAttempts; attempt++ {
		word, err := g.chain.generate(ctx, options)
		if errors.Is(err, ErrMaxLength) {
			continue
		}
		if err != nil {
			return "", err
		}
		if !g.Known(word) {
			g.logger.DebugContext(ctx, "Novel word generated",
				slog.String("model_id", g.id.String()),
				slog.Int("attempts", attempt),
			)
			return word, nil
		}
	}

	g.logger.WarnContext(ctx, "Novel generation exhausted",
		slog.String("model_id", g.id.String()),
		slog.Int("max_attempts", options.maxAttempts),
	)
	return "", fmt.Errorf("%w: gave up after %d attempts", ErrExhausted, options.maxAttempts)
}
