package markov

import (
	"context"
	"log/slog"
)

// Result is a single value produced by Stream. Err is set on the last value
// of a stream that stopped because generation failed.
type Result struct {
	Word string
	Err  error
}

// Stream generates n words in the background and returns a read-only channel
// of Results. When novel is true each word goes through GenerateNovel,
// otherwise through Generate. A value of n <= 0 keeps generating until the
// context is cancelled. The channel is closed once generation is complete,
// fails, or the context is cancelled.
func (g *Generator) Stream(ctx context.Context, n int, novel bool, opts ...GenerateOption) <-chan Result {
	results := make(chan Result)

	go func() {
		defer close(results)

		produced := 0
		for n <= 0 || produced < n {
			var res Result
			if novel {
				res.Word, res.Err = g.GenerateNovel(ctx, opts...)
			} else {
				res.Word, res.Err = g.Generate(ctx, opts...)
			}

			select {
			case results <- res:
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Stream cancelled",
					slog.String("model_id", g.id.String()),
					slog.Int("produced", produced),
				)
				return
			}
			if res.Err != nil {
				return
			}
			produced++
		}

		g.logger.DebugContext(ctx, "Stream completed",
			slog.String("model_id", g.id.String()),
			slog.Int("produced", produced),
		)
	}()

	return results
}

// GenerateMany collects n words from Stream. On failure the words produced so
// far are returned together with the error.
func (g *Generator) GenerateMany(ctx context.Context, n int, novel bool, opts ...GenerateOption) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	words := make([]string, 0, n)
	for res := range g.Stream(ctx, n, novel, opts...) {
		if res.Err != nil {
			return words, res.Err
		}
		words = append(words, res.Word)
	}
	if err := ctx.Err(); err != nil && len(words) < n {
		return words, err
	}
	return words, nil
}
