package markov

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGenerateSingleWord(t *testing.T) {
	g := newTestGenerator(t, 8, "cat")
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		output, err := g.Generate(ctx)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if output != "cat" {
			t.Fatalf("Generate() got = %q, want %q", output, "cat")
		}
	}
}

func TestGenerateStaysInVocabulary(t *testing.T) {
	g := newTestGenerator(t, 8, "cat", "car")
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		output, err := g.Generate(ctx)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if output != "cat" && output != "car" {
			t.Fatalf("Generate() got = %q, want one of [cat car]", output)
		}
	}

	_, err := g.GenerateNovel(ctx, WithMaxAttempts(50))
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("GenerateNovel: expected ErrExhausted, got %v", err)
	}
}

func TestGenerateUniformWithoutOverlap(t *testing.T) {
	const samples = 4000
	g := newTestGenerator(t, 3, "cat", "dog")
	ctx := context.Background()

	counts := make(map[string]int)
	for i := 0; i < samples; i++ {
		output, err := g.Generate(ctx)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		counts[output]++
	}
	if len(counts) != 2 {
		t.Fatalf("expected only cat and dog, got %v", counts)
	}
	share := float64(counts["cat"]) / samples
	if share < 0.45 || share > 0.55 {
		t.Errorf("cat share = %.3f, want 0.5 ± 0.05 (counts %v)", share, counts)
	}
}

func TestGenerateNovel(t *testing.T) {
	// With order 1, "b" -> "a" -> "r" -> End recombines into the unseen "bar".
	g := newTestGenerator(t, 1, "cat", "car", "bat")

	output, err := g.GenerateNovel(context.Background())
	if err != nil {
		t.Fatalf("GenerateNovel failed: %v", err)
	}
	if output != "bar" {
		t.Errorf("GenerateNovel() got = %q, want %q", output, "bar")
	}
	if g.Known(output) {
		t.Errorf("novel output %q is a training word", output)
	}
}

func TestGenerateNovelUnboundedHonoursContext(t *testing.T) {
	g := newTestGenerator(t, 4, "cat")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.GenerateNovel(ctx, WithMaxAttempts(0))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Untrained chain", func(t *testing.T) {
		c, _ := NewChain(2)
		if _, err := c.Generate(ctx); !errors.Is(err, ErrMalformedModel) {
			t.Errorf("expected ErrMalformedModel, got %v", err)
		}
	})

	t.Run("Missing context", func(t *testing.T) {
		g, err := FromSnapshot(Snapshot{
			Version: SnapshotVersion,
			Order:   1,
			Transitions: []ExportedTransition{
				{Context: StartKey, Symbols: []string{"a"}, Weights: []int{1}},
			},
		})
		if err != nil {
			t.Fatalf("FromSnapshot() error = %v", err)
		}
		_, err = g.Generate(ctx)
		if !errors.Is(err, ErrMalformedModel) {
			t.Fatalf("expected ErrMalformedModel, got %v", err)
		}
		if !strings.Contains(err.Error(), `"a"`) {
			t.Errorf("expected error to name the missing context, got %q", err.Error())
		}
	})

	t.Run("Max length", func(t *testing.T) {
		// A draw of 0 always picks 'a' over End in the "a" context.
		c, _ := NewChain(1, WithRand(fixedRand(0)))
		_ = c.TrainOne("aaaa")
		if _, err := c.Generate(ctx, WithMaxLength(5)); !errors.Is(err, ErrMaxLength) {
			t.Errorf("expected ErrMaxLength, got %v", err)
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		c, _ := NewChain(1)
		_ = c.TrainOne("cat")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := c.Generate(cancelled); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestGenerateMaxLengthCountsAsAttempt(t *testing.T) {
	g, _ := NewGenerator(1, WithRand(fixedRand(0)))
	_ = g.Train(context.Background(), []string{"aaaa"})

	_, err := g.GenerateNovel(context.Background(), WithMaxLength(5), WithMaxAttempts(3))
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestGenerateSeededIsReproducible(t *testing.T) {
	words := []string{"amber", "ember", "umber", "timber", "number", "lumber"}
	a := newTestGenerator(t, 2, words...)
	b := newTestGenerator(t, 2, words...)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		wa, errA := a.Generate(ctx)
		wb, errB := b.Generate(ctx)
		if errA != nil || errB != nil {
			t.Fatalf("Generate failed: %v, %v", errA, errB)
		}
		if wa != wb {
			t.Fatalf("draw %d differs with the same seed: %q vs %q", i, wa, wb)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	corpus := createBenchmarkCorpus()
	ctx := context.Background()

	for _, order := range []int{2, 4, 8} {
		g, err := NewGenerator(order, WithSeed(1))
		if err != nil {
			b.Fatal(err)
		}
		if err := g.Train(ctx, corpus); err != nil {
			b.Fatalf("Train() setup for benchmark failed: %v", err)
		}
		b.Run("Order"+string(rune('0'+order)), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s, err := g.Generate(ctx)
				b.SetBytes(int64(len(s)))
				if err != nil {
					b.Fatalf("Generate() failed: %v", err)
				}
			}
		})
	}
}
