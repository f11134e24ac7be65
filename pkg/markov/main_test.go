package markov

import (
	"context"
	"go/build"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
)

// fixedRand always returns the same draw, clamped to the requested range.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

// newTestGenerator creates a seeded Generator trained on words.
func newTestGenerator(t *testing.T, order int, words ...string) *Generator {
	t.Helper()
	g, err := NewGenerator(order, WithSeed(42))
	if err != nil {
		t.Fatalf("NewGenerator(%d) error = %v", order, err)
	}
	if err := g.Train(context.Background(), words); err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return g
}

var (
	benchmarkCorpus []string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus extracts identifiers from Go source files to create a
// word list for benchmarking.
func createBenchmarkCorpus() []string {
	corpusOnce.Do(func() {
		identifier := regexp.MustCompile(`[A-Za-z]{3,}`)
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = []string{"fallback", "corpus", "for", "benchmarking", "prevents", "crash"}
				return
			}
			benchmarkCorpus = append(benchmarkCorpus, identifier.FindAllString(string(content), -1)...)
		}
	})
	return benchmarkCorpus
}
