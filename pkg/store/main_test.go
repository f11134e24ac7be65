package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/CTAG07/markovgen/pkg/markov"
	_ "modernc.org/sqlite"
)

// setupTestStore creates a new SQLite database in a temporary directory and a
// Store for testing. It uses t.Cleanup to ensure resources are released.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbFile+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}

// trainedGenerator returns a seeded generator trained on words.
func trainedGenerator(t *testing.T, order int, words ...string) *markov.Generator {
	t.Helper()
	g, err := markov.NewGenerator(order, markov.WithSeed(7))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	if err := g.Train(context.Background(), words); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return g
}
