// Package store persists trained markov models in a SQLite database.
//
// Several named models can live in one database. Context keys are shared
// between models in a single table; transitions, their first-seen order and
// each model's training words are stored per model. Symbols are stored as
// integer code points.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	// ErrModelExists is returned when saving a model under a name that is taken.
	ErrModelExists = errors.New("store: model already exists")
	// ErrModelNotFound is returned when a named model is not in the database.
	ErrModelNotFound = errors.New("store: model not found")
)

// SetupSchema initializes the necessary tables in the provided database. This
// function should be called once on a new database before any other
// operations are performed. It is idempotent and safe to call on an
// already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS markov_models (
    model_id INTEGER PRIMARY KEY,
    model_uuid TEXT NOT NULL,
    model_name TEXT NOT NULL UNIQUE,
    model_order INTEGER NOT NULL,
    schema_version INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);
`
		schemaContexts = `
CREATE TABLE IF NOT EXISTS markov_contexts (
    context_id INTEGER PRIMARY KEY,
    context_text TEXT NOT NULL UNIQUE
);
`
		schemaTransitions = `
CREATE TABLE IF NOT EXISTS markov_transitions (
    model_id INTEGER NOT NULL,
    context_id INTEGER NOT NULL,
    next_symbol INTEGER NOT NULL,
    position INTEGER NOT NULL,
    weight INTEGER NOT NULL,
    PRIMARY KEY (model_id, context_id, next_symbol)
);
`
		schemaTraining = `
CREATE TABLE IF NOT EXISTS markov_training (
    model_id INTEGER NOT NULL,
    word TEXT NOT NULL,
    PRIMARY KEY (model_id, word)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing. If it fails, this will clean up.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaModels); err != nil {
		return fmt.Errorf("could not create models schema: %w", err)
	}

	if _, err = tx.Exec(schemaContexts); err != nil {
		return fmt.Errorf("could not create contexts schema: %w", err)
	}

	if _, err = tx.Exec(schemaTransitions); err != nil {
		return fmt.Errorf("could not create transitions schema: %w", err)
	}

	if _, err = tx.Exec(schemaTraining); err != nil {
		return fmt.Errorf("could not create training schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store is the entry point for persisting models. It holds the database
// connection and prepared SQL statements for efficient database interaction.
type Store struct {
	db                     *sql.DB
	stmtGetModelInfo       *sql.Stmt
	stmtGetModels          *sql.Stmt
	stmtAddModel           *sql.Stmt
	stmtGetOrInsertContext *sql.Stmt
	stmtInsertTransition   *sql.Stmt
	stmtInsertTraining     *sql.Stmt
	stmtGetTransitions     *sql.Stmt
	stmtGetTraining        *sql.Stmt
	stmtModelContexts      *sql.Stmt
	stmtModelTransitions   *sql.Stmt
	stmtModelWeight        *sql.Stmt
	stmtModelStarters      *sql.Stmt
	stmtModelTraining      *sql.Stmt
	stmtGetContextLen      *sql.Stmt
	logger                 *slog.Logger
}

// NewStore creates and returns a new Store. It pre-compiles all necessary SQL
// statements, returning an error if any preparation fails. SetupSchema must
// have been called on db first.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	statements := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.stmtGetModelInfo, `SELECT model_id, model_uuid, model_order, schema_version, created_at FROM markov_models WHERE model_name = ?;`},
		{&s.stmtGetModels, `SELECT model_id, model_name, model_uuid, model_order, schema_version, created_at FROM markov_models;`},
		{&s.stmtAddModel, `INSERT INTO markov_models (model_uuid, model_name, model_order, schema_version, created_at) VALUES (?, ?, ?, ?, ?);`},
		{&s.stmtGetOrInsertContext, `INSERT INTO markov_contexts (context_text) VALUES (?) ON CONFLICT(context_text) DO UPDATE SET context_text=excluded.context_text RETURNING context_id;`},
		{&s.stmtInsertTransition, `INSERT INTO markov_transitions (model_id, context_id, next_symbol, position, weight) VALUES (?, ?, ?, ?, ?);`},
		{&s.stmtInsertTraining, `INSERT OR IGNORE INTO markov_training (model_id, word) VALUES (?, ?);`},
		{&s.stmtGetTransitions, `SELECT c.context_text, t.next_symbol, t.weight FROM markov_transitions t JOIN markov_contexts c ON c.context_id = t.context_id WHERE t.model_id = ? ORDER BY c.context_text, t.position;`},
		{&s.stmtGetTraining, `SELECT word FROM markov_training WHERE model_id = ? ORDER BY word;`},
		{&s.stmtModelContexts, `SELECT COUNT(DISTINCT context_id) FROM markov_transitions WHERE model_id = ?;`},
		{&s.stmtModelTransitions, `SELECT COUNT(*) FROM markov_transitions WHERE model_id = ?;`},
		{&s.stmtModelWeight, `SELECT coalesce(SUM(weight), 0) FROM markov_transitions WHERE model_id = ?;`},
		{&s.stmtModelStarters, `SELECT COUNT(*) FROM markov_transitions t JOIN markov_contexts c ON c.context_id = t.context_id WHERE t.model_id = ? AND c.context_text = ?;`},
		{&s.stmtModelTraining, `SELECT COUNT(*) FROM markov_training WHERE model_id = ?;`},
		{&s.stmtGetContextLen, `SELECT COUNT(*) FROM markov_contexts;`},
	}

	for _, st := range statements {
		stmt, err := db.Prepare(st.query)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("could not prepare statement: %w", err)
		}
		*st.dst = stmt
	}

	return s, nil
}

// Close releases all prepared SQL statements held by the Store. It does not
// close the database itself.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtGetModelInfo,
		s.stmtGetModels,
		s.stmtAddModel,
		s.stmtGetOrInsertContext,
		s.stmtInsertTransition,
		s.stmtInsertTraining,
		s.stmtGetTransitions,
		s.stmtGetTraining,
		s.stmtModelContexts,
		s.stmtModelTransitions,
		s.stmtModelWeight,
		s.stmtModelStarters,
		s.stmtModelTraining,
		s.stmtGetContextLen,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}
