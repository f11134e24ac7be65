package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/CTAG07/markovgen/pkg/markov"
)

// ModelInfo holds the metadata stored for a saved model.
type ModelInfo struct {
	Id            int
	UUID          string
	Name          string
	Order         int
	SchemaVersion int
	CreatedAt     time.Time
}

// GetModelInfos retrieves metadata for all models currently in the database,
// returning them in a map keyed by model name.
func (s *Store) GetModelInfos(ctx context.Context) (map[string]ModelInfo, error) {
	rows, err := s.stmtGetModels.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	models := make(map[string]ModelInfo)
	for rows.Next() {
		var model ModelInfo
		var createdAt int64
		if err = rows.Scan(&model.Id, &model.Name, &model.UUID, &model.Order, &model.SchemaVersion, &createdAt); err != nil {
			return nil, err
		}
		model.CreatedAt = time.Unix(createdAt, 0).UTC()
		models[model.Name] = model
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return models, nil
}

// GetModelInfo retrieves the metadata for a single model specified by name.
// It returns ErrModelNotFound if no model has that name.
func (s *Store) GetModelInfo(ctx context.Context, name string) (ModelInfo, error) {
	model := ModelInfo{Name: name}
	var createdAt int64
	err := s.stmtGetModelInfo.QueryRowContext(ctx, name).Scan(&model.Id, &model.UUID, &model.Order, &model.SchemaVersion, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ModelInfo{}, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}
	if err != nil {
		return ModelInfo{}, err
	}
	model.CreatedAt = time.Unix(createdAt, 0).UTC()
	return model, nil
}

// SaveModel writes a trained generator to the database under name. The whole
// model is written in one transaction. Saving under a name that already
// exists fails with ErrModelExists; remove the old model first to replace it.
func (s *Store) SaveModel(ctx context.Context, name string, g *markov.Generator) (ModelInfo, error) {
	if name == "" {
		return ModelInfo{}, fmt.Errorf("store: model name must not be empty")
	}
	snap := g.Snapshot()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var existing int
	err = tx.StmtContext(ctx, s.stmtGetModelInfo).QueryRowContext(ctx, name).Scan(&existing, new(string), new(int), new(int), new(int64))
	if err == nil {
		return ModelInfo{}, fmt.Errorf("%w: %q", ErrModelExists, name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ModelInfo{}, fmt.Errorf("could not check model name: %w", err)
	}

	info := ModelInfo{
		UUID:          snap.ID,
		Name:          name,
		Order:         snap.Order,
		SchemaVersion: snap.Version,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
	res, err := tx.StmtContext(ctx, s.stmtAddModel).ExecContext(ctx, info.UUID, info.Name, info.Order, info.SchemaVersion, info.CreatedAt.Unix())
	if err != nil {
		return ModelInfo{}, fmt.Errorf("failed to insert model %q: %w", name, err)
	}
	modelId, err := res.LastInsertId()
	if err != nil {
		return ModelInfo{}, err
	}
	info.Id = int(modelId)

	ctxStmt := tx.StmtContext(ctx, s.stmtGetOrInsertContext)
	transStmt := tx.StmtContext(ctx, s.stmtInsertTransition)
	for _, tr := range snap.Transitions {
		var contextId int
		if err = ctxStmt.QueryRowContext(ctx, tr.Context).Scan(&contextId); err != nil {
			return ModelInfo{}, fmt.Errorf("failed to store context %q: %w", tr.Context, err)
		}
		for position, symbol := range tr.Symbols {
			r, _ := utf8.DecodeRuneInString(symbol)
			if _, err = transStmt.ExecContext(ctx, info.Id, contextId, int(r), position, tr.Weights[position]); err != nil {
				return ModelInfo{}, fmt.Errorf("failed to store transition %q -> %q: %w", tr.Context, symbol, err)
			}
		}
	}

	trainStmt := tx.StmtContext(ctx, s.stmtInsertTraining)
	for _, word := range snap.Training {
		if _, err = trainStmt.ExecContext(ctx, info.Id, word); err != nil {
			return ModelInfo{}, fmt.Errorf("failed to store training word: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return ModelInfo{}, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Model saved",
		slog.String("model_name", name),
		slog.Int("model_id", info.Id),
		slog.String("model_uuid", info.UUID),
		slog.Int("contexts_saved", len(snap.Transitions)),
		slog.Int("training_words_saved", len(snap.Training)),
	)
	return info, nil
}

// LoadModel reads the named model back into a Generator. Options are passed
// to the rebuilt chain, e.g. markov.WithSeed for reproducible output.
func (s *Store) LoadModel(ctx context.Context, name string, opts ...markov.Option) (*markov.Generator, error) {
	info, err := s.GetModelInfo(ctx, name)
	if err != nil {
		return nil, err
	}

	snap := markov.Snapshot{
		Version: info.SchemaVersion,
		ID:      info.UUID,
		Name:    info.Name,
		Order:   info.Order,
	}

	rows, err := s.stmtGetTransitions.QueryContext(ctx, info.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query transitions: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	// Rows arrive grouped by context and in first-seen order within each.
	var current *markov.ExportedTransition
	for rows.Next() {
		var (
			contextText string
			symbol      int
			weight      int
		)
		if err = rows.Scan(&contextText, &symbol, &weight); err != nil {
			return nil, err
		}
		if current == nil || current.Context != contextText {
			snap.Transitions = append(snap.Transitions, markov.ExportedTransition{Context: contextText})
			current = &snap.Transitions[len(snap.Transitions)-1]
		}
		current.Symbols = append(current.Symbols, string(rune(symbol)))
		current.Weights = append(current.Weights, weight)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	wordRows, err := s.stmtGetTraining.QueryContext(ctx, info.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query training words: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(wordRows)
	for wordRows.Next() {
		var word string
		if err = wordRows.Scan(&word); err != nil {
			return nil, err
		}
		snap.Training = append(snap.Training, word)
	}
	if err = wordRows.Err(); err != nil {
		return nil, err
	}

	g, err := markov.FromSnapshot(snap, opts...)
	if err != nil {
		return nil, fmt.Errorf("model %q is corrupt: %w", name, err)
	}

	s.logger.InfoContext(ctx, "Model loaded",
		slog.String("model_name", name),
		slog.Int("model_id", info.Id),
		slog.Int("contexts_loaded", len(snap.Transitions)),
	)
	return g, nil
}

// RemoveModel deletes a model and all of its associated data from the
// database. Context keys no longer used by any model are removed as well. The
// operation is performed within a transaction.
func (s *Store) RemoveModel(ctx context.Context, model ModelInfo) error {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	res, err := tx.ExecContext(ctx, "DELETE FROM markov_models WHERE model_id = ?", model.Id)
	if err != nil {
		return fmt.Errorf("failed to remove model %d: %w", model.Id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrModelNotFound, model.Name)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM markov_transitions WHERE model_id = ?", model.Id); err != nil {
		return fmt.Errorf("failed to remove transitions for model %d: %w", model.Id, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM markov_training WHERE model_id = ?", model.Id); err != nil {
		return fmt.Errorf("failed to remove training words for model %d: %w", model.Id, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM markov_contexts WHERE context_id NOT IN (SELECT DISTINCT context_id FROM markov_transitions)"); err != nil {
		return fmt.Errorf("failed to remove orphaned contexts: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Model removed successfully",
		slog.String("model_name", model.Name),
		slog.Int("model_id", model.Id),
	)
	return nil
}
