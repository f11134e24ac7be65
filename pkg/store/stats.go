package store

import (
	"context"

	"github.com/CTAG07/markovgen/pkg/markov"
)

// DBStats holds aggregated statistics for the entire database, including a
// list of all models and their individual stats.
type DBStats struct {
	Models      []ModelInfo        // A list of models in the database
	Stats       map[int]ModelStats // A mapping of model ids to their stats
	ContextSize int                // The number of unique context keys across all models
}

// ModelStats holds aggregated statistics for a single stored model.
type ModelStats struct {
	Contexts        int // The number of context keys the model uses.
	Transitions     int // The number of unique context->symbol links.
	TotalWeight     int // The sum of all weights; the total number of trained transitions.
	StartingSymbols int // The number of unique characters that can start a word.
	TrainingWords   int // The number of distinct training words.
}

// GetStats returns a snapshot of statistics for the entire database,
// including global counts and per-model stats.
func (s *Store) GetStats(ctx context.Context) (*DBStats, error) {
	modelInfos, err := s.GetModelInfos(ctx)
	if err != nil {
		return nil, err
	}

	var contextLen int
	if err = s.stmtGetContextLen.QueryRowContext(ctx).Scan(&contextLen); err != nil {
		return nil, err
	}

	models := make([]ModelInfo, 0, len(modelInfos))
	modelStats := make(map[int]ModelStats, len(modelInfos))
	for _, v := range modelInfos {
		models = append(models, v)
		stats, err := s.modelStats(ctx, v.Id)
		if err != nil {
			return nil, err
		}
		modelStats[v.Id] = stats
	}

	return &DBStats{
		Models:      models,
		Stats:       modelStats,
		ContextSize: contextLen,
	}, nil
}

// GetModelStats returns the statistics of a single model.
func (s *Store) GetModelStats(ctx context.Context, model ModelInfo) (ModelStats, error) {
	return s.modelStats(ctx, model.Id)
}

func (s *Store) modelStats(ctx context.Context, modelId int) (ModelStats, error) {
	var stats ModelStats
	if err := s.stmtModelContexts.QueryRowContext(ctx, modelId).Scan(&stats.Contexts); err != nil {
		return ModelStats{}, err
	}
	if err := s.stmtModelTransitions.QueryRowContext(ctx, modelId).Scan(&stats.Transitions); err != nil {
		return ModelStats{}, err
	}
	if err := s.stmtModelWeight.QueryRowContext(ctx, modelId).Scan(&stats.TotalWeight); err != nil {
		return ModelStats{}, err
	}
	if err := s.stmtModelStarters.QueryRowContext(ctx, modelId, markov.StartKey).Scan(&stats.StartingSymbols); err != nil {
		return ModelStats{}, err
	}
	if err := s.stmtModelTraining.QueryRowContext(ctx, modelId).Scan(&stats.TrainingWords); err != nil {
		return ModelStats{}, err
	}
	return stats, nil
}
