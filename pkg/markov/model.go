package markov

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"
)

// SnapshotVersion is the schema version written by Snapshot and Export.
const SnapshotVersion = 1

// Snapshot is the serializable representation of a trained Generator, used
// for JSON export and import and by the SQLite store.
type Snapshot struct {
	Version     int                  `json:"version"`
	ID          string               `json:"id"`
	Name        string               `json:"name,omitempty"`
	Order       int                  `json:"order"`
	Transitions []ExportedTransition `json:"transitions"`
	Training    []string             `json:"training"`
}

// ExportedTransition is the serializable form of one context's Sampler.
// Symbols keep their first-seen order and each holds exactly one character;
// Weights are the per-symbol weights, not cumulative values.
type ExportedTransition struct {
	Context string   `json:"context"`
	Symbols []string `json:"symbols"`
	Weights []int    `json:"weights"`
}

// Snapshot captures the chain and training set. Transitions are sorted by
// context and training words alphabetically, so equal models produce equal
// snapshots.
func (g *Generator) Snapshot() Snapshot {
	c := g.chain
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.table))
	for key := range c.table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	transitions := make([]ExportedTransition, 0, len(keys))
	for _, key := range keys {
		s := c.table[key]
		symbols := make([]string, len(s.elements))
		for i, r := range s.elements {
			symbols[i] = string(r)
		}
		transitions = append(transitions, ExportedTransition{
			Context: key,
			Symbols: symbols,
			Weights: s.Weights(),
		})
	}

	training := make([]string, 0, len(g.training))
	for word := range g.training {
		training = append(training, word)
	}
	sort.Strings(training)

	return Snapshot{
		Version:     SnapshotVersion,
		ID:          g.id.String(),
		Name:        g.name,
		Order:       c.order,
		Transitions: transitions,
		Training:    training,
	}
}

// FromSnapshot rebuilds a Generator from a snapshot. The snapshot is fully
// validated; sampling distributions, first-seen symbol order and training-set
// membership are reproduced exactly.
func FromSnapshot(snap Snapshot, opts ...Option) (*Generator, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrUnsupportedVersion, snap.Version, SnapshotVersion)
	}

	id := uuid.New()
	if snap.ID != "" {
		parsed, err := uuid.Parse(snap.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q: %w", ErrInvalidSnapshot, snap.ID, err)
		}
		id = parsed
	}

	chain, err := NewChain(snap.Order, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	for _, tr := range snap.Transitions {
		if err := chain.restore(tr); err != nil {
			return nil, fmt.Errorf("%w: context %q: %w", ErrInvalidSnapshot, tr.Context, err)
		}
	}
	if len(chain.table) > 0 {
		if _, ok := chain.table[StartKey]; !ok {
			return nil, fmt.Errorf("%w: missing start context", ErrInvalidSnapshot)
		}
	}

	g := newGenerator(id, chain)
	g.name = snap.Name
	for _, word := range snap.Training {
		if _, err := prepareWord(word); err != nil {
			return nil, fmt.Errorf("%w: training word: %w", ErrInvalidSnapshot, err)
		}
		g.training[word] = struct{}{}
	}
	return g, nil
}

// restore adds one exported transition to an unshared chain.
func (c *Chain) restore(tr ExportedTransition) error {
	isStart := tr.Context == StartKey
	if !utf8.ValidString(tr.Context) {
		return ErrInvalidEncoding
	}
	keyLen := utf8.RuneCountInString(tr.Context)
	if !isStart && keyLen != c.order {
		return fmt.Errorf("key has %d characters, order is %d", keyLen, c.order)
	}
	for _, r := range tr.Context {
		if r == End {
			return fmt.Errorf("key contains the end marker")
		}
	}
	if _, dup := c.table[tr.Context]; dup {
		return fmt.Errorf("duplicate context")
	}
	if len(tr.Symbols) != len(tr.Weights) {
		return fmt.Errorf("%d symbols but %d weights", len(tr.Symbols), len(tr.Weights))
	}
	if len(tr.Symbols) == 0 {
		return ErrEmptySampler
	}

	s := NewSampler()
	for i, text := range tr.Symbols {
		if utf8.RuneCountInString(text) != 1 || !utf8.ValidString(text) {
			return fmt.Errorf("symbol %q is not a single character", text)
		}
		symbol, _ := utf8.DecodeRuneInString(text)
		if symbol == Start || (isStart && symbol == End) {
			return fmt.Errorf("%w: %q", ErrReservedSymbol, text)
		}
		if s.Weight(symbol) > 0 {
			return fmt.Errorf("duplicate symbol %q", text)
		}
		if err := s.Add(symbol, tr.Weights[i]); err != nil {
			return err
		}
	}
	c.table[tr.Context] = s
	return nil
}

// Export serializes the Generator as indented JSON and writes it to w.
func (g *Generator) Export(w io.Writer) error {
	snap := g.Snapshot()

	g.logger.Info("Model exported",
		slog.String("model_id", snap.ID),
		slog.Int("order", snap.Order),
		slog.Int("contexts_exported", len(snap.Transitions)),
		slog.Int("training_words_exported", len(snap.Training)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

// Import reads a JSON snapshot written by Export from r and rebuilds the
// Generator it describes.
func Import(r io.Reader, opts ...Option) (*Generator, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode json model: %w", err)
	}
	return FromSnapshot(snap, opts...)
}
