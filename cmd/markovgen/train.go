package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/markovgen/pkg/markov"
	"github.com/CTAG07/markovgen/pkg/store"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

type trainOptions struct {
	wordlist string
	order    int
	output   string
	name     string
	force    bool
}

func newTrainCmd(a *app) *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model on a word list",
		Long: `Train a character-level Markov chain on a word list with one word per
line. Surrounding whitespace is trimmed and blank lines are skipped.

The model is written to a JSON snapshot named after the word list, or saved
into the model library when --name is given.

Examples:
  markovgen train -w names.txt
  markovgen train -w names.txt -o 4 -m names-4.json
  markovgen train -w names.txt --name names --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.wordlist, "wordlist", "w", "", "Word list to train on (required)")
	cmd.Flags().IntVarP(&opts.order, "order", "o", 0, "Markov chain order (default from config, 8)")
	cmd.Flags().StringVarP(&opts.output, "model", "m", "", "Snapshot file to write (default <wordlist>.json)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Save the model into the library under this name")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Replace a library model with the same name")
	_ = cmd.MarkFlagRequired("wordlist")
	cmd.MarkFlagsMutuallyExclusive("model", "name")

	return cmd
}

func runTrain(cmd *cobra.Command, a *app, opts *trainOptions) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	ctx := cmd.Context()

	order := opts.order
	if order == 0 {
		order = a.config.Order
	}

	f, err := os.Open(opts.wordlist)
	if err != nil {
		return fmt.Errorf("opening word list: %w", err)
	}
	words, err := markov.ReadWords(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("reading word list: %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("word list %s contains no words", opts.wordlist)
	}

	g, err := markov.NewGenerator(order)
	if err != nil {
		return err
	}
	g.SetLogger(a.logger)
	if err = g.Train(ctx, words); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(opts.wordlist), filepath.Ext(opts.wordlist))
	if opts.name != "" {
		g.SetName(opts.name)
		return saveToLibrary(cmd, a, g, opts.force)
	}

	g.SetName(base)
	output := opts.output
	if output == "" {
		output = base + ".json"
	}
	if err = writeSnapshot(output, g); err != nil {
		return err
	}

	stats := g.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Trained order-%d model on %d words (%d contexts) -> %s\n",
		order, stats.TrainingWords, stats.Contexts, output)
	return nil
}

func saveToLibrary(cmd *cobra.Command, a *app, g *markov.Generator, force bool) error {
	ctx := cmd.Context()
	s, release, err := a.openStore()
	if err != nil {
		return err
	}
	defer release()

	name := g.Name()
	if force {
		existing, err := s.GetModelInfo(ctx, name)
		switch {
		case err == nil:
			if err = s.RemoveModel(ctx, existing); err != nil {
				return fmt.Errorf("replacing model %q: %w", name, err)
			}
		case !errors.Is(err, store.ErrModelNotFound):
			return err
		}
	}

	info, err := s.SaveModel(ctx, name, g)
	if errors.Is(err, store.ErrModelExists) {
		return fmt.Errorf("%w (use --force to replace it)", err)
	}
	if err != nil {
		return err
	}

	a.logger.DebugContext(ctx, "Model stored",
		slog.String("model_name", info.Name),
		slog.Int("model_id", info.Id),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Saved order-%d model with %d training words -> library model %q\n",
		info.Order, g.TrainingSize(), info.Name)
	return nil
}

// writeSnapshot exports g to path, replacing any existing file atomically.
func writeSnapshot(path string, g *markov.Generator) error {
	var buf bytes.Buffer
	if err := g.Export(&buf); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing model %s: %w", path, err)
	}
	return nil
}
