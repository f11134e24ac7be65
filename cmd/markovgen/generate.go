package main

import (
	"fmt"

	"github.com/CTAG07/markovgen/pkg/markov"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	source      modelSource
	count       int
	raw         bool
	maxAttempts int
	maxLength   int
	seed        uint64
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate words from a trained model",
		Long: `Generate words from a model snapshot or a library model, one per line.

By default only novel words are printed, i.e. words that are not part of the
training data. Use --raw to print every generated word.

Examples:
  markovgen generate -m names.json
  markovgen generate --name names -n 20
  markovgen generate -m names.json -n 5 --raw --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, opts)
		},
	}

	opts.source.register(cmd)
	cmd.MarkFlagsOneRequired("model", "name")
	cmd.Flags().IntVarP(&opts.count, "number", "n", 1, "Number of words to generate")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Do not filter out training words")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", -1, "Attempts per novel word, 0 for unbounded (default from config)")
	cmd.Flags().IntVar(&opts.maxLength, "max-length", -1, "Maximum word length, 0 for unbounded (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed the random source for reproducible output")

	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, opts *generateOptions) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	ctx := cmd.Context()

	if opts.count <= 0 {
		return fmt.Errorf("--number must be positive, got %d", opts.count)
	}

	var modelOpts []markov.Option
	if cmd.Flags().Changed("seed") {
		modelOpts = append(modelOpts, markov.WithSeed(opts.seed))
	}
	g, err := a.loadModel(ctx, opts.source, modelOpts...)
	if err != nil {
		return err
	}

	maxAttempts := a.config.MaxAttempts
	if opts.maxAttempts >= 0 {
		maxAttempts = opts.maxAttempts
	}
	maxLength := a.config.MaxLength
	if opts.maxLength >= 0 {
		maxLength = opts.maxLength
	}

	out := cmd.OutOrStdout()
	for res := range g.Stream(ctx, opts.count, !opts.raw,
		markov.WithMaxAttempts(maxAttempts),
		markov.WithMaxLength(maxLength),
	) {
		if res.Err != nil {
			return fmt.Errorf("generating: %w", res.Err)
		}
		fmt.Fprintln(out, res.Word)
	}
	return ctx.Err()
}
