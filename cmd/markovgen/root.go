package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CTAG07/markovgen/pkg/markov"
	"github.com/CTAG07/markovgen/pkg/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	verbose    bool

	config *Config
	logger *slog.Logger
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "markovgen",
		Short: "Generate new words with character-level Markov chains",
		Long: `markovgen trains a character-level Markov chain on a word list and
generates new words that follow the same spelling patterns.

Models are written to JSON files or kept in a SQLite model library.

Examples:
  markovgen train -w names.txt
  markovgen generate -m names.json -n 10
  markovgen train -w names.txt --name names
  markovgen generate --name names -n 10`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "./markovgen.json", "Path to the JSON config file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newTrainCmd(a),
		newGenerateCmd(a),
		newInspectCmd(a),
		newModelsCmd(a),
		newStatsCmd(a),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// setup loads the configuration and builds the logger. It is called by
// every command that needs configuration.
func (a *app) setup(cmd *cobra.Command) error {
	if a.config != nil {
		return nil
	}

	_ = godotenv.Load()

	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, _ := parseLogLevel(config.LogLevel)
	if a.verbose {
		level = slog.LevelDebug
	}

	a.config = config
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// openStore opens the model library and returns it together with a function
// that releases it.
func (a *app) openStore() (*store.Store, func(), error) {
	if dir := filepath.Dir(a.config.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := initDB(a.config.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err = store.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("setting up database: %w", err)
	}

	s, err := store.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("initializing store: %w", err)
	}
	s.SetLogger(a.logger)

	return s, func() {
		s.Close()
		closeDB(a.logger, db)
	}, nil
}

func closeDB(logger *slog.Logger, db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("Failed to close database", slog.Any("error", err))
	}
}

// modelSource names where a command reads its model from: a snapshot file or
// a model in the library.
type modelSource struct {
	file string
	name string
}

func (m *modelSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&m.file, "model", "m", "", "Model snapshot file")
	cmd.Flags().StringVar(&m.name, "name", "", "Model name in the library")
	cmd.MarkFlagsMutuallyExclusive("model", "name")
}

func (m *modelSource) set() bool {
	return m.file != "" || m.name != ""
}

// loadModel reads the model from src.
func (a *app) loadModel(ctx context.Context, src modelSource, opts ...markov.Option) (*markov.Generator, error) {
	var (
		g   *markov.Generator
		err error
	)
	switch {
	case src.file != "":
		var f *os.File
		if f, err = os.Open(src.file); err != nil {
			return nil, fmt.Errorf("opening model: %w", err)
		}
		defer func(f *os.File) {
			_ = f.Close()
		}(f)
		if g, err = markov.Import(f, opts...); err != nil {
			return nil, fmt.Errorf("reading model %s: %w", src.file, err)
		}
	case src.name != "":
		s, release, err := a.openStore()
		if err != nil {
			return nil, err
		}
		defer release()
		if g, err = s.LoadModel(ctx, src.name, opts...); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("one of --model or --name is required")
	}

	g.SetLogger(a.logger)
	return g, nil
}
