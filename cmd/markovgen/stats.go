package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var source modelSource

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show model statistics",
		Long: `Show statistics for one model given with --model or --name, or for every
model in the library when neither is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			if source.set() {
				return printModelStats(cmd, a, source)
			}
			return printLibraryStats(cmd, a)
		},
	}

	source.register(cmd)
	return cmd
}

func printModelStats(cmd *cobra.Command, a *app, source modelSource) error {
	g, err := a.loadModel(cmd.Context(), source)
	if err != nil {
		return err
	}
	stats := g.Stats()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Model:\t%s\n", g.ID())
	if g.Name() != "" {
		fmt.Fprintf(w, "Name:\t%s\n", g.Name())
	}
	fmt.Fprintf(w, "Order:\t%d\n", g.Chain().Order())
	fmt.Fprintf(w, "Training words:\t%d\n", stats.TrainingWords)
	fmt.Fprintf(w, "Contexts:\t%d\n", stats.Contexts)
	fmt.Fprintf(w, "Transitions:\t%d\n", stats.Transitions)
	fmt.Fprintf(w, "Total weight:\t%d\n", stats.TotalWeight)
	fmt.Fprintf(w, "Starting symbols:\t%d\n", stats.StartingSymbols)
	fmt.Fprintf(w, "Largest context:\t%d\n", stats.MaxTotal)
	return w.Flush()
}

func printLibraryStats(cmd *cobra.Command, a *app) error {
	s, release, err := a.openStore()
	if err != nil {
		return err
	}
	defer release()

	dbStats, err := s.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Models: %d, shared contexts: %d\n", len(dbStats.Models), dbStats.ContextSize)
	if len(dbStats.Models) == 0 {
		return nil
	}

	models := dbStats.Models
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tORDER\tWORDS\tCONTEXTS\tTRANSITIONS\tWEIGHT\tSTARTERS\n")
	for _, m := range models {
		st := dbStats.Stats[m.Id]
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			m.Name, m.Order, st.TrainingWords, st.Contexts, st.Transitions, st.TotalWeight, st.StartingSymbols)
	}
	return w.Flush()
}
