package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/CTAG07/markovgen/pkg/markov"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var source modelSource

	cmd := &cobra.Command{
		Use:   "inspect [TEXT]",
		Short: "Show the transition table after a piece of text",
		Long: `Show which characters can follow TEXT and how likely each one is.

Without TEXT the distribution of first characters is shown. Each row lists
the symbol, its weight, the cumulative weight used for sampling and its share
of the context's total weight.

Examples:
  markovgen inspect -m names.json
  markovgen inspect --name names ann`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			g, err := a.loadModel(cmd.Context(), source)
			if err != nil {
				return err
			}
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return printTransitions(cmd, g.Chain(), text)
		},
	}

	source.register(cmd)
	cmd.MarkFlagsOneRequired("model", "name")

	return cmd
}

func printTransitions(cmd *cobra.Command, chain *markov.Chain, text string) error {
	key, err := chain.ContextFor(text)
	if err != nil {
		return err
	}
	view, ok := chain.Transitions(key)
	if !ok {
		return fmt.Errorf("no transitions after %q: context %q was never seen in training", text, key)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Context %q: total weight %d (largest context %d)\n", view.Context, view.Total, chain.MaxTotal())
	if ends := view.Total - edgeWeight(view.Edges); ends > 0 && text != "" {
		fmt.Fprintf(out, "Word ends here with weight %d (%s)\n", ends, share(ends, view.Total))
	}
	if len(view.Edges) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SYMBOL\tWEIGHT\tCUMULATIVE\tSHARE\n")
	fmt.Fprintf(w, "------\t------\t----------\t-----\n")
	for _, e := range view.Edges {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", strconv.QuoteRune(e.Symbol), e.Weight, e.Cumulative, share(e.Weight, view.Total))
	}
	return w.Flush()
}

// edgeWeight returns the weight covered by the listed edges. End is not
// listed, so the remainder of the total belongs to it.
func edgeWeight(edges []markov.Edge) int {
	sum := 0
	for _, e := range edges {
		sum += e.Weight
	}
	return sum
}

func share(weight, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(weight)/float64(total))
}
