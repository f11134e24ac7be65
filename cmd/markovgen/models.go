package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the model library",
		Long: `List, remove, export and import models stored in the SQLite model library.

Examples:
  markovgen models list
  markovgen models export names -o names.json
  markovgen models import names.json --name names-copy
  markovgen models remove names`,
	}

	cmd.AddCommand(
		newModelsListCmd(a),
		newModelsRemoveCmd(a),
		newModelsExportCmd(a),
		newModelsImportCmd(a),
	)
	return cmd
}

func newModelsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List models in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			s, release, err := a.openStore()
			if err != nil {
				return err
			}
			defer release()

			infos, err := s.GetModelInfos(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing models: %w", err)
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No models found")
				return nil
			}

			names := make([]string, 0, len(infos))
			for name := range infos {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tORDER\tCREATED\tID\n")
			fmt.Fprintf(w, "----\t-----\t-------\t--\n")
			for _, name := range names {
				info := infos[name]
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.Name, info.Order, info.CreatedAt.Format("2006-01-02 15:04"), info.UUID)
			}
			return w.Flush()
		},
	}
}

func newModelsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a model from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			s, release, err := a.openStore()
			if err != nil {
				return err
			}
			defer release()

			info, err := s.GetModelInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err = s.RemoveModel(cmd.Context(), info); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed model %q\n", info.Name)
			return nil
		},
	}
}

func newModelsExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Export a library model to a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			name := args[0]
			g, err := a.loadModel(cmd.Context(), modelSource{name: name})
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = name + ".json"
			}
			if err = writeSnapshot(path, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported model %q -> %s\n", name, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Snapshot file to write (default <NAME>.json)")
	return cmd
}

func newModelsImportCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a snapshot file into the library",
		Long: `Import a snapshot file into the library. The model is stored under --name,
the name recorded in the snapshot, or the file name, in that order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			path := args[0]
			g, err := a.loadModel(cmd.Context(), modelSource{file: path})
			if err != nil {
				return err
			}

			switch {
			case name != "":
				g.SetName(name)
			case g.Name() == "":
				g.SetName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			}
			return saveToLibrary(cmd, a, g, false)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Library name for the imported model")
	return cmd
}
