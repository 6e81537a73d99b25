package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dusk-indust/reassemble/internal/discovery"
	"github.com/dusk-indust/reassemble/internal/export"
	"github.com/dusk-indust/reassemble/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newPlanCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [base]",
		Short: "Print the merge tree of each split file as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlans(cmd, flags, args, func(w io.Writer, g discovery.Group, tree *orchestrator.Tree, batchSize int) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(export.ExportPlan(g.Base, batchSize, len(g.Fragments), tree))
			})
		},
	}
}

func newDiagramCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "diagram [base]",
		Short: "Print the merge tree of each split file as a Mermaid graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlans(cmd, flags, args, func(w io.Writer, g discovery.Group, tree *orchestrator.Tree, _ int) error {
				_, err := io.WriteString(w, export.GenerateMermaid(g.Base, tree))
				return err
			})
		},
	}
}

// withPlans plans every discovered group, or only the one named by args[0],
// and hands each tree to render.
func withPlans(
	cmd *cobra.Command,
	flags *cliFlags,
	args []string,
	render func(w io.Writer, g discovery.Group, tree *orchestrator.Tree, batchSize int) error,
) error {
	s, err := loadSettings(cmd, flags)
	if err != nil {
		return err
	}
	groups, err := discovery.Discover(s.cfg.Root, s.cfg.Marker, nil)
	if err != nil {
		return err
	}

	want := ""
	if len(args) == 1 {
		want = filepath.Clean(args[0])
	}
	found := false
	for _, g := range groups {
		if want != "" && filepath.Clean(g.Base) != want {
			continue
		}
		found = true
		tree, err := orchestrator.Plan(g.Fragments, s.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("plan %s: %w", g.Base, err)
		}
		if err := render(cmd.OutOrStdout(), g, tree, s.cfg.BatchSize); err != nil {
			return err
		}
	}
	if want != "" && !found {
		return fmt.Errorf("no fragments found for %s", args[0])
	}
	return nil
}
