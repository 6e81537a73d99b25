package main

import (
	"fmt"
	"io"

	"github.com/dusk-indust/reassemble/internal/status"
	"github.com/spf13/cobra"
)

func newStatusCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List split files waiting to be rebuilt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}
			groups, err := status.Survey(s.cfg)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), groups, s.cfg.BatchSize)
			return nil
		},
	}
}

func printStatus(w io.Writer, groups []status.GroupStatus, batchSize int) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No fragments found.")
		return
	}
	fmt.Fprintf(w, "Batch size %d\n\n", batchSize)
	for _, g := range groups {
		marker := "  "
		if g.TargetExists {
			marker = "!!"
		}
		fmt.Fprintf(w, "  %s %s\n", marker, g.Base)
		fmt.Fprintf(w, "     %d fragments, %d bytes, %d tasks, height %d\n",
			g.Fragments, g.Bytes, g.Tasks, g.Height)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "!! marks a target that already exists and will be replaced.")
}
