package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tidy/internal/manifest"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded organize passes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			store := ctx.store()
			report, err := store.ListReport(limit)
			if err != nil {
				return err
			}
			next, hasNext, err := store.LoadLatestActive()
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				manifests := report.Manifests
				if manifests == nil {
					manifests = []manifest.Manifest{}
				}
				corrupt := make([]string, 0, len(report.Corrupt))
				for _, c := range report.Corrupt {
					corrupt = append(corrupt, c.Path)
				}
				payload := map[string]any{
					"manifests": manifests,
					"corrupt":   corrupt,
				}
				if hasNext {
					payload["next_undoable"] = next.ID
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(report.Manifests) == 0 && len(report.Corrupt) == 0 {
				fmt.Fprintln(out, "No history recorded")
				return nil
			}

			rows := make([][]string, 0, len(report.Manifests))
			for _, m := range report.Manifests {
				cats := make([]string, 0, len(m.Moves))
				for _, c := range m.Categories() {
					cats = append(cats, string(c))
				}
				rows = append(rows, []string{
					m.ID,
					formatAge(m.CreatedAt),
					string(m.Status),
					fmt.Sprintf("%d", m.FileCount),
					strings.Join(cats, ", "),
				})
			}
			fmt.Fprint(out, tableSpec{
				headers: []string{"ID", "Created", "Status", "Files", "Categories"},
				rows:    rows,
				numeric: []int{3},
			}.render())
			for _, c := range report.Corrupt {
				fmt.Fprintf(out, "Corrupt manifest (left in place): %s\n", c.Path)
			}
			if hasNext {
				fmt.Fprintf(out, "Next undoable: tidy undo %s\n", next.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N passes (0 for all)")
	return cmd
}
