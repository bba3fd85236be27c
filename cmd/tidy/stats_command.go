package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/category"
	"tidy/internal/folders"
	"tidy/internal/scanner"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the target directory and its category folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, cfg, err := ctx.organizer()
			if err != nil {
				return err
			}
			stats, err := org.Stats(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				dirs := stats.Folders
				if dirs == nil {
					dirs = []folders.DirInfo{}
				}
				return writeJSON(cmd, map[string]any{
					"target_dir":          cfg.TargetDirectory,
					"eligible":            stats.TotalEligible,
					"eligible_size_bytes": stats.EligibleSize,
					"per_category":        stats.PerCategory,
					"skipped":             stats.Skipped,
					"folders":             dirs,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Target: %s\n", cfg.TargetDirectory)
			fmt.Fprintf(out, "Ready to organize: %s (%s)\n", plural(stats.TotalEligible, "file"), formatSize(stats.EligibleSize))
			for _, cat := range category.All() {
				if n := stats.PerCategory[cat]; n > 0 {
					fmt.Fprintf(out, "  %-10s %d\n", cat, n)
				}
			}
			if len(stats.Skipped) > 0 {
				fmt.Fprintln(out, "Left in place:")
				for _, reason := range []string{
					category.ReasonDirectory, category.ReasonHidden, category.ReasonTooRecent,
					category.ReasonDisabled, scanner.ReasonLocked, scanner.ReasonStatFailed, scanner.ReasonIrregular,
				} {
					if n := stats.Skipped[reason]; n > 0 {
						fmt.Fprintf(out, "  %-18s %d\n", reason, n)
					}
				}
			}
			if len(stats.Folders) == 0 {
				return nil
			}

			dirs := append([]folders.DirInfo(nil), stats.Folders...)
			folders.SortBySize(dirs)
			rows := make([][]string, 0, len(dirs))
			var totalFiles int
			var totalSize int64
			for _, d := range dirs {
				rows = append(rows, []string{d.Name, fmt.Sprintf("%d", d.Files), formatSize(d.Size), formatAge(d.ModTime)})
				totalFiles += d.Files
				totalSize += d.Size
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, tableSpec{
				headers: []string{"Folder", "Files", "Size", "Modified"},
				rows:    rows,
				footer:  []string{"Total", fmt.Sprintf("%d", totalFiles), formatSize(totalSize), ""},
				numeric: []int{1, 2, 3},
			}.render())
			return nil
		},
	}
}
