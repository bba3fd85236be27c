package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tidy/internal/manifest"
	"tidy/internal/organizer"
	"tidy/internal/scanner"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var dryRun, assumeYes bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Move eligible files into category folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, cfg, err := ctx.organizer()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !dryRun && !assumeYes && !ctx.JSONMode() && interactive(cmd) {
				preview, err := org.Preview(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				if preview.TotalFiles == 0 {
					fmt.Fprintln(out, "Nothing to organize")
					return nil
				}
				printPreview(out, cfg.TargetDirectory, preview)
				ok, err := confirm(cmd, false, fmt.Sprintf("Move %s?", plural(preview.TotalFiles, "file")))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			result, runErr := org.Organize(cmd.Context(), cfg, dryRun)
			if runErr != nil && result.MovedCount == 0 {
				return runErr
			}
			if ctx.JSONMode() {
				if err := writeJSON(cmd, organizeJSON(result)); err != nil {
					return err
				}
				return runErr
			}
			printOrganizeResult(ctx, out, cfg.TargetDirectory, result)
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would move without changing anything")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show what organize would move, grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, cfg, err := ctx.organizer()
			if err != nil {
				return err
			}
			preview, err := org.Preview(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, previewJSON(preview))
			}
			out := cmd.OutOrStdout()
			if preview.TotalFiles == 0 {
				fmt.Fprintln(out, "Nothing to organize")
			} else {
				printPreview(out, cfg.TargetDirectory, preview)
			}
			printFileErrors(out, cfg.TargetDirectory, preview.Errors)
			return nil
		},
	}
}

func printPreview(out io.Writer, base string, preview organizer.Preview) {
	fmt.Fprintf(out, "%s (%s) would move in %s\n\n", plural(preview.TotalFiles, "file"), formatSize(preview.TotalSize), base)
	for _, group := range preview.Groups {
		fmt.Fprintf(out, "%s  %s, %s\n", group.Folder, plural(len(group.Files), "file"), formatSize(group.TotalSize))
		for _, f := range group.Files {
			fmt.Fprintf(out, "  %-40s %8s  %dd old\n", f.Name, formatSize(f.Size), f.AgeDays)
		}
	}
	if n := len(preview.Skipped); n > 0 {
		fmt.Fprintf(out, "\nSkipped %s\n", plural(n, "entry"))
	}
}

func printOrganizeResult(ctx *commandContext, out io.Writer, base string, result organizer.Result) {
	switch {
	case result.DryRun && result.MovedCount == 0:
		ctx.printf(out, "Dry run: nothing to organize\n")
	case result.DryRun:
		ctx.printf(out, "Dry run: would move %s\n", plural(result.MovedCount, "file"))
		for _, mv := range result.Moves {
			ctx.printf(out, "  %s -> %s\n", relativeTo(base, mv.Source), relativeTo(base, mv.Destination))
		}
	case result.MovedCount == 0:
		ctx.printf(out, "Nothing to organize\n")
	default:
		ctx.printf(out, "Moved %s\n", plural(result.MovedCount, "file"))
		for _, cat := range (manifest.Manifest{Moves: result.Moves}).Categories() {
			n := 0
			for _, mv := range result.Moves {
				if mv.Category == cat {
					n++
				}
			}
			ctx.printf(out, "  %-10s %d\n", cat, n)
		}
	}
	if result.SkippedCount > 0 {
		ctx.printf(out, "Skipped %s\n", plural(result.SkippedCount, "entry"))
	}
	printFileErrors(out, base, result.Errors)
	if result.ManifestID != "" {
		ctx.printf(out, "Undo with: tidy undo %s\n", result.ManifestID)
	}
}

type skipJSON struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func skipsJSON(skipped []scanner.Skip) []skipJSON {
	out := make([]skipJSON, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, skipJSON{Path: s.Path, Reason: s.Reason})
	}
	return out
}

func organizeJSON(result organizer.Result) map[string]any {
	moves := result.Moves
	if moves == nil {
		moves = []manifest.Move{}
	}
	return map[string]any{
		"dry_run":       result.DryRun,
		"moved_count":   result.MovedCount,
		"skipped_count": result.SkippedCount,
		"manifest_id":   result.ManifestID,
		"moves":         moves,
		"skipped":       skipsJSON(result.Skipped),
		"errors":        fileErrorsJSON(result.Errors),
	}
}

func previewJSON(preview organizer.Preview) map[string]any {
	groups := make([]map[string]any, 0, len(preview.Groups))
	for _, g := range preview.Groups {
		files := make([]map[string]any, 0, len(g.Files))
		for _, f := range g.Files {
			files = append(files, map[string]any{
				"name":        f.Name,
				"source":      f.Source,
				"destination": f.Destination,
				"size_bytes":  f.Size,
				"age_days":    f.AgeDays,
			})
		}
		groups = append(groups, map[string]any{
			"category":         g.Category,
			"folder":           g.Folder,
			"files":            files,
			"total_size_bytes": g.TotalSize,
		})
	}
	return map[string]any{
		"groups":           groups,
		"total_files":      preview.TotalFiles,
		"total_size_bytes": preview.TotalSize,
		"skipped":          skipsJSON(preview.Skipped),
		"errors":           fileErrorsJSON(preview.Errors),
	}
}
