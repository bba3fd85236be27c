package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/organizer"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "undo [manifest-id]",
		Short: "Move files from an organize pass back where they were",
		Long: `Undo restores the files moved by one organize pass. Without an argument
it targets the most recent pass; if that pass was already undone, pick another
one from "tidy history".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, _, err := ctx.organizer()
			if err != nil {
				return err
			}
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			out := cmd.OutOrStdout()

			if !assumeYes && !ctx.JSONMode() && interactive(cmd) {
				m, err := org.UndoPreview(cmd.Context(), ref)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pass %s (%s) moved %s in %s\n", m.ID, formatAge(m.CreatedAt), plural(m.FileCount, "file"), m.TargetDirectory)
				ok, err := confirm(cmd, false, "Restore them?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			result, err := org.Undo(cmd.Context(), ref)
			if err != nil && result.ManifestID == "" {
				return err
			}
			if ctx.JSONMode() {
				if jerr := writeJSON(cmd, undoJSON(result)); jerr != nil {
					return jerr
				}
				return err
			}
			printUndoResult(ctx, cmd, result)
			return err
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func printUndoResult(ctx *commandContext, cmd *cobra.Command, result organizer.UndoResult) {
	out := cmd.OutOrStdout()
	ctx.printf(out, "Restored %s from %s\n", plural(result.RestoredCount, "file"), result.ManifestID)
	for _, r := range result.Restored {
		if r.Path != r.Original {
			ctx.printf(out, "  %s restored as %s (original name taken)\n", r.Original, r.Path)
		}
	}
	if n := len(result.RemovedFolders); n > 0 {
		ctx.printf(out, "Removed %s\n", plural(n, "empty folder"))
	}
	printFileErrors(out, "", result.Errors)
}

func undoJSON(result organizer.UndoResult) map[string]any {
	restored := make([]map[string]string, 0, len(result.Restored))
	for _, r := range result.Restored {
		restored = append(restored, map[string]string{
			"from":     r.From,
			"path":     r.Path,
			"original": r.Original,
		})
	}
	folders := result.RemovedFolders
	if folders == nil {
		folders = []string{}
	}
	return map[string]any{
		"manifest_id":     result.ManifestID,
		"restored_count":  result.RestoredCount,
		"restored":        restored,
		"removed_folders": folders,
		"errors":          fileErrorsJSON(result.Errors),
	}
}
