package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tidy/internal/category"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the extension table and which categories are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			enabled := category.NewSet(cfg.Categories()...)
			prefix := cfg.Organize.FolderPrefix

			if ctx.JSONMode() {
				type entry struct {
					Category   category.Category `json:"category"`
					Folder     string            `json:"folder"`
					Enabled    bool              `json:"enabled"`
					Extensions []string          `json:"extensions"`
				}
				entries := make([]entry, 0, len(category.All()))
				for _, cat := range category.All() {
					exts := category.Extensions(cat)
					if exts == nil {
						exts = []string{}
					}
					entries = append(entries, entry{
						Category:   cat,
						Folder:     category.FolderName(prefix, cat),
						Enabled:    enabled.Has(cat),
						Extensions: exts,
					})
				}
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(category.All()))
			for _, cat := range category.All() {
				exts := strings.Join(category.Extensions(cat), " ")
				if cat == category.Other {
					exts = "(anything unrecognized)"
				}
				on := "no"
				if enabled.Has(cat) {
					on = "yes"
				}
				rows = append(rows, []string{string(cat), category.FolderName(prefix, cat), on, exts})
			}
			fmt.Fprint(cmd.OutOrStdout(), tableSpec{
				headers: []string{"Category", "Folder", "Enabled", "Extensions"},
				rows:    rows,
			}.render())
			return nil
		},
	}
}
