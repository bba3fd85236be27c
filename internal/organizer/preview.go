package organizer

import (
	"context"
	"path/filepath"

	"tidy/internal/category"
	"tidy/internal/folders"
	"tidy/internal/logging"
	"tidy/internal/ops"
	"tidy/internal/scanner"
)

// PreviewFile is one planned relocation.
type PreviewFile struct {
	Name        string
	Source      string
	Destination string
	Size        int64
	AgeDays     int
}

// PreviewGroup collects the planned relocations into one category folder.
type PreviewGroup struct {
	Category  category.Category
	Folder    string
	Files     []PreviewFile
	TotalSize int64
}

// Preview is a dry-run grouped by category in canonical order.
type Preview struct {
	Groups     []PreviewGroup
	TotalFiles int
	TotalSize  int64
	Skipped    []scanner.Skip
	Errors     []FileError
}

// Preview plans an organize pass without changing anything on disk.
func (o *Organizer) Preview(ctx context.Context, cfg Config) (Preview, error) {
	ctx = ops.WithOperation(ctx, "preview")
	logger := logging.WithContext(ctx, o.logger)

	cfg, err := cfg.normalized()
	if err != nil {
		return Preview{}, err
	}
	result, items, err := o.run(ctx, logger, cfg, true)
	if err != nil {
		return Preview{}, err
	}

	byCategory := make(map[category.Category]*PreviewGroup)
	for _, item := range items {
		cat := item.candidate.Category
		group, ok := byCategory[cat]
		if !ok {
			group = &PreviewGroup{
				Category: cat,
				Folder:   filepath.Base(cfg.FolderPath(cat)),
			}
			byCategory[cat] = group
		}
		group.Files = append(group.Files, PreviewFile{
			Name:        item.candidate.Name,
			Source:      item.candidate.Path,
			Destination: item.destination,
			Size:        item.candidate.Size,
			AgeDays:     item.candidate.AgeDays,
		})
		group.TotalSize += item.candidate.Size
	}

	preview := Preview{Skipped: result.Skipped, Errors: result.Errors}
	for _, cat := range category.All() {
		group, ok := byCategory[cat]
		if !ok {
			continue
		}
		preview.Groups = append(preview.Groups, *group)
		preview.TotalFiles += len(group.Files)
		preview.TotalSize += group.TotalSize
	}
	return preview, nil
}

// Stats summarizes the target directory: what an organize pass would pick
// up, why the rest is skipped, and what the category folders already hold.
type Stats struct {
	TotalEligible int
	EligibleSize  int64
	PerCategory   map[category.Category]int
	Skipped       map[string]int
	Folders       []folders.DirInfo
}

// Stats scans cfg.TargetDirectory without moving anything.
func (o *Organizer) Stats(ctx context.Context, cfg Config) (Stats, error) {
	ctx = ops.WithOperation(ctx, "stats")
	logger := logging.WithContext(ctx, o.logger)

	cfg, err := cfg.normalized()
	if err != nil {
		return Stats{}, err
	}
	scan, err := scanner.Scan(ctx, cfg.TargetDirectory, scanner.Options{
		MinAgeDays: cfg.MinimumFileAgeDays,
		Enabled:    category.NewSet(cfg.EnabledCategories...),
		Now:        o.now,
		LockProbe:  o.lockProbe,
		Logger:     logger,
	})
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalEligible: len(scan.Candidates),
		PerCategory:   make(map[category.Category]int),
		Skipped:       scanner.CountReasons(scan.Skipped),
	}
	for _, cand := range scan.Candidates {
		stats.PerCategory[cand.Category]++
		stats.EligibleSize += cand.Size
	}
	dirs, err := folders.List(cfg.TargetDirectory, cfg.CategoryFolderPrefix)
	if err != nil {
		return stats, ops.Wrap(ops.ErrScan, "organizer", "stats", "inspect category folders", err)
	}
	stats.Folders = dirs
	return stats, nil
}
