package main

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableSpec describes a rounded go-pretty table. Columns listed in numeric
// are right-aligned; footer, when set, is drawn as a summary row.
type tableSpec struct {
	headers []string
	rows    [][]string
	footer  []string
	numeric []int
}

func (s tableSpec) render() string {
	width := len(s.headers)
	if width == 0 {
		return ""
	}
	pad := func(cells []string) table.Row {
		row := make(table.Row, width)
		for i := range row {
			row[i] = ""
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		return row
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(pad(s.headers))
	for _, r := range s.rows {
		tw.AppendRow(pad(r))
	}
	if len(s.footer) > 0 {
		tw.AppendFooter(pad(s.footer))
	}

	configs := make([]table.ColumnConfig, width)
	for i := range configs {
		align := text.AlignLeft
		if slices.Contains(s.numeric, i) {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignFooter: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render() + "\n"
}
