package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/rows"
	"github.com/leapstack-labs/leaptable/internal/tui"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Grid       bool
	ShowHidden bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [workbook]",
		Short: "Summarize a table's parts, rows and hierarchy",
		Long: `Summarize the table of a workbook: its parts and column trees, the row
forest and the document hierarchy of the primary rows.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Inspect the configured workbook
  leaptable inspect

  # Inspect a file and draw the grid
  leaptable inspect tables/tasks.yaml --grid

  # Machine-readable summary
  leaptable inspect tables/tasks.yaml -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "Draw the table grid")
	cmd.Flags().BoolVar(&opts.ShowHidden, "show-hidden", false, "Draw hidden column bundles")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	wb, err := loadWorkbook(cmdCtx, args)
	if err != nil {
		return err
	}

	summary := summarize(wb)
	var grid *tui.Grid
	if opts.Grid {
		ui := cmdCtx.Cfg.GetUIConfig()
		grid = tui.BuildGrid(tui.WorkbookSource(wb), tui.GridOptions{
			ShowHidden:  opts.ShowHidden || ui.ShowHidden,
			HiddenWidth: ui.HiddenWidth,
		})
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if grid != nil {
			summary.Grid = gridLines(grid)
		}
		return r.JSON(summary)
	case output.ModeMarkdown:
		return inspectMarkdown(r, summary, grid)
	default:
		return inspectText(r, summary, grid)
	}
}

// summarize collects the inspect summary of a workbook.
func summarize(wb *loader.Workbook) *output.InspectOutput {
	config := wb.Config
	out := &output.InspectOutput{
		Table:  wb.Table,
		Source: wb.Path,
		Parts:  make([]output.PartInfo, 0, len(config.Parts)),
		Rows:   len(config.Rows),
	}

	for i, part := range config.Parts {
		info := output.PartInfo{
			Index:       i,
			Kind:        "collection",
			Source:      part.CollectionID,
			HeaderDepth: columns.MaxDepth(part.Columns),
			Width:       columns.TotalWidth(part.Columns, false),
		}
		if part.IsLink() {
			info.Kind, info.Source = "link", part.LinkTypeID
		}
		for _, leaf := range columns.LeafColumns(part.Columns) {
			info.Leaves++
			if leaf.Kind() == core.ColumnKindHidden {
				info.HiddenLeaves++
			}
		}
		out.Parts = append(out.Parts, info)
	}

	for _, row := range config.Rows {
		out.Slots += rows.CountVisibleSlots(row)
	}

	docs := wb.DocumentsByID()
	primary := rows.PrimaryDocumentIDs(config.Rows)
	out.Hierarchy = make([]output.HierarchyEntry, 0, len(config.Rows))
	for i, row := range config.Rows {
		out.Hierarchy = append(out.Hierarchy, output.HierarchyEntry{
			Index:      i,
			DocumentID: row.DocumentID,
			ParentID:   rows.EffectiveParentID(row, docs),
			Level:      rows.HierarchyLevel(row, primary, docs),
		})
	}
	out.HierarchyOrdered = rows.ValidateHierarchicalOrder(config.Rows, docs)
	if !out.HierarchyOrdered {
		for _, row := range rows.SortByHierarchy(config.Rows, docs) {
			out.SuggestedOrder = append(out.SuggestedOrder, row.DocumentID)
		}
	}
	return out
}

func partTable(s *output.InspectOutput) ([]string, [][]string) {
	headers := []string{"part", "kind", "source", "leaves", "hidden", "depth", "width"}
	table := make([][]string, 0, len(s.Parts))
	for _, p := range s.Parts {
		table = append(table, []string{
			strconv.Itoa(p.Index), p.Kind, p.Source, strconv.Itoa(p.Leaves),
			strconv.Itoa(p.HiddenLeaves), strconv.Itoa(p.HeaderDepth), strconv.Itoa(p.Width),
		})
	}
	return headers, table
}

func hierarchyLine(e output.HierarchyEntry) string {
	id := e.DocumentID
	if id == "" {
		id = "(unsaved)"
	}
	return strings.Repeat("  ", e.Level) + id
}

func inspectText(r *output.Renderer, s *output.InspectOutput, grid *tui.Grid) error {
	r.Header(1, fmt.Sprintf("Table %s", s.Table))
	if s.Source != "" {
		r.Muted(s.Source)
	}
	r.Println()

	headers, table := partTable(s)
	if err := r.Table(headers, table); err != nil {
		return err
	}
	r.Println()

	r.Header(2, fmt.Sprintf("Rows (%d rows, %d slots)", s.Rows, s.Slots))
	for _, e := range s.Hierarchy {
		r.Println(hierarchyLine(e))
	}
	if s.HierarchyOrdered {
		r.Success("hierarchy order is valid")
	} else {
		r.StatusLine("hierarchy order is broken", output.StatusFailed, "expected: "+strings.Join(s.SuggestedOrder, ", "))
	}

	if grid != nil {
		r.Println()
		printGrid(r, grid, nil)
	}
	return nil
}

func inspectMarkdown(r *output.Renderer, s *output.InspectOutput, grid *tui.Grid) error {
	r.Header(1, fmt.Sprintf("Table %s", s.Table))
	if s.Source != "" {
		r.Println(output.FormatKeyValue("Source", s.Source))
	}
	r.Println(output.FormatKeyValue("Rows", strconv.Itoa(s.Rows)))
	r.Println(output.FormatKeyValue("Slots", strconv.Itoa(s.Slots)))
	r.Println(output.FormatKeyValue("Hierarchy Ordered", strconv.FormatBool(s.HierarchyOrdered)))
	if !s.HierarchyOrdered {
		r.Println(output.FormatKeyValue("Suggested Order", strings.Join(s.SuggestedOrder, ", ")))
	}
	r.Println()

	r.Header(2, "Parts")
	headers, table := partTable(s)
	if err := r.Table(headers, table); err != nil {
		return err
	}
	r.Println()

	r.Header(2, "Hierarchy")
	for _, e := range s.Hierarchy {
		r.Println(strings.Repeat("  ", e.Level) + "- " + strings.TrimLeft(hierarchyLine(e), " "))
	}
	r.Println()

	if grid != nil {
		r.Header(2, "Grid")
		printGrid(r, grid, nil)
	}
	return nil
}
