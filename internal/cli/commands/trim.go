package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/persist"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// NewTrimCommand creates the trim command.
func NewTrimCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "trim [workbook]",
		Short: "Drop trailing placeholder columns and rows",
		Long: `Drop the placeholders a table config would not persist: trailing columns
that are not bound to an attribute and trailing rows without a document, at
every level. Without --write only the counts are reported.`,
		Example: `  # Report what would be trimmed
  leaptable trim tasks.yaml

  # Trim the file in place
  leaptable trim tasks.yaml --write`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrim(cmd, args, write)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write the trimmed workbook back")

	return cmd
}

func runTrim(cmd *cobra.Command, args []string, write bool) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	wb, err := loadWorkbook(cmdCtx, args)
	if err != nil {
		return err
	}

	trimmed := persist.FilterConfig(&wb.Config)
	result := output.TrimOutput{
		Table:          wb.Table,
		ColumnsRemoved: countColumns(wb.Config) - countColumns(*trimmed),
		RowsRemoved:    countRows(wb.Config.Rows) - countRows(trimmed.Rows),
	}

	if write && (result.ColumnsRemoved > 0 || result.RowsRemoved > 0) {
		wb.Config = *trimmed
		if err := loader.Save(wb, wb.Path); err != nil {
			return err
		}
		result.Written = true
		cmdCtx.Logger.Info("trimmed workbook", "path", wb.Path,
			"columns", result.ColumnsRemoved, "rows", result.RowsRemoved)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(result)
	}

	r.StatusLine("columns", trimStatus(result.ColumnsRemoved), strconv.Itoa(result.ColumnsRemoved)+" removed")
	r.StatusLine("rows", trimStatus(result.RowsRemoved), strconv.Itoa(result.RowsRemoved)+" removed")
	switch {
	case result.Written:
		r.Success(fmt.Sprintf("wrote %s", wb.Path))
	case write:
		r.Muted("nothing to trim")
	case result.ColumnsRemoved > 0 || result.RowsRemoved > 0:
		r.Muted("dry run, pass --write to save")
	}
	return nil
}

func trimStatus(n int) string {
	if n == 0 {
		return output.StatusSkipped
	}
	return output.StatusSuccess
}

func countColumns(config core.TableConfig) int {
	n := 0
	var walk func(core.Columns)
	walk = func(cols core.Columns) {
		for _, c := range cols {
			n++
			if compound, ok := c.(*core.CompoundColumn); ok {
				walk(compound.Children)
			}
		}
	}
	for _, part := range config.Parts {
		walk(part.Columns)
	}
	return n
}

func countRows(forest []core.Row) int {
	n := 0
	for _, row := range forest {
		n += 1 + countRows(row.LinkedRows)
	}
	return n
}
