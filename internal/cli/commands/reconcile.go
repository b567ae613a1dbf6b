package commands

import (
	"fmt"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/spf13/cobra"
)

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "reconcile [workbook]",
		Short: "Rebuild column trees against the current attributes",
		Long: `Rebuild every part's columns from the attributes of its collection or link
type. Existing columns keep their order and width; columns of attributes that
no longer exist are dropped and new attributes are appended.`,
		Example: `  # Show how the columns would change
  leaptable reconcile tasks.yaml

  # Apply the changes
  leaptable reconcile tasks.yaml --write`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, args, write)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write the reconciled workbook back")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string, write bool) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	wb, err := loadWorkbook(cmdCtx, args)
	if err != nil {
		return err
	}

	before := make([][]string, len(wb.Config.Parts))
	for i, part := range wb.Config.Parts {
		before[i] = columns.AttributeIDs(part.Columns)
	}
	wb.Reconcile()

	result := output.ReconcileOutput{Table: wb.Table, Parts: make([]output.ReconcileChange, 0, len(before))}
	changed := false
	for i, part := range wb.Config.Parts {
		after := columns.AttributeIDs(part.Columns)
		change := output.ReconcileChange{Index: i, Added: difference(after, before[i]), Removed: difference(before[i], after)}
		changed = changed || len(change.Added) > 0 || len(change.Removed) > 0
		result.Parts = append(result.Parts, change)
	}

	if write && changed {
		if err := loader.Save(wb, wb.Path); err != nil {
			return err
		}
		result.Written = true
		cmdCtx.Logger.Info("reconciled workbook", "path", wb.Path)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(result)
	}

	for _, change := range result.Parts {
		name := fmt.Sprintf("part %d", change.Index)
		if len(change.Added) == 0 && len(change.Removed) == 0 {
			r.StatusLine(name, output.StatusSkipped, "(unchanged)")
			continue
		}
		r.StatusLine(name, output.StatusSuccess, fmt.Sprintf("+%v -%v", change.Added, change.Removed))
	}
	switch {
	case result.Written:
		r.Success(fmt.Sprintf("wrote %s", wb.Path))
	case changed:
		r.Muted("dry run, pass --write to save")
	}
	return nil
}

// difference returns the ids of a missing from b, in order.
func difference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, id := range b {
		in[id] = true
	}
	out := []string{}
	for _, id := range a {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}
