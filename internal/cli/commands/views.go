package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/state"
	"github.com/spf13/cobra"
)

const defaultViewName = "default"

// NewViewsCommand creates the views command and its subcommands.
func NewViewsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Save, list and restore table views",
		Long: `Manage saved views. A view is a named, trimmed copy of a table config,
optionally with the cursor it was saved at. Views live in the state database
(state_path in leaptable.yaml, --state on the command line).`,
		Example: `  # Save the configured workbook's layout as "triage"
  leaptable views save --name triage

  # List every saved view
  leaptable views list

  # Write a saved layout back into a workbook
  leaptable views restore triage tasks.yaml --write`,
	}

	cmd.AddCommand(
		newViewsSaveCommand(),
		newViewsListCommand(),
		newViewsShowCommand(),
		newViewsDeleteCommand(),
		newViewsImportCommand(),
		newViewsRestoreCommand(),
	)
	return cmd
}

func newViewsSaveCommand() *cobra.Command {
	var name, cursorSpec string
	cmd := &cobra.Command{
		Use:   "save [workbook]",
		Short: "Save a workbook's table layout as a view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			wb, err := loadWorkbook(cmdCtx, args)
			if err != nil {
				return err
			}
			view := &state.View{TableID: wb.Table, Name: name, SourcePath: absPath(wb.Path), Config: wb.Config}
			if cursorSpec != "" {
				if view.Cursor, err = parseCursor(wb.Table, cursorSpec); err != nil {
					return err
				}
			}
			if err := cmdCtx.Store.SaveView(cmd.Context(), view); err != nil {
				return err
			}
			cmdCtx.Logger.Info("saved view", "table", view.TableID, "name", view.Name, "id", view.ID)
			return renderView(cmdCtx.Renderer, view, fmt.Sprintf("saved view %s", view.Name))
		},
	}
	cmd.Flags().StringVar(&name, "name", defaultViewName, "View name")
	cmd.Flags().StringVar(&cursorSpec, "cursor", "", "Cursor to save with the view")
	return cmd
}

func newViewsListCommand() *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			views, err := cmdCtx.Store.ListViews(cmd.Context(), table)
			if err != nil {
				return err
			}
			return renderViewList(cmdCtx.Renderer, views)
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Only list views of this table")
	return cmd
}

func newViewsShowCommand() *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "show <name|id>",
		Short: "Show a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			view, err := findView(cmd.Context(), cmdCtx.Store, table, args[0])
			if err != nil {
				return err
			}
			return renderView(cmdCtx.Renderer, view, "")
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Table of the view when looking up by name")
	return cmd
}

func newViewsDeleteCommand() *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			view, err := findView(cmd.Context(), cmdCtx.Store, table, args[0])
			if err != nil {
				return err
			}
			if err := cmdCtx.Store.DeleteView(cmd.Context(), view.ID); err != nil {
				return err
			}
			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(viewInfo(view))
			}
			r.Success(fmt.Sprintf("deleted view %s (%s)", view.Name, view.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Table of the view when looking up by name")
	return cmd
}

func newViewsImportCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <workbook>...",
		Short: "Save the layouts of several workbooks at once",
		Long: `Load every workbook concurrently and save each layout as a view. Views are
named after the file unless --name is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			workbooks, err := loader.LoadAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			views := make([]*state.View, 0, len(workbooks))
			for _, wb := range workbooks {
				viewName := name
				if viewName == "" {
					viewName = strings.TrimSuffix(filepath.Base(wb.Path), filepath.Ext(wb.Path))
				}
				view := &state.View{TableID: wb.Table, Name: viewName, SourcePath: absPath(wb.Path), Config: wb.Config}
				if err := cmdCtx.Store.SaveView(cmd.Context(), view); err != nil {
					return err
				}
				views = append(views, view)
			}
			cmdCtx.Logger.Info("imported views", "count", len(views))
			return renderViewList(cmdCtx.Renderer, views)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "View name (default: file name)")
	return cmd
}

func newViewsRestoreCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "restore <name> [workbook]",
		Short: "Apply a saved view to a workbook",
		Long: `Replace the workbook's table config with a saved view of the same table,
then reconcile it against the workbook's attributes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			wb, err := loadWorkbook(cmdCtx, args[1:])
			if err != nil {
				return err
			}
			view, err := cmdCtx.Store.GetViewByName(cmd.Context(), wb.Table, args[0])
			if err != nil {
				return err
			}
			wb.Config = view.Config
			wb.Reconcile()

			result := output.EditOutput{
				Operation: "restore",
				Table:     wb.Table,
				Detail:    fmt.Sprintf("restored view %s", view.Name),
			}
			if write {
				if err := loader.Save(wb, wb.Path); err != nil {
					return err
				}
				result.Written, result.Path = true, wb.Path
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(result)
			}
			r.Success(result.Detail)
			if !write {
				r.Muted("dry run, pass --write to save")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Write the restored workbook back")
	return cmd
}

// findView looks ref up as an id first, then as a name. Without a table the
// name must be unique across tables.
func findView(ctx context.Context, store state.ViewStore, table, ref string) (*state.View, error) {
	view, err := store.GetView(ctx, ref)
	if err == nil {
		return view, nil
	}
	if !errors.Is(err, state.ErrViewNotFound) {
		return nil, err
	}
	if table != "" {
		return store.GetViewByName(ctx, table, ref)
	}

	views, err := store.ListViews(ctx, "")
	if err != nil {
		return nil, err
	}
	var match *state.View
	for _, v := range views {
		if v.Name != ref {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("view %q exists for tables %s and %s\nHint: pass --table", ref, match.TableID, v.TableID)
		}
		match = v
	}
	if match == nil {
		return nil, fmt.Errorf("%s: %w", ref, state.ErrViewNotFound)
	}
	return match, nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func viewInfo(v *state.View) output.ViewInfo {
	info := output.ViewInfo{
		ID:         v.ID,
		Table:      v.TableID,
		Name:       v.Name,
		SourcePath: v.SourcePath,
		Parts:      len(v.Config.Parts),
		Rows:       len(v.Config.Rows),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
	if v.Cursor != nil {
		info.Cursor = formatCursor(v.Cursor)
	}
	return info
}

func renderView(r *output.Renderer, v *state.View, message string) error {
	info := viewInfo(v)
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(2, info.Name))
		r.Println(output.FormatKeyValue("ID", info.ID))
		r.Println(output.FormatKeyValue("Table", info.Table))
		if info.SourcePath != "" {
			r.Println(output.FormatKeyValue("Source", info.SourcePath))
		}
		r.Println(output.FormatKeyValue("Parts", strconv.Itoa(info.Parts)))
		r.Println(output.FormatKeyValue("Rows", strconv.Itoa(info.Rows)))
		if info.Cursor != "" {
			r.Println(output.FormatKeyValue("Cursor", info.Cursor))
		}
		r.Println(output.FormatKeyValue("Updated", info.UpdatedAt.Format(time.RFC3339)))
		return nil
	default:
		if message != "" {
			r.Success(message)
		}
		r.Println(fmt.Sprintf("%s  %s/%s  parts=%d rows=%d", info.ID, info.Table, info.Name, info.Parts, info.Rows))
		if info.Cursor != "" {
			r.Muted("cursor " + info.Cursor)
		}
		return nil
	}
}

func renderViewList(r *output.Renderer, views []*state.View) error {
	infos := make([]output.ViewInfo, 0, len(views))
	for _, v := range views {
		infos = append(infos, viewInfo(v))
	}
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}
	if len(infos) == 0 {
		r.Muted("no saved views")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		cursor := info.Cursor
		if cursor == "" {
			cursor = "-"
		}
		rows = append(rows, []string{
			info.Table, info.Name, info.ID,
			strconv.Itoa(info.Parts), strconv.Itoa(info.Rows), cursor,
			info.UpdatedAt.Format(time.RFC3339),
		})
	}
	return r.Table([]string{"Table", "Name", "ID", "Parts", "Rows", "Cursor", "Updated"}, rows)
}
