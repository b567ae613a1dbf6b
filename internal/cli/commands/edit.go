package commands

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/rows"
	"github.com/leapstack-labs/leaptable/internal/session"
	"github.com/leapstack-labs/leaptable/internal/tui"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// EditOptions holds the flags shared by the edit subcommands.
type EditOptions struct {
	File  string
	Write bool
	Grid  bool
}

// editOp is one edit subcommand. run applies the edit to the session and
// describes what it did.
type editOp struct {
	use   string
	short string
	args  cobra.PositionalArgs
	run   func(wb *loader.Workbook, sess *session.Session, args []string) (string, error)
}

// NewEditCommand creates the edit command and its subcommands.
func NewEditCommand() *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a table's columns and rows",
		Long: `Apply one column or row edit to a workbook's table config.

Column paths and row paths are dotted indexes ("1.0"). Without --write the
edit is only reported; with --write the workbook is saved, trimmed of
trailing placeholders.`,
		Example: `  # Hide the second column of the first part
  leaptable edit hide 0 1 -f tasks.yaml --write

  # Show one attribute out of a hidden bundle and draw the result
  leaptable edit show 0 2 a2 --grid

  # Nest the third row under the second
  leaptable edit indent 2 --write`,
	}

	cmd.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "Workbook file (default: workbook from config)")
	cmd.PersistentFlags().BoolVar(&opts.Write, "write", false, "Write the edited workbook back")
	cmd.PersistentFlags().BoolVar(&opts.Grid, "grid", false, "Draw the edited grid")

	for _, op := range editOps() {
		cmd.AddCommand(newEditSubcommand(opts, op))
	}
	return cmd
}

func newEditSubcommand(opts *EditOptions, op editOp) *cobra.Command {
	return &cobra.Command{
		Use:   op.use,
		Short: op.short,
		Args:  op.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, op, args)
		},
	}
}

func runEdit(cmd *cobra.Command, opts *EditOptions, op editOp, args []string) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	wb, err := loadWorkbook(cmdCtx, []string{opts.File})
	if err != nil {
		return err
	}

	sess := newSession(cmdCtx, wb, nil)
	detail, err := op.run(wb, sess, args)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	result := output.EditOutput{Operation: cmd.Name(), Table: wb.Table, Detail: detail}
	if opts.Write {
		wb.Config = *sess.Persisted()
		wb.UpdateDocuments(sess.Documents())
		if err := loader.Save(wb, wb.Path); err != nil {
			return err
		}
		result.Written, result.Path = true, wb.Path
		cmdCtx.Logger.Info("edited workbook", "path", wb.Path, "operation", cmd.Name())
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(result)
	}
	r.Success(detail)
	if result.Written {
		r.Muted(fmt.Sprintf("wrote %s", wb.Path))
	} else {
		r.Muted("dry run, pass --write to save")
	}
	if opts.Grid {
		src := tui.WorkbookSource(wb)
		src.Table = sess.Snapshot().Table
		src.Documents = sess.Documents()
		ui := cmdCtx.Cfg.GetUIConfig()
		r.Println()
		printGrid(r, tui.BuildGrid(src, tui.GridOptions{ShowHidden: ui.ShowHidden, HiddenWidth: ui.HiddenWidth}), nil)
	}
	return nil
}

// partAndPath parses the "<part> <path>" prefix shared by column edits.
func partAndPath(args []string) (int, []int, error) {
	part, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid part index %q", args[0])
	}
	path, err := parsePath(args[1])
	if err != nil {
		return 0, nil, err
	}
	return part, path, nil
}

// columnEdit builds an op that rewrites one part's column tree.
func columnEdit(use, short string, args cobra.PositionalArgs, fn func(wb *loader.Workbook, part core.Part, cols core.Columns, path []int, rest []string) (core.Columns, string, error)) editOp {
	return editOp{
		use:   use,
		short: short,
		args:  args,
		run: func(wb *loader.Workbook, sess *session.Session, args []string) (string, error) {
			partIndex, path, err := partAndPath(args)
			if err != nil {
				return "", err
			}
			var detail string
			err = sess.Apply(func(config core.TableConfig) (core.TableConfig, error) {
				return session.EditColumns(config, partIndex, func(cols core.Columns) (core.Columns, error) {
					out, d, err := fn(wb, config.Parts[partIndex], cols, path, args[2:])
					detail = d
					return out, err
				})
			})
			return detail, err
		},
	}
}

// rowEdit builds an op that rewrites the row forest at a row path.
func rowEdit(use, short string, args cobra.PositionalArgs, fn func(forest []core.Row, path []int, rest []string) ([]core.Row, string, error)) editOp {
	return editOp{
		use:   use,
		short: short,
		args:  args,
		run: func(_ *loader.Workbook, sess *session.Session, args []string) (string, error) {
			path, err := parsePath(args[0])
			if err != nil {
				return "", err
			}
			var detail string
			err = sess.Apply(func(config core.TableConfig) (core.TableConfig, error) {
				forest, d, err := fn(config.Rows, path, args[1:])
				if err != nil {
					return config, err
				}
				detail = d
				config.Rows = forest
				return config, nil
			})
			return detail, err
		},
	}
}

func reparentEdit(use, short string, fn func(*session.Session, int) (rows.ParentPatch, error)) editOp {
	return editOp{
		use:   use,
		short: short,
		args:  cobra.ExactArgs(1),
		run: func(_ *loader.Workbook, sess *session.Session, args []string) (string, error) {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return "", fmt.Errorf("invalid row index %q", args[0])
			}
			patch, err := fn(sess, index)
			if err != nil {
				return "", err
			}
			if patch.ParentID == "" {
				return fmt.Sprintf("moved %s to the top level", patch.DocumentID), nil
			}
			return fmt.Sprintf("moved %s under %s", patch.DocumentID, patch.ParentID), nil
		},
	}
}

func editOps() []editOp {
	return []editOp{
		columnEdit("hide <part> <column-path>", "Hide a column in a hidden bundle", cobra.ExactArgs(2),
			func(_ *loader.Workbook, _ core.Part, cols core.Columns, path []int, _ []string) (core.Columns, string, error) {
				out, err := columns.Hide(cols, path)
				return out, fmt.Sprintf("hid column %s", formatPath(path)), err
			}),
		columnEdit("show <part> <column-path> [attribute-id...]", "Show attributes out of a hidden bundle", cobra.MinimumNArgs(2),
			func(wb *loader.Workbook, part core.Part, cols core.Columns, path []int, ids []string) (core.Columns, string, error) {
				out, err := columns.ShowHidden(cols, path, ids, wb.AttributesFor(part))
				return out, fmt.Sprintf("showed column %s", formatPath(path)), err
			}),
		columnEdit("extend-hidden <part> <column-path> <attribute-id>...", "Add attributes to a hidden bundle", cobra.MinimumNArgs(3),
			func(_ *loader.Workbook, _ core.Part, cols core.Columns, path []int, ids []string) (core.Columns, string, error) {
				out, err := columns.ExtendHidden(cols, path, ids...)
				return out, fmt.Sprintf("extended hidden bundle %s by %d", formatPath(path), len(ids)), err
			}),
		columnEdit("merge-hidden <part> <column-path>", "Merge a hidden bundle with the next one", cobra.ExactArgs(2),
			func(_ *loader.Workbook, _ core.Part, cols core.Columns, path []int, _ []string) (core.Columns, string, error) {
				out, err := columns.MergeHidden(cols, path)
				return out, fmt.Sprintf("merged hidden bundle %s", formatPath(path)), err
			}),
		columnEdit("resize <part> <column-path> <width>", "Set a column's width", cobra.ExactArgs(3),
			func(_ *loader.Workbook, _ core.Part, cols core.Columns, path []int, rest []string) (core.Columns, string, error) {
				width, err := strconv.Atoi(rest[0])
				if err != nil {
					return nil, "", fmt.Errorf("invalid width %q", rest[0])
				}
				out, err := columns.Resize(cols, path, width)
				return out, fmt.Sprintf("resized column %s to %d", formatPath(path), width), err
			}),
		columnEdit("move-column <part> <from-path> <to-path>", "Move a column among its siblings", cobra.ExactArgs(3),
			func(_ *loader.Workbook, _ core.Part, cols core.Columns, from []int, rest []string) (core.Columns, string, error) {
				to, err := parsePath(rest[0])
				if err != nil {
					return nil, "", err
				}
				out, err := columns.Move(cols, from, to)
				return out, fmt.Sprintf("moved column %s to %s", formatPath(from), formatPath(to)), err
			}),
		columnEdit("add-column <part> <column-path> <name>", "Insert an unbound column", cobra.ExactArgs(3),
			func(_ *loader.Workbook, _ core.Part, cols core.Columns, path []int, rest []string) (core.Columns, string, error) {
				out, err := columns.Add(cols, path, core.NewUninitialized(rest[0]))
				return out, fmt.Sprintf("added column %q at %s", rest[0], formatPath(path)), err
			}),
		columnEdit("init-column <part> <column-path> <attribute-id>", "Bind an unbound column to an attribute", cobra.ExactArgs(3),
			func(_ *loader.Workbook, _ core.Part, cols core.Columns, path []int, rest []string) (core.Columns, string, error) {
				out, err := columns.Initialize(cols, path, rest[0])
				return out, fmt.Sprintf("bound column %s to %s", formatPath(path), rest[0]), err
			}),
		rowEdit("expand <row-path>", "Show a row's linked rows individually", cobra.ExactArgs(1),
			func(forest []core.Row, path []int, _ []string) ([]core.Row, string, error) {
				out, err := rows.SetExpanded(forest, path, true)
				return out, fmt.Sprintf("expanded row %s", formatPath(path)), err
			}),
		rowEdit("collapse <row-path>", "Group a row's linked rows in one slot", cobra.ExactArgs(1),
			func(forest []core.Row, path []int, _ []string) ([]core.Row, string, error) {
				out, err := rows.SetExpanded(forest, path, false)
				return out, fmt.Sprintf("collapsed row %s", formatPath(path)), err
			}),
		rowEdit("add-row <row-path> [document-id]", "Insert a row, unsaved unless a document is given", cobra.RangeArgs(1, 2),
			func(forest []core.Row, path []int, rest []string) ([]core.Row, string, error) {
				row := core.Row{}
				if len(rest) > 0 {
					row.DocumentID = rest[0]
				} else {
					row.CorrelationID = uuid.NewString()
				}
				out, err := rows.Add(forest, path, row)
				return out, fmt.Sprintf("added row at %s", formatPath(path)), err
			}),
		rowEdit("remove-row <row-path>", "Remove a row and its linked rows", cobra.ExactArgs(1),
			func(forest []core.Row, path []int, _ []string) ([]core.Row, string, error) {
				out, err := rows.Remove(forest, path)
				return out, fmt.Sprintf("removed row %s", formatPath(path)), err
			}),
		reparentEdit("indent <row-index>", "Nest a primary row under the row above it", (*session.Session).Indent),
		reparentEdit("outdent <row-index>", "Move a primary row one hierarchy level up", (*session.Session).Outdent),
	}
}
