package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/session"
	"github.com/leapstack-labs/leaptable/internal/tui"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// NavigateOptions holds options for the navigate command.
type NavigateOptions struct {
	Start       string
	Moves       string
	Trace       bool
	Grid        bool
	Interactive bool
}

// NewNavigateCommand creates the navigate command.
func NewNavigateCommand() *cobra.Command {
	opts := &NavigateOptions{}

	cmd := &cobra.Command{
		Use:   "navigate [workbook]",
		Short: "Move the table cursor",
		Long: `Move the cursor through a table's header and body cells and report where it
lands. Moves that hit the edge of the table leave the cursor in place.

Cursors are written as header:<part>:<column path> or
body:<part>:<row path>:<column index>, with paths as dotted indexes.`,
		Example: `  # Step down twice and right once from the first header cell
  leaptable navigate tasks.yaml --start header:0:0 --moves jjl

  # Show every step and the final grid
  leaptable navigate --moves down,down,right --trace --grid

  # Interactive session
  leaptable navigate -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNavigate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "header:0:0", "Starting cursor")
	cmd.Flags().StringVarP(&opts.Moves, "moves", "m", "", "Moves: up|down|left|right or h|j|k|l, comma separated")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Print every step")
	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "Draw the grid with the final cursor")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Start an interactive session")

	return cmd
}

func runNavigate(cmd *cobra.Command, args []string, opts *NavigateOptions) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	wb, err := loadWorkbook(cmdCtx, args)
	if err != nil {
		return err
	}

	start, err := parseCursor(wb.Table, opts.Start)
	if err != nil {
		return err
	}
	moves, err := parseMoves(opts.Moves)
	if err != nil {
		return err
	}

	sess := newSession(cmdCtx, wb, start)

	if opts.Interactive {
		return runNavigateREPL(cmd, cmdCtx, wb, sess)
	}

	result := output.NavigateOutput{
		Start: formatCursor(sess.Cursor()),
		Steps: make([]output.MoveStep, 0, len(moves)),
	}
	for _, dir := range moves {
		next, moved := sess.Move(dir)
		result.Steps = append(result.Steps, output.MoveStep{
			Direction: dir.String(),
			Cursor:    formatCursor(next),
			Moved:     moved,
		})
	}
	result.Final = formatCursor(sess.Cursor())

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(result)
	}

	if opts.Trace {
		r.Header(2, "Moves")
		r.Println(formatStart(r, result.Start))
		for _, step := range result.Steps {
			status := output.StatusSuccess
			if !step.Moved {
				status = output.StatusSkipped
			}
			r.StatusLine(fmt.Sprintf("%-5s %s", step.Direction, step.Cursor), status, "")
		}
		r.Println()
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Cursor", result.Final))
	} else {
		r.Println(result.Final)
	}

	if opts.Grid {
		r.Println()
		printGrid(r, navigateGrid(cmdCtx, wb, sess), sess.Cursor())
	}
	return nil
}

func formatStart(r *output.Renderer, start string) string {
	if r.EffectiveMode() == output.ModeMarkdown {
		return output.FormatKeyValue("Start", start)
	}
	return "start " + start
}

func navigateGrid(cmdCtx *CommandContext, wb *loader.Workbook, sess *session.Session) *tui.Grid {
	src := tui.WorkbookSource(wb)
	src.Table = sess.Snapshot().Table
	src.Documents = sess.Documents()
	ui := cmdCtx.Cfg.GetUIConfig()
	return tui.BuildGrid(src, tui.GridOptions{ShowHidden: ui.ShowHidden, HiddenWidth: ui.HiddenWidth})
}

func runNavigateREPL(cmd *cobra.Command, cmdCtx *CommandContext, wb *loader.Workbook, sess *session.Session) error {
	historyFile := ""
	if cmdCtx.Cfg.StatePath != ":memory:" {
		historyFile = filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "navigate_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "leaptable> ",
		HistoryFile:     historyFile,
		AutoComplete:    newNavigateCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leaptable navigator (table: %s)\n", wb.Table)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type moves (j, down, jjl) or .help for commands, .quit to exit")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cursor %s\n", formatCursor(sess.Cursor()))

	repl := &navigateREPL{cmdCtx: cmdCtx, wb: wb, sess: sess, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if repl.handle(line) {
			break
		}
	}
	return nil
}

// navigateREPL executes the lines of an interactive navigation session.
type navigateREPL struct {
	cmdCtx *CommandContext
	wb     *loader.Workbook
	sess   *session.Session
	out    io.Writer
	errOut io.Writer
}

// handle runs one input line and reports whether the session should end.
func (n *navigateREPL) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, ".") {
		return n.handleDotCommand(line)
	}

	moves, err := parseMoves(line)
	if err != nil {
		_, _ = fmt.Fprintf(n.errOut, "Error: %v\n", err)
		return false
	}
	for _, dir := range moves {
		next, moved := n.sess.Move(dir)
		if !moved {
			_, _ = fmt.Fprintf(n.out, "%s: dead end at %s\n", dir, formatCursor(next))
			continue
		}
		_, _ = fmt.Fprintf(n.out, "cursor %s\n", formatCursor(next))
	}
	return false
}

func (n *navigateREPL) handleDotCommand(line string) bool {
	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])

	var err error
	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printNavigateHelp(n.out)
	case ".cursor":
		_, _ = fmt.Fprintf(n.out, "cursor %s\n", formatCursor(n.sess.Cursor()))
	case ".set":
		if len(fields) < 2 {
			_, _ = fmt.Fprintln(n.errOut, "Usage: .set <cursor>")
			return false
		}
		var c core.Cursor
		if c, err = parseCursor(n.wb.Table, fields[1]); err == nil {
			_, _ = fmt.Fprintf(n.out, "cursor %s\n", formatCursor(n.sess.SetCursor(c)))
		}
	case ".grid":
		g := navigateGrid(n.cmdCtx, n.wb, n.sess)
		_, _ = fmt.Fprint(n.out, g.Render(n.sess.Cursor(), gridStyles(n.cmdCtx.Renderer)))
	case ".toggle":
		if err = n.sess.ToggleExpanded(); err == nil {
			_, _ = fmt.Fprintf(n.out, "cursor %s\n", formatCursor(n.sess.Cursor()))
		}
	case ".hide":
		if err = n.sess.HideColumn(); err == nil {
			_, _ = fmt.Fprintf(n.out, "cursor %s\n", formatCursor(n.sess.Cursor()))
		}
	default:
		_, _ = fmt.Fprintf(n.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	if err != nil {
		_, _ = fmt.Fprintf(n.errOut, "Error: %v\n", err)
	}
	return false
}

func printNavigateHelp(w io.Writer) {
	help := `
Moves:
  h j k l         Left, down, up, right (runs like jjl allowed)
  up down ...     Directions by name, comma or space separated

Commands:
  .cursor         Show the cursor
  .set <cursor>   Place the cursor (header:0:1 or body:2:0.1:0)
  .grid           Draw the grid
  .toggle         Expand or collapse the row under the cursor
  .hide           Hide the header column under the cursor
  .help           Show this help message
  .quit / .exit   Exit
`
	_, _ = fmt.Fprintln(w, help)
}

func newNavigateCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("up"),
		readline.PcItem("down"),
		readline.PcItem("left"),
		readline.PcItem("right"),
		readline.PcItem(".cursor"),
		readline.PcItem(".set"),
		readline.PcItem(".grid"),
		readline.PcItem(".toggle"),
		readline.PcItem(".hide"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
