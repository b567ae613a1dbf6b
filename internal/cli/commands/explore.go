package commands

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/leaptable/internal/state"
	"github.com/leapstack-labs/leaptable/internal/tui"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// ExploreOptions holds options for the explore command.
type ExploreOptions struct {
	View       string
	ShowHidden bool
	Watch      bool
}

// NewExploreCommand creates the explore command.
func NewExploreCommand() *cobra.Command {
	opts := &ExploreOptions{}

	cmd := &cobra.Command{
		Use:   "explore [workbook]",
		Short: "Browse a table interactively",
		Long: `Open the table in a full-screen explorer. Move with the arrow keys or
hjkl, expand and collapse rows with e, hide columns with H and save the
current layout and cursor as a view with s.

With --watch the workbook is reloaded whenever it changes on disk; the
cursor stays where it still resolves.`,
		Example: `  # Explore the configured workbook
  leaptable explore

  # Resume from a saved view and follow edits to the file
  leaptable explore tasks.yaml --view triage --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.View, "view", defaultViewName, "View to resume from and save to")
	cmd.Flags().BoolVar(&opts.ShowHidden, "show-hidden", false, "Draw hidden column bundles")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the workbook when it changes")

	return cmd
}

func runExplore(cmd *cobra.Command, args []string, opts *ExploreOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	wb, err := loadWorkbook(cmdCtx, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := cmdCtx.Logger

	var start core.Cursor
	view, err := cmdCtx.Store.GetViewByName(ctx, wb.Table, opts.View)
	switch {
	case err == nil:
		start = view.Cursor
		logger.Debug("resuming from view", "view", view.Name, "cursor", formatCursor(view.Cursor))
	case errors.Is(err, state.ErrViewNotFound):
	default:
		return err
	}
	sess := newSession(cmdCtx, wb, start)

	ui := cmdCtx.Cfg.GetUIConfig()
	model := tui.New(tui.Config{
		Session:  sess,
		Workbook: wb,
		Options: tui.GridOptions{
			ShowHidden:  opts.ShowHidden || ui.ShowHidden,
			HiddenWidth: ui.HiddenWidth,
		},
		Logger: logger,
		Save: func() (string, error) {
			v := &state.View{
				TableID:    wb.Table,
				Name:       opts.View,
				SourcePath: absPath(wb.Path),
				Config:     *sess.Persisted(),
				Cursor:     sess.Cursor(),
			}
			if err := cmdCtx.Store.SaveView(ctx, v); err != nil {
				return "", err
			}
			return fmt.Sprintf("saved view %s", v.Name), nil
		},
	})

	if opts.Watch || ui.Watch {
		w, err := tui.NewWatcher(wb.Path, logger)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
		go w.Run(ctx, model.Reload)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explorer failed: %w", err)
	}
	return nil
}
