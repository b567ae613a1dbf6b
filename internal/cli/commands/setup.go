// Package commands implements the leaptable subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leaptable/internal/cli/config"
	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/session"
	"github.com/leapstack-labs/leaptable/internal/state"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds the common dependencies of a command run.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Store    *state.SQLiteStore
}

// NewCommandContext creates a CommandContext with an opened view store.
// Call the returned cleanup function when done.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	store, err := openStore(cmdCtx.Cfg.StatePath, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Store = store

	cleanup := func() {
		_ = store.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a store.
// Useful for commands that only work on workbook files.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when none was
// loaded (commands run directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		StatePath:    getEnvOrDefault(config.EnvPrefix+"STATE_PATH", config.DefaultStateFile),
		Workbook:     os.Getenv(config.EnvPrefix + "WORKBOOK"),
		OutputFormat: getEnvOrDefault(config.EnvPrefix+"OUTPUT", config.DefaultOutput),
		UI:           config.DefaultUIConfig(),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func openStore(statePath string, logger *slog.Logger) (*state.SQLiteStore, error) {
	if statePath != ":memory:" {
		if dir := filepath.Dir(statePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(statePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}
	return store, nil
}

// workbookPath picks the workbook from the first argument or the config.
func workbookPath(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Workbook != "" {
		return cfg.Workbook, nil
	}
	return "", fmt.Errorf("no workbook given\nHint: pass a workbook file or set workbook in leaptable.yaml")
}

// loadWorkbook loads the workbook selected by args or the config.
func loadWorkbook(cmdCtx *CommandContext, args []string) (*loader.Workbook, error) {
	path, err := workbookPath(cmdCtx.Cfg, args)
	if err != nil {
		return nil, err
	}
	wb, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	cmdCtx.Logger.Debug("loaded workbook", "path", path, "table", wb.Table,
		"parts", len(wb.Config.Parts), "rows", len(wb.Config.Rows))
	return wb, nil
}

// newSession opens an editing session over wb with the cursor at cur.
func newSession(cmdCtx *CommandContext, wb *loader.Workbook, cur core.Cursor) *session.Session {
	return session.New(session.Config{
		Table:     wb.TableModel(),
		Documents: wb.DocumentsByID(),
		Cursor:    cur,
		Logger:    cmdCtx.Logger,
	})
}
