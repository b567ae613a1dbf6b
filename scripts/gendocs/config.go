package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/leaptable/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Flag        string
	Description string
}

// getConfigSchema returns the keys of leaptable.yaml. It mirrors
// internal/cli/config/types.go.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Flag: "--state", Description: "SQLite database holding saved views"},
		{Name: "workbook", Type: "string", Flag: "--workbook", Description: "Workbook used when a command gets no file argument"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Flag: "--output", Description: "Output format: auto, text, markdown or json"},
		{Name: "verbose", Type: "bool", Default: "false", Flag: "--verbose", Description: "Log debug messages to stderr"},
		{Name: "ui.show_hidden", Type: "bool", Default: "false", Flag: "--show-hidden", Description: "Draw hidden column bundles in grids and the explorer"},
		{Name: "ui.hidden_width", Type: "int", Default: strconv.Itoa(config.DefaultHiddenWidth), Description: "Cell width of a drawn hidden bundle"},
		{Name: "ui.watch", Type: "bool", Default: "false", Flag: "--watch", Description: "Reload the workbook in the explorer when it changes"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "leaptable configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leaptable reads `leaptable.yaml` from the working directory, or the file passed with `--config`. " +
		"Every key can be set from the environment with the `LEAPTABLE_` prefix; nested keys use `__` (`LEAPTABLE_UI__WATCH=true`).")
	w.Paragraph("Command-line flags take precedence over environment variables, which take precedence over the file.")

	headers := []string{"Key", "Type", "Default", "Flag", "Description"}
	var rows [][]string
	for _, f := range getConfigSchema() {
		defVal, flag := "-", "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		if f.Flag != "" {
			flag = InlineCode(f.Flag)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, flag, f.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `state_path: .leaptable/state.db
workbook: tasks.yaml
output: auto
ui:
  show_hidden: false
  hidden_width: 3
  watch: true`)

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
