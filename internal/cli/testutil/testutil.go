// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
)

// Workbook is a small tasks table: tasks linked to people, with one nested
// task and a hidden bundle.
const Workbook = `table: tasks
collections:
  - id: c1
    name: Tasks
  - id: c2
    name: People
linkTypes:
  - id: l1
    name: assigned
    collectionIds: [c1, c2]
attributes:
  c1:
    - {id: a1, name: Title}
    - {id: a2, name: Due}
    - {id: a3, name: Address}
    - {id: a4, name: Address.City}
  l1:
    - {id: a1, name: Role}
  c2:
    - {id: a1, name: Name}
    - {id: a2, name: Email}
documents:
  - {id: t1, collectionId: c1, data: {a1: Write docs}}
  - {id: t2, collectionId: c1, data: {a1: Review docs}, metaData: {parentId: t1}}
  - {id: t3, collectionId: c1, data: {a1: Ship}}
  - {id: p1, collectionId: c2, data: {a1: Ada}}
  - {id: p2, collectionId: c2, data: {a1: Grace}}
  - {id: p3, collectionId: c2, data: {a1: Linus}}
linkInstances:
  - {id: li1, linkTypeId: l1, documentIds: [t1, p1]}
  - {id: li2, linkTypeId: l1, documentIds: [t1, p2]}
  - {id: li3, linkTypeId: l1, documentIds: [t3, p3]}
config:
  parts:
    - collectionId: c1
      columns:
        - {type: compound, attributeIds: [a1], width: 160}
        - type: compound
          attributeIds: [a3]
          children:
            - {attributeIds: [a4]}
        - {type: hidden, attributeIds: [a2]}
    - linkTypeId: l1
      columns:
        - {attributeIds: [a1]}
    - collectionId: c2
      columns:
        - {attributeIds: [a1]}
        - {attributeIds: [a2]}
  rows:
    - documentId: t1
      linkedRows:
        - {documentId: p1, linkInstanceId: li1, linkedRows: []}
        - {documentId: p2, linkInstanceId: li2, linkedRows: []}
    - {documentId: t2, parentDocumentId: t1, linkedRows: []}
    - documentId: t3
      linkedRows:
        - {documentId: p3, linkInstanceId: li3, linkedRows: []}
`

// SetupTestWorkbook writes Workbook and a leaptable.yaml with an in-memory
// state store into a temp directory and returns the workbook path.
func SetupTestWorkbook(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	if err := os.WriteFile(path, []byte(Workbook), 0o600); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	cfg := "state_path: \":memory:\"\nworkbook: tasks.yaml\n"
	if err := os.WriteFile(filepath.Join(dir, "leaptable.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a new test renderer with auto mode detection.
// In tests, non-TTY defaults to markdown output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertNotContains checks that the string does not contain the substring.
func AssertNotContains(t *testing.T, s, unexpected string) {
	t.Helper()
	if strings.Contains(s, unexpected) {
		t.Errorf("string %q unexpectedly contains %q", s, unexpected)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

// AssertOutputMode checks that the renderer output matches expected mode characteristics.
func AssertOutputMode(t *testing.T, tr *TestRenderer, expectedMode output.OutputMode) {
	t.Helper()

	combinedOutput := tr.Output() + tr.ErrorOutput()

	switch expectedMode {
	case output.ModeMarkdown:
		AssertNoANSI(t, combinedOutput)
		// Markdown mode should not contain ANSI codes
	case output.ModeText:
		// Text mode may contain ANSI codes if TTY
		// No specific assertion needed
	case output.ModeJSON:
		AssertNoANSI(t, combinedOutput)
		// JSON mode should not contain ANSI codes
	}
}
