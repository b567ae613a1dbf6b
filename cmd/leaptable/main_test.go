package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaptable/internal/cli"
	"github.com/leapstack-labs/leaptable/internal/cli/config"
	"github.com/leapstack-labs/leaptable/internal/cli/output"
	clitest "github.com/leapstack-labs/leaptable/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "leaptable v")
}

func TestHelpCommand(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)

	for _, expected := range []string{"inspect", "navigate", "edit", "trim", "reconcile", "views", "explore", "completion"} {
		assert.Contains(t, out, expected)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "leaptable")

	_, err = run(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestInspect_ConfiguredWorkbook(t *testing.T) {
	path := clitest.SetupTestWorkbook(t)
	cfgPath := filepath.Join(filepath.Dir(path), "leaptable.yaml")

	out, err := run(t, "--config", cfgPath, "-o", "json", "inspect")
	require.NoError(t, err)

	var got output.InspectOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "tasks", got.Table)
	assert.Equal(t, path, got.Source)
}

func TestViews_SaveAndList(t *testing.T) {
	path := clitest.SetupTestWorkbook(t)
	cfgPath := filepath.Join(filepath.Dir(path), "leaptable.yaml")
	state := filepath.Join(t.TempDir(), "views.db")

	_, err := run(t, "--config", cfgPath, "--state", state, "-o", "json", "views", "save", "--name", "mine")
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "--state", state, "-o", "markdown", "views", "list")
	require.NoError(t, err)
	clitest.AssertNoANSI(t, out)
	assert.Contains(t, out, "mine")
}

func TestVerboseLogsToStderr(t *testing.T) {
	path := clitest.SetupTestWorkbook(t)
	cfgPath := filepath.Join(filepath.Dir(path), "leaptable.yaml")

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cmd := cli.NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"--config", cfgPath, "-v", "-o", "json", "trim"})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out.String()), "{"))
	assert.Contains(t, errOut.String(), "loaded workbook")
}

func TestInvalidOutputFormat(t *testing.T) {
	path := clitest.SetupTestWorkbook(t)
	cfgPath := filepath.Join(filepath.Dir(path), "leaptable.yaml")

	_, err := run(t, "--config", cfgPath, "-o", "html", "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
