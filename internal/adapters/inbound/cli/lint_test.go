package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rubylint/rubylint/internal/adapters/inbound/cli"
	"github.com/rubylint/rubylint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLint(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"lint"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestLintCmd_RendersDiagnostics(t *testing.T) {
	dir := rubyProject(t, offenseOutput, 1)

	out, _, err := runLint(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "app.rb")
	assert.Contains(t, out, "2:3")
	assert.Contains(t, out, "unexpected token")
	assert.Contains(t, out, "Lint/Syntax")
	assert.Contains(t, out, "1 files inspected")
}

func TestLintCmd_CleanProject(t *testing.T) {
	dir := rubyProject(t, `{"files":[{"path":"app.rb","offenses":[]}]}`, 0)

	out, _, err := runLint(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No offenses found.")
}

func TestLintCmd_CIFailsOnErrors(t *testing.T) {
	dir := rubyProject(t, offenseOutput, 1)

	_, _, err := runLint(t, dir, "--ci")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 1 error-severity offenses")
}

func TestLintCmd_JSON(t *testing.T) {
	dir := rubyProject(t, offenseOutput, 1)

	out, _, err := runLint(t, dir, "--json")
	require.NoError(t, err)

	var report struct {
		WorkspaceRoot string `json:"workspace_root"`
		Files         []struct {
			Path        string              `json:"path"`
			Diagnostics []domain.Diagnostic `json:"diagnostics"`
			Error       string              `json:"error"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, dir, report.WorkspaceRoot)
	require.Len(t, report.Files, 1)

	f := report.Files[0]
	assert.Equal(t, "app.rb", f.Path)
	assert.Empty(t, f.Error)
	require.Len(t, f.Diagnostics, 1)
	assert.Equal(t, domain.Range{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 6}, f.Diagnostics[0].Range)
	assert.Equal(t, domain.SeverityError, f.Diagnostics[0].Severity)
}

func TestLintCmd_ToolFailureFailsCommand(t *testing.T) {
	dir := rubyProject(t, "", 3)

	out, errOut, err := runLint(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files could not be linted")
	assert.Contains(t, errOut, "rubylint failed to lint")
	assert.Contains(t, out, "rubocop exited with status 3")
}

func TestLintCmd_JSONReportsFailureReason(t *testing.T) {
	dir := rubyProject(t, "", 3)

	out, _, err := runLint(t, dir, "--json")
	require.Error(t, err)
	assert.Contains(t, out, `"error": "rubocop exited with status 3"`)
}

func TestLintCmd_ExplicitConfigAndExclude(t *testing.T) {
	dir := rubyProject(t, offenseOutput, 1)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "db"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db", "schema.rb"), []byte("x = 1\n"), 0o644))

	settings, err := os.ReadFile(filepath.Join(dir, ".rubylint.yaml"))
	require.NoError(t, err)
	custom := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(custom, append(settings, []byte("locate:\n  exclude: \"db/**\"\n")...), 0o644))

	out, _, err := runLint(t, dir, "--config", custom, "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, "schema.rb")
	assert.Contains(t, out, "app.rb")
}

func TestLintCmd_MissingPath(t *testing.T) {
	_, _, err := runLint(t, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
