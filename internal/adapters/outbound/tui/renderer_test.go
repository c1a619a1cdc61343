package tui_test

import (
	"bytes"
	"testing"

	"github.com/rubylint/rubylint/internal/adapters/outbound/sink"
	"github.com/rubylint/rubylint/internal/adapters/outbound/tui"
	"github.com/rubylint/rubylint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReports() []tui.FileReport {
	return []tui.FileReport{
		{
			Path: "app/models/user.rb",
			Diagnostics: []domain.Diagnostic{
				{Range: domain.LineRange(9), Severity: domain.SeverityInfo, Message: "Foo#setup: calls create(:user) 2 times", Source: "reek: DuplicateMethodCall"},
				{Range: domain.Range{StartLine: 6, StartCol: 4, EndLine: 6, EndCol: 5}, Severity: domain.SeverityWarning, Message: "Useless assignment to variable - x.", Source: "Lint/UselessAssignment"},
			},
		},
		{Path: "app/models/order.rb"},
		{Path: "lib/broken.rb", Error: "rubocop exited with status 2"},
	}
}

func TestRenderReport_ListsDiagnostics(t *testing.T) {
	out := tui.RenderReport(sampleReports())
	assert.Contains(t, out, "app/models/user.rb")
	assert.Contains(t, out, "7:5")
	assert.Contains(t, out, "Useless assignment to variable - x.")
	assert.Contains(t, out, "reek: duplicate method call")
	assert.NotContains(t, out, "app/models/order.rb", "clean files are not listed")
}

func TestRenderReport_SortsByLine(t *testing.T) {
	out := tui.RenderReport(sampleReports())
	assert.Less(t, bytes.Index([]byte(out), []byte("7:5")), bytes.Index([]byte(out), []byte("10:1")))
}

func TestRenderReport_Summary(t *testing.T) {
	out := tui.RenderReport(sampleReports())
	assert.Contains(t, out, "3 files inspected")
	assert.Contains(t, out, "1 warnings")
	assert.Contains(t, out, "1 info")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "rubocop exited with status 2")
}

func TestRenderReport_Clean(t *testing.T) {
	out := tui.RenderReport([]tui.FileReport{{Path: "a.rb"}})
	assert.Contains(t, out, "No offenses found.")
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "reek: duplicate method call", tui.SourceLabel("reek: DuplicateMethodCall"))
	assert.Equal(t, "reek: too many statements", tui.SourceLabel("reek: TooManyStatements"))
	assert.Equal(t, "Style/StringLiterals", tui.SourceLabel("Style/StringLiterals"))
	assert.Equal(t, "fasterer", tui.SourceLabel("fasterer"))
}

func TestNotifier_CountsAndWrites(t *testing.T) {
	var buf bytes.Buffer
	n := tui.NewNotifier(&buf)
	n.NotifyError("rubylint failed to lint a.rb: boom")
	n.NotifyError("rubylint failed to lint b.rb: boom")

	assert.Equal(t, 2, n.Count())
	assert.Contains(t, buf.String(), "rubylint failed to lint a.rb: boom")
}

func TestStreamSink_RendersAndForwards(t *testing.T) {
	var buf bytes.Buffer
	store := sink.New()
	s := tui.NewStreamSink(&buf, store, func(id string) string { return "/p/" + id })

	diags := []domain.Diagnostic{{Range: domain.LineRange(0), Severity: domain.SeverityError, Message: "boom", Source: "Lint/Syntax"}}
	s.SetDiagnostics("a.rb", diags)
	s.SetDiagnostics("b.rb", nil)

	got, ok := store.Get("a.rb")
	require.True(t, ok)
	assert.Equal(t, diags, got)
	assert.Contains(t, buf.String(), "/p/a.rb")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "clean")

	s.ClearDiagnostics("a.rb")
	_, ok = store.Get("a.rb")
	assert.False(t, ok)
}
