package linters_test

import (
	"testing"

	"github.com/rubylint/rubylint/internal/domain"
	"github.com/rubylint/rubylint/internal/domain/linters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rubocopOneOffense = `{
  "metadata": {"rubocop_version": "1.64.1"},
  "files": [{
    "path": "app/models/user.rb",
    "offenses": [{
      "severity": "warning",
      "message": "Useless assignment to variable - x.",
      "cop_name": "Lint/UselessAssignment",
      "corrected": false,
      "location": {"line": 7, "column": 5, "length": 1}
    }]
  }],
  "summary": {"offense_count": 1}
}`

func TestRuboCop_ParseSingleOffense(t *testing.T) {
	diags, err := linters.RuboCop{}.Parse(domain.ExecutionResult{Stdout: rubocopOneOffense, ExitCode: 1})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.Range{StartLine: 6, StartCol: 4, EndLine: 6, EndCol: 5}, diags[0].Range)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "Useless assignment to variable - x.", diags[0].Message)
	assert.Equal(t, "Lint/UselessAssignment", diags[0].Source)
}

func TestRuboCop_SeverityTable(t *testing.T) {
	cases := map[string]domain.Severity{
		"refactor":   domain.SeverityHint,
		"convention": domain.SeverityInfo,
		"info":       domain.SeverityInfo,
		"warning":    domain.SeverityWarning,
		"error":      domain.SeverityError,
		"fatal":      domain.SeverityError,
		"bogus":      domain.SeverityError,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			out := `{"files":[{"offenses":[{"severity":"` + in + `","message":"m","cop_name":"C","location":{"line":1,"column":1,"length":2}}]}]}`
			diags, err := linters.RuboCop{}.Parse(domain.ExecutionResult{Stdout: out})
			require.NoError(t, err)
			require.Len(t, diags, 1)
			assert.Equal(t, want, diags[0].Severity)
		})
	}
}

func TestRuboCop_EmptyAndMissingShapes(t *testing.T) {
	for _, out := range []string{"", "   \n", `{}`, `{"files": []}`, `{"files": [{"path": "a.rb"}]}`} {
		diags, err := linters.RuboCop{}.Parse(domain.ExecutionResult{Stdout: out})
		require.NoError(t, err, out)
		assert.Empty(t, diags, out)
	}
}

func TestRuboCop_MalformedJSON(t *testing.T) {
	_, err := linters.RuboCop{}.Parse(domain.ExecutionResult{Stdout: "Error: unrecognized cop"})
	var outErr *domain.ToolOutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, "rubocop", outErr.Tool)
}

func TestRuboCop_ExitOutsideTolerance(t *testing.T) {
	_, err := linters.RuboCop{}.Parse(domain.ExecutionResult{ExitCode: 2, Stderr: "invalid option"})
	var exitErr *domain.ToolExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode)
}

func TestRuboCop_Args(t *testing.T) {
	cfg := domain.EffectiveToolConfig{
		ForceExclusion: true,
		Lint:           true,
		Rails:          true,
		Only:           []string{"Style/StringLiterals", "Lint"},
		Except:         []string{"Metrics"},
		Require:        []string{"rubocop-rspec"},
	}
	assert.Equal(t, []string{
		"-s", "${path}", "-f", "json",
		"--force-exclusion", "-l", "-R",
		"--only", "Style/StringLiterals,Lint",
		"--except", "Metrics",
		"--require", "rubocop-rspec",
	}, linters.RuboCop{}.Args(cfg))
	assert.Equal(t, []string{"-s", "${path}", "-f", "json"}, linters.RuboCop{}.Args(domain.EffectiveToolConfig{}))
}

func TestReek_ParseOneDiagnosticPerLine(t *testing.T) {
	out := `[{"context":"Foo#setup","lines":[6,7],"message":"calls create(:user) 2 times","smell_type":"DuplicateMethodCall","source":"-"}]`
	diags, err := linters.Reek{}.Parse(domain.ExecutionResult{Stdout: out, ExitCode: 2})
	require.NoError(t, err)
	require.Len(t, diags, 2)
	for i, line := range []int{5, 6} {
		assert.Equal(t, domain.LineRange(line), diags[i].Range)
		assert.Equal(t, "Foo#setup: calls create(:user) 2 times", diags[i].Message)
		assert.Contains(t, diags[i].Source, "DuplicateMethodCall")
		assert.Equal(t, domain.SeverityInfo, diags[i].Severity)
	}
}

func TestReek_EmptyArray(t *testing.T) {
	diags, err := linters.Reek{}.Parse(domain.ExecutionResult{Stdout: "[]\n"})
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestReek_ExitOneIsFailure(t *testing.T) {
	_, err := linters.Reek{}.Parse(domain.ExecutionResult{ExitCode: 1, Stdout: "[]"})
	var exitErr *domain.ToolExitError
	assert.ErrorAs(t, err, &exitErr)
}

func TestReek_MalformedOutput(t *testing.T) {
	_, err := linters.Reek{}.Parse(domain.ExecutionResult{Stdout: `{"not": "an array"}`})
	var outErr *domain.ToolOutputError
	assert.ErrorAs(t, err, &outErr)
}

func TestFasterer_ParseLines(t *testing.T) {
	out := "Array#select.first is slower than Array#detect. Occurred at lines: 10, 18.\n\n1 file inspected, 2 offenses detected\n"
	diags, err := linters.Fasterer{}.Parse(domain.ExecutionResult{Stdout: out, ExitCode: 1})
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, 9, diags[0].Range.StartLine)
	assert.Equal(t, 17, diags[1].Range.StartLine)
	for _, d := range diags {
		assert.Equal(t, domain.SeverityInfo, d.Severity)
		assert.Equal(t, "fasterer", d.Source)
		assert.Equal(t, "Array#select.first is slower than Array#detect.", d.Message)
		assert.Equal(t, domain.EndOfLine, d.Range.EndCol)
	}
}

func TestFasterer_MultipleOffenseLines(t *testing.T) {
	out := "Hash#merge! with one argument is slower than Hash#[]. Occurred at lines: 3.\n" +
		"Using tr is faster than gsub when replacing a single character. Occurred at lines: 12.\n"
	diags, err := linters.Fasterer{}.Parse(domain.ExecutionResult{Stdout: out})
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, 2, diags[0].Range.StartLine)
	assert.Equal(t, 11, diags[1].Range.StartLine)
}

func TestFasterer_UnprocessableIsNotAnError(t *testing.T) {
	out := "Unprocessable files were:\n-----------------------------------------------------\n/tmp/rubylint-123/lint.rb\n"
	diags, err := linters.Fasterer{}.Parse(domain.ExecutionResult{Stdout: out, ExitCode: 1})
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestFasterer_NonNumericLine(t *testing.T) {
	_, err := linters.Fasterer{}.Parse(domain.ExecutionResult{Stdout: "Slow. Occurred at lines: ten\n"})
	var outErr *domain.ToolOutputError
	require.ErrorAs(t, err, &outErr)
	assert.Contains(t, err.Error(), `"ten"`)
}

func TestFasterer_ExitOutsideTolerance(t *testing.T) {
	_, err := linters.Fasterer{}.Parse(domain.ExecutionResult{ExitCode: 2})
	var exitErr *domain.ToolExitError
	assert.ErrorAs(t, err, &exitErr)
}

func TestFasterer_IsolatedWithSettingsFile(t *testing.T) {
	f := linters.Fasterer{}
	assert.True(t, f.RequiresIsolation())
	assert.Equal(t, ".fasterer.yml", f.SettingsFile())
	assert.Equal(t, []string{"${path}"}, f.Args(domain.EffectiveToolConfig{}))
	assert.Equal(t, []string{"-r", "${path}"}, f.Args(domain.EffectiveToolConfig{Rails: true}))
}

func TestAll_FixedOrder(t *testing.T) {
	var names []string
	for _, tool := range linters.All() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, domain.ToolNames, names)

	tool, ok := linters.ByName("reek")
	require.True(t, ok)
	assert.Equal(t, "reek", tool.Name())
	_, ok = linters.ByName("standard")
	assert.False(t, ok)
}
