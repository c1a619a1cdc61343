package linters

import (
	"encoding/json"
	"strings"

	"github.com/rubylint/rubylint/internal/domain"
)

// RuboCop runs the style checker reading the document from stdin.
type RuboCop struct{}

func (RuboCop) Name() string            { return domain.ToolRuboCop }
func (RuboCop) RequiresIsolation() bool { return false }
func (RuboCop) SettingsFile() string    { return "" }

func (RuboCop) Args(cfg domain.EffectiveToolConfig) []string {
	args := []string{"-s", PathPlaceholder, "-f", "json"}
	if cfg.ForceExclusion {
		args = append(args, "--force-exclusion")
	}
	if cfg.Lint {
		args = append(args, "-l")
	}
	if cfg.Rails {
		args = append(args, "-R")
	}
	if len(cfg.Only) > 0 {
		args = append(args, "--only", strings.Join(cfg.Only, ","))
	}
	if len(cfg.Except) > 0 {
		args = append(args, "--except", strings.Join(cfg.Except, ","))
	}
	if len(cfg.Require) > 0 {
		args = append(args, "--require", strings.Join(cfg.Require, ","))
	}
	return args
}

type rubocopReport struct {
	Files []struct {
		Path     string           `json:"path"`
		Offenses []rubocopOffense `json:"offenses"`
	} `json:"files"`
}

type rubocopOffense struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	CopName  string `json:"cop_name"`
	Location struct {
		Line   int `json:"line"`
		Column int `json:"column"`
		Length int `json:"length"`
	} `json:"location"`
}

// Exit status 1 means offenses were found.
func (RuboCop) Parse(res domain.ExecutionResult) ([]domain.Diagnostic, error) {
	if !exitTolerated(res.ExitCode, 1) {
		return nil, &domain.ToolExitError{Tool: domain.ToolRuboCop, ExitCode: res.ExitCode, Result: res}
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return nil, nil
	}

	var report rubocopReport
	if err := json.Unmarshal([]byte(res.Stdout), &report); err != nil {
		return nil, &domain.ToolOutputError{Tool: domain.ToolRuboCop, Result: res, Err: err}
	}
	if len(report.Files) == 0 {
		return nil, nil
	}

	offenses := report.Files[0].Offenses
	diags := make([]domain.Diagnostic, 0, len(offenses))
	for _, o := range offenses {
		line := o.Location.Line - 1
		col := o.Location.Column - 1
		diags = append(diags, domain.Diagnostic{
			Range: domain.Range{
				StartLine: line,
				StartCol:  col,
				EndLine:   line,
				EndCol:    col + o.Location.Length,
			},
			Severity: rubocopSeverity(o.Severity),
			Message:  o.Message,
			Source:   o.CopName,
		})
	}
	return diags, nil
}

func rubocopSeverity(s string) domain.Severity {
	switch s {
	case "refactor":
		return domain.SeverityHint
	case "convention", "info":
		return domain.SeverityInfo
	case "warning":
		return domain.SeverityWarning
	default:
		return domain.SeverityError
	}
}
