package linters

import (
	"encoding/json"
	"strings"

	"github.com/rubylint/rubylint/internal/domain"
)

// Reek runs the smell detector reading the document from stdin.
type Reek struct{}

func (Reek) Name() string                             { return domain.ToolReek }
func (Reek) RequiresIsolation() bool                  { return false }
func (Reek) SettingsFile() string                     { return "" }
func (Reek) Args(domain.EffectiveToolConfig) []string { return []string{"-f", "json"} }

type reekSmell struct {
	Context   string `json:"context"`
	Lines     []int  `json:"lines"`
	Message   string `json:"message"`
	SmellType string `json:"smell_type"`
}

// Exit status 2 means smells were found.
func (Reek) Parse(res domain.ExecutionResult) ([]domain.Diagnostic, error) {
	if !exitTolerated(res.ExitCode, 2) {
		return nil, &domain.ToolExitError{Tool: domain.ToolReek, ExitCode: res.ExitCode, Result: res}
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return nil, nil
	}

	var smells []reekSmell
	if err := json.Unmarshal([]byte(res.Stdout), &smells); err != nil {
		return nil, &domain.ToolOutputError{Tool: domain.ToolReek, Result: res, Err: err}
	}

	var diags []domain.Diagnostic
	for _, s := range smells {
		msg := s.Context + ": " + s.Message
		for _, line := range s.Lines {
			diags = append(diags, domain.Diagnostic{
				Range:    domain.LineRange(line - 1),
				Severity: domain.SeverityInfo,
				Message:  msg,
				Source:   "reek: " + s.SmellType,
			})
		}
	}
	return diags, nil
}
