package linters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rubylint/rubylint/internal/domain"
)

// Fasterer runs the speed-smell detector. It cannot read stdin, so it lints
// an isolated copy of the document next to a linked .fasterer.yml.
type Fasterer struct{}

func (Fasterer) Name() string            { return domain.ToolFasterer }
func (Fasterer) RequiresIsolation() bool { return true }
func (Fasterer) SettingsFile() string    { return ".fasterer.yml" }

func (Fasterer) Args(cfg domain.EffectiveToolConfig) []string {
	if cfg.Rails {
		return []string{"-r", PathPlaceholder}
	}
	return []string{PathPlaceholder}
}

var fastererOffense = regexp.MustCompile(`(?m)^(.*) Occurred at lines: ([^.]*)`)

const fastererUnprocessable = "Unprocessable files"

// Exit status 1 means offenses were found.
func (Fasterer) Parse(res domain.ExecutionResult) ([]domain.Diagnostic, error) {
	if !exitTolerated(res.ExitCode, 1) {
		return nil, &domain.ToolExitError{Tool: domain.ToolFasterer, ExitCode: res.ExitCode, Result: res}
	}
	if strings.Contains(res.Stdout, fastererUnprocessable) {
		return nil, nil
	}

	var diags []domain.Diagnostic
	for _, m := range fastererOffense.FindAllStringSubmatch(res.Stdout, -1) {
		msg := strings.TrimSpace(m[1])
		for _, field := range strings.Split(m[2], ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, &domain.ToolOutputError{
					Tool:   domain.ToolFasterer,
					Result: res,
					Err:    fmt.Errorf("parsing line number %q: %w", field, err),
				}
			}
			diags = append(diags, domain.Diagnostic{
				Range:    domain.LineRange(n - 1),
				Severity: domain.SeverityInfo,
				Message:  msg,
				Source:   domain.ToolFasterer,
			})
		}
	}
	return diags, nil
}
