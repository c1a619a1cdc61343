// Package linters adapts each supported Ruby analysis tool: the arguments it
// takes, where it must run and how its output becomes diagnostics.
package linters

import (
	"github.com/rubylint/rubylint/internal/domain"
)

// PathPlaceholder is substituted with the document path in tool arguments.
const PathPlaceholder = "${path}"

// WorkspaceRootPlaceholder is substituted with the workspace root in the
// tool command.
const WorkspaceRootPlaceholder = "${workspaceRoot}"

// Tool is implemented once per supported external analyzer.
type Tool interface {
	Name() string
	// Args returns a fresh argument list; it may contain PathPlaceholder.
	Args(cfg domain.EffectiveToolConfig) []string
	// RequiresIsolation reports whether the tool must read the document from
	// a file in a private directory instead of stdin.
	RequiresIsolation() bool
	// SettingsFile is the project dotfile the tool reads, or "".
	SettingsFile() string
	Parse(res domain.ExecutionResult) ([]domain.Diagnostic, error)
}

// All returns every tool in publication order.
func All() []Tool {
	return []Tool{RuboCop{}, Reek{}, Fasterer{}}
}

// ByName returns the tool registered under name.
func ByName(name string) (Tool, bool) {
	for _, t := range All() {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// exitTolerated reports whether code is success or "issues found" for a tool.
func exitTolerated(code int, tolerated ...int) bool {
	if code == 0 {
		return true
	}
	for _, c := range tolerated {
		if code == c {
			return true
		}
	}
	return false
}
