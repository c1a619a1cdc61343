package domain

import (
	"context"
	"time"
)

// Document is a read-only view of an editor document.
type Document interface {
	ID() string
	Path() string
	LanguageID() string
	Text() string
}

// ProcessRunner executes one external process. It never fails the call
// because the process exited nonzero or could not start; both are reported
// in the result.
type ProcessRunner interface {
	Execute(ctx context.Context, req ExecutionRequest) ExecutionResult
}

// Isolator materializes document text into a private directory.
type Isolator interface {
	Materialize(ctx context.Context, text, realDir, settingsFile string) (*Workspace, error)
	Release(ws *Workspace) error
}

// DiagnosticSink receives the published diagnostics for a document.
type DiagnosticSink interface {
	SetDiagnostics(documentID string, diagnostics []Diagnostic)
	ClearDiagnostics(documentID string)
}

// Notifier is the user-visible error channel.
type Notifier interface {
	NotifyError(message string)
}

// SettingsLoader loads the settings snapshot for a project directory.
type SettingsLoader interface {
	Load(projectPath string) (Settings, error)
}

// WorkspaceLocator finds the workspace root that contains dir.
type WorkspaceLocator interface {
	WorkspaceRoot(dir string) (string, error)
}

// LintObserver records tool executions and lint cycles.
type LintObserver interface {
	ObserveTool(tool string, elapsed time.Duration, err error)
	ObserveCycle(diagnostics int, err error)
}
