package domain

import "time"

// LanguageRuby is the only language kind eligible for linting.
const LanguageRuby = "ruby"

// Tool names, in the fixed order their diagnostics are concatenated.
const (
	ToolRuboCop  = "rubocop"
	ToolReek     = "reek"
	ToolFasterer = "fasterer"
)

// ToolNames lists every supported tool in publication order.
var ToolNames = []string{ToolRuboCop, ToolReek, ToolFasterer}

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityHint    Severity = "hint"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// EndOfLine is the end column used for findings that cover a whole line.
const EndOfLine = 10000

// Range is a zero-based span inside a document.
type Range struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

// LineRange returns a range covering the whole of a zero-based line.
func LineRange(line int) Range {
	return Range{StartLine: line, StartCol: 0, EndLine: line, EndCol: EndOfLine}
}

// Diagnostic is a normalized finding produced by one tool.
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`
}

// ExecutionRequest describes one subprocess invocation.
type ExecutionRequest struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	Dir     string   `json:"dir"`
	// Env is the full process environment; nil inherits the current one.
	Env []string `json:"env,omitempty"`
	// Stdin is written to the process and closed; nil leaves stdin empty.
	Stdin *string `json:"-"`
}

// ExecutionResult is what a subprocess produced. A nonzero ExitCode is not
// an error by itself; tool adapters decide what it means.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	SpawnErr error
	TimedOut bool
	Elapsed  time.Duration
}

// Workspace is a disposable directory holding a copy of a document for
// tools that cannot read from stdin.
type Workspace struct {
	Dir          string
	FilePath     string
	SettingsFile string // linked settings file, empty when none was found
}
