package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"

	"github.com/rubylint/rubylint/internal/domain"
)

// ── Ruby-red palette ──
var (
	accent  = lipgloss.Color("#CC342D") // ruby
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	hint    = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	hintTagStyle  = lipgloss.NewStyle().Foreground(hint)
	fileStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sourceStyle   = lipgloss.NewStyle().Foreground(faint)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// FileReport is the outcome of linting one file.
type FileReport struct {
	Path        string              `json:"path"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
	Error       string              `json:"error,omitempty"`
}

// RenderReport formats the results of a lint run for the terminal.
func RenderReport(reports []FileReport) string {
	var b strings.Builder

	b.WriteString("\n  " + headerStyle.Render("rubylint") + "\n\n")

	var all []domain.Diagnostic
	failed := 0
	for _, r := range reports {
		switch {
		case r.Error != "":
			failed++
			fmt.Fprintf(&b, "  %s\n", fileStyle.Render(r.Path))
			fmt.Fprintf(&b, "    %s %s\n\n", errorTagStyle.Render("fail "), dimStyle.Render(r.Error))
		case len(r.Diagnostics) > 0:
			renderFile(&b, r.Path, r.Diagnostics)
			b.WriteString("\n")
			all = append(all, r.Diagnostics...)
		}
	}

	b.WriteString("  " + separatorLine + "\n\n")
	b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%d files inspected", len(reports))) + "  ")
	if len(all) == 0 && failed == 0 {
		b.WriteString(passStyle.Render("No offenses found."))
	} else {
		b.WriteString(summary(all))
		if failed > 0 {
			b.WriteString("  " + errorTagStyle.Render(fmt.Sprintf("%d failed", failed)))
		}
	}
	b.WriteString("\n\n")
	return b.String()
}

// RenderDiagnostics formats the diagnostics of one file.
func RenderDiagnostics(path string, diags []domain.Diagnostic) string {
	var b strings.Builder
	if len(diags) == 0 {
		fmt.Fprintf(&b, "  %s %s\n", fileStyle.Render(path), passStyle.Render("clean"))
		return b.String()
	}
	renderFile(&b, path, diags)
	return b.String()
}

func renderFile(b *strings.Builder, path string, diags []domain.Diagnostic) {
	sorted := append([]domain.Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Range.StartLine != sorted[j].Range.StartLine {
			return sorted[i].Range.StartLine < sorted[j].Range.StartLine
		}
		return sorted[i].Range.StartCol < sorted[j].Range.StartCol
	})

	fmt.Fprintf(b, "  %s\n", fileStyle.Render(shortenPath(path)))
	for _, d := range sorted {
		pos := fmt.Sprintf("%d:%d", d.Range.StartLine+1, d.Range.StartCol+1)
		fmt.Fprintf(b, "    %s %s %s  %s\n",
			dimStyle.Render(padRight(pos, 8)),
			severityTag(d.Severity),
			d.Message,
			sourceStyle.Render(SourceLabel(d.Source)),
		)
	}
}

// SourceLabel makes reek smell names readable:
// "reek: DuplicateMethodCall" becomes "reek: duplicate method call".
func SourceLabel(source string) string {
	tool, smell, ok := strings.Cut(source, ": ")
	if !ok || smell == "" {
		return source
	}
	words := camelcase.Split(smell)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return tool + ": " + strings.Join(words, " ")
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	case domain.SeverityHint:
		return hintTagStyle.Render("hint ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func summary(diags []domain.Diagnostic) string {
	counts := make(map[domain.Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	var parts []string
	if n := counts[domain.SeverityError]; n > 0 {
		parts = append(parts, errorTagStyle.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := counts[domain.SeverityWarning]; n > 0 {
		parts = append(parts, warnTagStyle.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := counts[domain.SeverityInfo]; n > 0 {
		parts = append(parts, infoTagStyle.Render(fmt.Sprintf("%d info", n)))
	}
	if n := counts[domain.SeverityHint]; n > 0 {
		parts = append(parts, hintTagStyle.Render(fmt.Sprintf("%d hints", n)))
	}
	return strings.Join(parts, "  ")
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 4 {
		return strings.Join(parts[len(parts)-4:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
