package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rubylint/rubylint/internal/adapters/outbound/document"
	"github.com/rubylint/rubylint/internal/adapters/outbound/gitinfo"
	"github.com/rubylint/rubylint/internal/adapters/outbound/isolation"
	"github.com/rubylint/rubylint/internal/application"
	"github.com/rubylint/rubylint/internal/domain"
	"github.com/rubylint/rubylint/internal/domain/linters"
)

type deps struct {
	projectPath string
	runner      domain.ProcessRunner
	loader      domain.SettingsLoader
}

// newService loads the project settings and builds a configured LintService.
func (d deps) newService() (*application.LintService, domain.Settings, error) {
	settings, err := d.loader.Load(d.projectPath)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	svc := application.NewLintService(d.runner, isolation.New(), application.WithLocator(gitinfo.New()))
	svc.Configure(settings)
	return svc, settings, nil
}

type lintResult struct {
	Path        string              `json:"path"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

// registerTools registers all rubylint MCP tools on the given server.
func registerTools(s *server.MCPServer, d deps) {
	// 1. rubylint_lint_file
	s.AddTool(
		mcplib.NewTool("rubylint_lint_file",
			mcplib.WithDescription("Lint a Ruby file of the project with every enabled tool and return its diagnostics as JSON"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file, relative to the project root"),
			),
		),
		handleLintFile(d),
	)

	// 2. rubylint_lint_source
	s.AddTool(
		mcplib.NewTool("rubylint_lint_source",
			mcplib.WithDescription("Lint unsaved Ruby source text and return its diagnostics as JSON"),
			mcplib.WithString("source",
				mcplib.Required(),
				mcplib.Description("Ruby source code"),
			),
			mcplib.WithString("filename",
				mcplib.Description("File name used for language detection and tool configuration (default: untitled.rb)"),
			),
		),
		handleLintSource(d),
	)

	// 3. rubylint_effective_config
	s.AddTool(
		mcplib.NewTool("rubylint_effective_config",
			mcplib.WithDescription("Returns the merged configuration each tool runs with"),
			mcplib.WithString("tool", mcplib.Description("Only this tool: rubocop, reek or fasterer")),
		),
		handleEffectiveConfig(d),
	)
}

func handleLintFile(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		path, err := d.resolve(file)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		doc, err := document.Load(path)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return lint(ctx, d, doc)
	}
}

// resolve joins file onto the project path and rejects results outside it.
func (d deps) resolve(file string) (string, error) {
	root, err := filepath.Abs(d.projectPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, file)
	}
	path = filepath.Clean(path)
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file %q is outside the project", file)
	}
	return path, nil
}

func handleLintSource(d deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		source, err := request.RequireString("source")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		filename := request.GetString("filename", "untitled.rb")

		abs, err := d.resolve(filename)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return lint(ctx, d, document.NewMemory(abs, source))
	}
}

func lint(ctx context.Context, d deps, doc domain.Document) (*mcplib.CallToolResult, error) {
	if doc.LanguageID() != domain.LanguageRuby {
		return errorResult(fmt.Sprintf("%s is not a Ruby file", doc.Path())), nil
	}

	svc, _, err := d.newService()
	if err != nil {
		return errorResult(err.Error()), nil
	}

	diags, err := svc.Lint(ctx, doc)
	if err != nil {
		return errorResult(fmt.Sprintf("rubylint failed to lint %s: %v", doc.Path(), err)), nil
	}
	if diags == nil {
		diags = []domain.Diagnostic{}
	}
	return jsonResult(lintResult{Path: doc.Path(), Diagnostics: diags})
}

func handleEffectiveConfig(d deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc, _, err := d.newService()
		if err != nil {
			return errorResult(err.Error()), nil
		}

		tool := request.GetString("tool", "")
		if tool == "" {
			return jsonResult(svc.EffectiveConfigs())
		}
		cfg, ok := findConfig(svc, tool)
		if !ok {
			return errorResult(fmt.Sprintf("unknown tool %q (valid: rubocop, reek, fasterer)", tool)), nil
		}
		return jsonResult(cfg)
	}
}

func findConfig(svc *application.LintService, tool string) (domain.EffectiveToolConfig, bool) {
	if _, ok := linters.ByName(tool); !ok {
		return domain.EffectiveToolConfig{}, false
	}
	for _, c := range svc.EffectiveConfigs() {
		if c.Tool == tool {
			return c, true
		}
	}
	return domain.EffectiveToolConfig{}, false
}

// jsonResult marshals v into a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
