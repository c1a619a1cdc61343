package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/rubylint/rubylint/internal/adapters/outbound/config"
	"github.com/rubylint/rubylint/internal/adapters/outbound/process"
	"github.com/rubylint/rubylint/internal/domain"
)

// NewRubylintMCPServer creates an MCP server with all rubylint tools and
// resources registered. projectPath is the directory whose settings apply
// and against which relative file names resolve. A nil runner runs the real
// tools; a nil loader reads .rubylint.yaml from projectPath.
func NewRubylintMCPServer(projectPath string, runner domain.ProcessRunner, loader domain.SettingsLoader) *server.MCPServer {
	if runner == nil {
		runner = process.New()
	}
	if loader == nil {
		loader = config.New()
	}

	s := server.NewMCPServer(
		"rubylint",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	d := deps{projectPath: projectPath, runner: runner, loader: loader}
	registerTools(s, d)
	registerResources(s, d)

	return s
}
