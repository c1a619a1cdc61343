package cli

import (
	mcpadapter "github.com/rubylint/rubylint/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the rubylint MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath, configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start rubylint MCP server (stdio)",
		Long:  "Start the rubylint MCP server using stdio transport. This lets AI coding assistants lint Ruby files and source snippets and inspect the tool configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			s := mcpadapter.NewRubylintMCPServer(projectPath, nil, settingsLoader(configPath))
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().StringVar(&configPath, "config", "", "Settings file (defaults to .rubylint.yaml in the project path)")

	return cmd
}
