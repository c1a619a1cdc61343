package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers all rubylint MCP resources on the given server.
func registerResources(s *server.MCPServer, d deps) {
	// 1. rubylint://settings - the loaded settings snapshot
	s.AddResource(
		mcplib.NewResource(
			"rubylint://settings",
			"Settings",
			mcplib.WithResourceDescription("Settings loaded from the project's .rubylint.yaml, with defaults applied"),
			mcplib.WithMIMEType("application/json"),
		),
		handleSettingsResource(d),
	)

	// 2. rubylint://tools/{name} - effective configuration of one tool
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"rubylint://tools/{name}",
			"Tool Configuration",
			mcplib.WithTemplateDescription("Merged configuration a tool runs with"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleToolResource(d),
	)
}

func handleSettingsResource(d deps) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		_, settings, err := d.newService()
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling settings: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "rubylint://settings",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleToolResource(d deps) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name := toolName(request)
		if name == "" {
			return nil, fmt.Errorf("tool name is required")
		}

		svc, _, err := d.newService()
		if err != nil {
			return nil, err
		}
		cfg, ok := findConfig(svc, name)
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", name)
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

// toolName reads the {name} template argument, which the server fills in
// either as a string or as a one-element list.
func toolName(request mcplib.ReadResourceRequest) string {
	switch v := request.Params.Arguments["name"].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
