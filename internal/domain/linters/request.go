package linters

import (
	"path/filepath"
	"strings"

	"github.com/rubylint/rubylint/internal/domain"
)

// Target is where and on what a tool runs.
type Target struct {
	// FilePath is the path passed to the tool, either the real document path
	// or the isolated copy.
	FilePath      string
	Dir           string
	WorkspaceRoot string
	// Stdin carries the document text for tools that read it; nil otherwise.
	Stdin *string
}

// BuildRequest assembles the subprocess invocation for tool. goos selects
// the executable suffix so requests can be built for any platform.
func BuildRequest(tool Tool, cfg domain.EffectiveToolConfig, target Target, goos string) domain.ExecutionRequest {
	args := tool.Args(cfg)
	for i, a := range args {
		args[i] = strings.ReplaceAll(a, PathPlaceholder, target.FilePath)
	}

	var command string
	if cfg.Path == "" && cfg.UseBundler {
		command = cfg.BundlerPath
		args = append([]string{"exec", tool.Name()}, args...)
	} else {
		exe := tool.Name()
		if goos == "windows" {
			exe += ".bat"
		}
		command = filepath.Join(cfg.Path, exe)
	}
	command = strings.ReplaceAll(command, WorkspaceRootPlaceholder, target.WorkspaceRoot)

	return domain.ExecutionRequest{
		Command: command,
		Args:    args,
		Dir:     target.Dir,
		Stdin:   target.Stdin,
	}
}
