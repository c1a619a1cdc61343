package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const offenseOutput = `{"files":[{"path":"app.rb","offenses":[{"severity":"error","message":"unexpected token","cop_name":"Lint/Syntax","location":{"line":2,"column":3,"length":4}}]}]}`

// fakeTool writes an executable script named tool into dir that drains
// stdin, prints stdout and exits with code.
func fakeTool(t *testing.T, dir, tool, stdout string, code int) {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\ncat >/dev/null\nprintf '%%s' '%s'\nexit %d\n", stdout, code)
	require.NoError(t, os.WriteFile(filepath.Join(dir, tool), []byte(script), 0o755))
}

// rubyProject creates a project whose settings point rubocop at a fake
// executable and returns the project dir.
func rubyProject(t *testing.T, rubocopOutput string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	fakeTool(t, bin, "rubocop", rubocopOutput, code)

	settings := fmt.Sprintf("lint:\n  rubocop:\n    path: %s\n", bin)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".rubylint.yaml"), []byte(settings), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.rb"), []byte("class App\n  def x; end\nend\n"), 0o644))
	return root
}

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
