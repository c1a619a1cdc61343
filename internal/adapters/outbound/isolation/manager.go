package isolation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rubylint/rubylint/internal/domain"
)

// FileName is the name the document copy gets inside the isolated directory.
const FileName = "lint.rb"

// Manager implements domain.Isolator with one fresh temp directory per call.
type Manager struct {
	// TempRoot is where isolated directories are created; "" means os.TempDir.
	TempRoot string
	// HomeDir is consulted when the settings file is not found upward.
	HomeDir func() (string, error)
}

func New() *Manager {
	return &Manager{HomeDir: os.UserHomeDir}
}

// Materialize writes text into a new private directory and links the
// nearest settingsFile next to it so the tool sees project configuration.
func (m *Manager) Materialize(_ context.Context, text, realDir, settingsFile string) (*domain.Workspace, error) {
	dir, err := os.MkdirTemp(m.TempRoot, "rubylint-")
	if err != nil {
		return nil, fmt.Errorf("creating isolated directory: %w", err)
	}
	ws := &domain.Workspace{Dir: dir, FilePath: filepath.Join(dir, FileName)}

	if err := os.WriteFile(ws.FilePath, []byte(text), 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("writing document copy: %w", err)
	}

	if settingsFile == "" {
		return ws, nil
	}
	src, ok := m.findSettings(realDir, settingsFile)
	if !ok {
		return ws, nil
	}
	dst := filepath.Join(dir, settingsFile)
	if err := linkOrCopy(src, dst); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("linking %s: %w", settingsFile, err)
	}
	ws.SettingsFile = dst
	return ws, nil
}

// Release removes the isolated directory and everything in it.
func (m *Manager) Release(ws *domain.Workspace) error {
	if ws == nil || ws.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(ws.Dir); err != nil {
		return fmt.Errorf("removing %s: %w", ws.Dir, err)
	}
	return nil
}

// findSettings searches from dir up to the filesystem root, then the home
// directory.
func (m *Manager) findSettings(dir, name string) (string, bool) {
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			if p, ok := LookUpward(abs, name); ok {
				return p, true
			}
		}
	}
	if m.HomeDir == nil {
		return "", false
	}
	home, err := m.HomeDir()
	if err != nil || home == "" {
		return "", false
	}
	p := filepath.Join(home, name)
	if isFile(p) {
		return p, true
	}
	return "", false
}

// LookUpward returns the first regular file called name in dir or one of
// its ancestors.
func LookUpward(dir, name string) (string, bool) {
	for {
		p := filepath.Join(dir, name)
		if isFile(p) {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func linkOrCopy(src, dst string) error {
	if err := os.Link(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		return errors.Join(err, out.Close())
	}
	return out.Close()
}
