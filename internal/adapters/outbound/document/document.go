// Package document provides domain.Document implementations backed by
// files on disk or by unsaved text.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rubylint/rubylint/internal/domain"
)

var rubyExtensions = map[string]bool{
	".rb":       true,
	".rake":     true,
	".gemspec":  true,
	".ru":       true,
	".rbw":      true,
	".jbuilder": true,
	".podspec":  true,
	".thor":     true,
}

var rubyBasenames = map[string]bool{
	"Gemfile":     true,
	"Rakefile":    true,
	"Guardfile":   true,
	"Capfile":     true,
	"Vagrantfile": true,
	"Podfile":     true,
	"Brewfile":    true,
	"Berksfile":   true,
	"Thorfile":    true,
}

// LanguageFor returns the language id for path, "ruby" or "plaintext".
func LanguageFor(path string) string {
	base := filepath.Base(path)
	if rubyBasenames[base] || rubyExtensions[strings.ToLower(filepath.Ext(base))] {
		return domain.LanguageRuby
	}
	return "plaintext"
}

// IDFor is the document identity used for path.
func IDFor(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// Memory is a document whose text is held in memory and may be replaced.
type Memory struct {
	path string
	lang string

	mu   sync.RWMutex
	text string
}

// NewMemory wraps text as the content of path.
func NewMemory(path, text string) *Memory {
	return &Memory{path: path, lang: LanguageFor(path), text: text}
}

// Load reads path into a document snapshot.
func Load(path string) (*Memory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return NewMemory(abs, string(data)), nil
}

func (d *Memory) ID() string         { return IDFor(d.path) }
func (d *Memory) Path() string       { return d.path }
func (d *Memory) LanguageID() string { return d.lang }

func (d *Memory) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// SetText replaces the content, as an editor buffer edit would.
func (d *Memory) SetText(text string) {
	d.mu.Lock()
	d.text = text
	d.mu.Unlock()
}

// Reload rereads the file from disk.
func (d *Memory) Reload() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.path, err)
	}
	d.SetText(string(data))
	return nil
}
