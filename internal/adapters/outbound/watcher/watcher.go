package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/rubylint/rubylint/internal/adapters/outbound/document"
	"github.com/rubylint/rubylint/internal/adapters/outbound/scanner"
	"github.com/rubylint/rubylint/internal/domain"
)

// Kind is what happened to a watched path.
type Kind int

const (
	// Saved means a Ruby file was created or written.
	Saved Kind = iota
	// Removed means a Ruby file was deleted or renamed away.
	Removed
	// SettingsChanged means the settings file was written.
	SettingsChanged
)

func (k Kind) String() string {
	switch k {
	case Saved:
		return "saved"
	case Removed:
		return "removed"
	case SettingsChanged:
		return "settings_changed"
	default:
		return "unknown"
	}
}

// Event is one change relevant to linting.
type Event struct {
	Path string
	Kind Kind
}

// Watcher turns filesystem notifications under a root directory into
// document events.
type Watcher struct {
	root         string
	settingsFile string
	fsw          *fsnotify.Watcher
	logger       *slog.Logger
}

// New watches root and every subdirectory not ignored by the scanner.
// settingsFile is the absolute path whose writes are reported as
// SettingsChanged.
func New(root, settingsFile string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: abs, settingsFile: settingsFile, fsw: fsw, logger: logger}
	if err := w.addRecursive(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers events to handle until ctx is done or Close is called.
// handle is called from a single goroutine.
func (w *Watcher) Run(ctx context.Context, handle func(Event)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if out, ok := w.translate(ev); ok {
				handle(out)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	path := ev.Name

	if w.settingsFile != "" && path == w.settingsFile {
		if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
			return Event{Path: path, Kind: SettingsChanged}, true
		}
		return Event{}, false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !scanner.IgnoredDir(info.Name()) {
				if err := w.addRecursive(path); err != nil {
					w.logger.Warn("watching new directory", "dir", path, "error", err)
				}
			}
			return Event{}, false
		}
	}

	if document.LanguageFor(path) != domain.LanguageRuby {
		return Event{}, false
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Path: path, Kind: Removed}, true
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		return Event{Path: path, Kind: Saved}, true
	}
	return Event{}, false
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && scanner.IgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
