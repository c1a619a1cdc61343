package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rubylint/rubylint/internal/adapters/outbound/config"
	"github.com/rubylint/rubylint/internal/adapters/outbound/document"
	"github.com/rubylint/rubylint/internal/adapters/outbound/gitinfo"
	"github.com/rubylint/rubylint/internal/adapters/outbound/isolation"
	"github.com/rubylint/rubylint/internal/adapters/outbound/process"
	"github.com/rubylint/rubylint/internal/application"
	"github.com/rubylint/rubylint/internal/domain"
)

// newLogger writes text logs to w. Only warnings and errors are shown
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// projectDir returns the directory settings are read from for path: the
// closest one holding .rubylint.yaml, or path itself (its parent for files).
func projectDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	if found, ok := isolation.LookUpward(abs, config.FileName); ok {
		return filepath.Dir(found), nil
	}
	return abs, nil
}

// settingsLoader reads configPath when given, otherwise .rubylint.yaml in
// the project directory.
func settingsLoader(configPath string) domain.SettingsLoader {
	if configPath != "" {
		return config.NewFile(configPath)
	}
	return config.New()
}

func loadSettings(dir, configPath string) (domain.Settings, error) {
	s, err := settingsLoader(configPath).Load(dir)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return s, nil
}

func newLintService(logger *slog.Logger, observer domain.LintObserver) *application.LintService {
	opts := []application.ServiceOption{
		application.WithLogger(logger),
		application.WithLocator(gitinfo.New()),
	}
	if observer != nil {
		opts = append(opts, application.WithObserver(observer))
	}
	return application.NewLintService(process.New(), isolation.New(), opts...)
}

// displayPath turns a document id back into a path relative to root.
func displayPath(root string) func(string) string {
	return func(id string) string {
		p := filepath.FromSlash(strings.TrimPrefix(id, "file://"))
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
		return p
	}
}

// failureLog records lint failures reported through the notifier so they
// can be attached to the report, and forwards them to next.
type failureLog struct {
	next     domain.Notifier
	mu       sync.Mutex
	messages []string
}

func (f *failureLog) NotifyError(message string) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	if f.next != nil {
		f.next.NotifyError(message)
	}
}

// reason finds the failure reported for path.
func (f *failureLog) reason(path string) string {
	prefix := "rubylint failed to lint " + path + ": "
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if msg, ok := strings.CutPrefix(f.messages[i], prefix); ok {
			return msg
		}
	}
	return "lint failed"
}

// lintInBatches focuses docs jobs at a time and waits for each batch to be
// published.
func lintInBatches(orch *application.Orchestrator, docs []*document.Memory, jobs int) {
	if jobs < 1 {
		jobs = 1
	}
	for start := 0; start < len(docs); start += jobs {
		end := min(start+jobs, len(docs))
		for _, doc := range docs[start:end] {
			orch.DocumentFocused(doc)
		}
		orch.Wait()
	}
}
