package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rubylint/rubylint/internal/domain"
	"github.com/rubylint/rubylint/internal/domain/linters"
)

// LintService runs one lint cycle: every enabled tool against a single
// snapshot of a document, all-or-nothing.
type LintService struct {
	tools    []linters.Tool
	runner   domain.ProcessRunner
	isolator domain.Isolator
	locator  domain.WorkspaceLocator
	observer domain.LintObserver
	logger   *slog.Logger
	goos     string

	mu      sync.RWMutex
	configs map[string]domain.EffectiveToolConfig
	timeout time.Duration
}

// ServiceOption customizes a LintService.
type ServiceOption func(*LintService)

// WithTools replaces the default tool set. Order is publication order.
func WithTools(tools ...linters.Tool) ServiceOption {
	return func(s *LintService) { s.tools = tools }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *LintService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithObserver(o domain.LintObserver) ServiceOption {
	return func(s *LintService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLocator sets how ${workspaceRoot} is found. Without one the
// document directory is used.
func WithLocator(l domain.WorkspaceLocator) ServiceOption {
	return func(s *LintService) { s.locator = l }
}

// WithGOOS overrides the platform used to name tool executables.
func WithGOOS(goos string) ServiceOption {
	return func(s *LintService) { s.goos = goos }
}

func NewLintService(runner domain.ProcessRunner, isolator domain.Isolator, opts ...ServiceOption) *LintService {
	s := &LintService{
		tools:    linters.All(),
		runner:   runner,
		isolator: isolator,
		observer: noopObserver{},
		logger:   slog.New(slog.DiscardHandler),
		goos:     runtime.GOOS,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Configure(domain.DefaultSettings())
	return s
}

// Configure replaces the settings snapshot and recomputes every tool's
// effective configuration.
func (s *LintService) Configure(settings domain.Settings) {
	configs := make(map[string]domain.EffectiveToolConfig, len(s.tools))
	for _, t := range s.tools {
		configs[t.Name()] = domain.Resolve(t.Name(), settings)
	}

	s.mu.Lock()
	s.configs = configs
	s.timeout = settings.Timeout()
	s.mu.Unlock()
}

// EffectiveConfigs returns the cached configuration of every tool in
// publication order.
func (s *LintService) EffectiveConfigs() []domain.EffectiveToolConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.EffectiveToolConfig, 0, len(s.tools))
	for _, t := range s.tools {
		out = append(out, s.configs[t.Name()])
	}
	return out
}

type toolRun struct {
	tool linters.Tool
	cfg  domain.EffectiveToolConfig
}

// Lint runs every enabled tool concurrently and returns their diagnostics
// concatenated in tool order. If any tool fails the diagnostics of the
// others are discarded and the first error is returned.
func (s *LintService) Lint(ctx context.Context, doc domain.Document) ([]domain.Diagnostic, error) {
	text := doc.Text()
	path := doc.Path()
	dir := filepath.Dir(path)

	s.mu.RLock()
	timeout := s.timeout
	var runs []toolRun
	for _, t := range s.tools {
		if cfg := s.configs[t.Name()]; cfg.Enabled {
			runs = append(runs, toolRun{tool: t, cfg: cfg})
		}
	}
	s.mu.RUnlock()

	log := s.logger.With("cycle", uuid.NewString()[:8], "document", path)
	start := time.Now()
	log.Debug("lint cycle started", "tools", len(runs))

	root := s.workspaceRoot(dir, log)

	results := make([][]domain.Diagnostic, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range runs {
		g.Go(func() error {
			diags, err := s.runTool(gctx, r, text, path, dir, root, timeout, log)
			if err != nil {
				return err
			}
			results[i] = diags
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.observer.ObserveCycle(0, err)
		log.Debug("lint cycle failed", "error", err, "elapsed", time.Since(start))
		return nil, err
	}

	var all []domain.Diagnostic
	for _, diags := range results {
		all = append(all, diags...)
	}
	s.observer.ObserveCycle(len(all), nil)
	log.Debug("lint cycle finished", "diagnostics", len(all), "elapsed", time.Since(start))
	return all, nil
}

func (s *LintService) runTool(
	ctx context.Context,
	r toolRun,
	text, path, dir, root string,
	timeout time.Duration,
	log *slog.Logger,
) (diags []domain.Diagnostic, err error) {
	name := r.tool.Name()
	log = log.With("tool", name)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := linters.Target{FilePath: path, Dir: dir, WorkspaceRoot: root}
	if r.tool.RequiresIsolation() {
		ws, err := s.isolator.Materialize(ctx, text, dir, r.tool.SettingsFile())
		if err != nil {
			return nil, fmt.Errorf("%s: isolating document: %w", name, err)
		}
		defer func() {
			if err := s.isolator.Release(ws); err != nil {
				log.Warn("removing isolated directory", "dir", ws.Dir, "error", err)
			}
		}()
		target.FilePath = ws.FilePath
		target.Dir = ws.Dir
	} else {
		target.Stdin = &text
	}

	req := linters.BuildRequest(r.tool, r.cfg, target, s.goos)
	log.Debug("running tool", "command", req.Command, "args", req.Args, "dir", req.Dir)

	res := s.runner.Execute(ctx, req)
	defer func() { s.observer.ObserveTool(name, res.Elapsed, err) }()

	switch {
	case res.SpawnErr != nil:
		err = &domain.SpawnError{Tool: name, Command: req.Command, Err: res.SpawnErr}
	case res.TimedOut:
		err = &domain.TimeoutError{Tool: name, After: timeout}
	case ctx.Err() != nil:
		err = fmt.Errorf("%s: %w", name, ctx.Err())
	default:
		diags, err = r.tool.Parse(res)
	}
	if err != nil {
		log.Warn("tool failed",
			"error", err,
			"exit_code", res.ExitCode,
			"stderr", res.Stderr,
			"stdout", res.Stdout,
		)
		return nil, err
	}

	log.Debug("tool finished", "exit_code", res.ExitCode, "diagnostics", len(diags), "elapsed", res.Elapsed)
	return diags, nil
}

func (s *LintService) workspaceRoot(dir string, log *slog.Logger) string {
	if s.locator == nil {
		return dir
	}
	root, err := s.locator.WorkspaceRoot(dir)
	if err != nil || root == "" {
		log.Debug("no workspace root, using document directory", "error", err)
		return dir
	}
	return root
}

type noopObserver struct{}

func (noopObserver) ObserveTool(string, time.Duration, error) {}
func (noopObserver) ObserveCycle(int, error)                  {}
