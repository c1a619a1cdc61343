package application_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rubylint/rubylint/internal/application"
	"github.com/rubylint/rubylint/internal/domain"
)

type fakeDoc struct {
	id, path, lang, text string
	reads                *atomic.Int32
}

func rubyDoc(path, text string) *fakeDoc {
	return &fakeDoc{id: "file://" + path, path: path, lang: domain.LanguageRuby, text: text, reads: new(atomic.Int32)}
}

func (d *fakeDoc) ID() string         { return d.id }
func (d *fakeDoc) Path() string       { return d.path }
func (d *fakeDoc) LanguageID() string { return d.lang }
func (d *fakeDoc) Text() string {
	d.reads.Add(1)
	return d.text
}

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *fakeClock
	at    time.Duration
	f     func()
	done  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.done
	t.done = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) application.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// fakeLinter records cycles. When gate is set every Lint blocks until the
// test sends on it.
type fakeLinter struct {
	mu         sync.Mutex
	texts      []string
	running    int
	maxRunning int
	configured []domain.Settings
	diags      []domain.Diagnostic
	err        error

	started chan string
	gate    chan struct{}
}

func newFakeLinter() *fakeLinter {
	return &fakeLinter{started: make(chan string, 16)}
}

func (f *fakeLinter) Configure(s domain.Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = append(f.configured, s)
}

func (f *fakeLinter) Lint(ctx context.Context, doc domain.Document) ([]domain.Diagnostic, error) {
	text := doc.Text()
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.running++
	if f.running > f.maxRunning {
		f.maxRunning = f.running
	}
	diags, err := f.diags, f.err
	f.mu.Unlock()

	f.started <- text
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	f.running--
	f.mu.Unlock()
	return diags, err
}

func (f *fakeLinter) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

type sinkEvent struct {
	op    string // "set" or "clear"
	id    string
	diags []domain.Diagnostic
}

type recordingSink struct {
	mu     sync.Mutex
	events []sinkEvent
}

func (s *recordingSink) SetDiagnostics(id string, diags []domain.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, sinkEvent{op: "set", id: id, diags: diags})
}

func (s *recordingSink) ClearDiagnostics(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, sinkEvent{op: "clear", id: id})
}

func (s *recordingSink) all() []sinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkEvent(nil), s.events...)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) NotifyError(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// fakeRunner answers by executable base name.
type fakeRunner struct {
	mu       sync.Mutex
	requests []domain.ExecutionRequest
	results  map[string]domain.ExecutionResult
	delays   map[string]time.Duration
	// seen records whether the isolated file existed when the tool ran.
	seen map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]domain.ExecutionResult),
		delays:  make(map[string]time.Duration),
		seen:    make(map[string]bool),
	}
}

func toolOf(req domain.ExecutionRequest) string {
	if len(req.Args) >= 2 && req.Args[0] == "exec" {
		return req.Args[1]
	}
	return strings.TrimSuffix(filepath.Base(req.Command), ".bat")
}

func (r *fakeRunner) Execute(ctx context.Context, req domain.ExecutionRequest) domain.ExecutionResult {
	tool := toolOf(req)

	r.mu.Lock()
	r.requests = append(r.requests, req)
	res := r.results[tool]
	delay := r.delays[tool]
	r.mu.Unlock()

	if last := req.Args[len(req.Args)-1]; tool == domain.ToolFasterer {
		_, err := os.Stat(last)
		r.mu.Lock()
		r.seen[tool] = err == nil
		r.mu.Unlock()
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.ExecutionResult{ExitCode: -1, TimedOut: ctx.Err() == context.DeadlineExceeded}
		}
	}
	return res
}

func (r *fakeRunner) request(tool string) (domain.ExecutionRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if toolOf(req) == tool {
			return req, true
		}
	}
	return domain.ExecutionRequest{}, false
}

// dirIsolator materializes into subdirectories of a test temp dir.
type dirIsolator struct {
	base     string
	mu       sync.Mutex
	released []string
}

func (i *dirIsolator) Materialize(_ context.Context, text, _, _ string) (*domain.Workspace, error) {
	dir, err := os.MkdirTemp(i.base, "iso-")
	if err != nil {
		return nil, err
	}
	file := filepath.Join(dir, "lint.rb")
	if err := os.WriteFile(file, []byte(text), 0o644); err != nil {
		return nil, err
	}
	return &domain.Workspace{Dir: dir, FilePath: file}, nil
}

func (i *dirIsolator) Release(ws *domain.Workspace) error {
	i.mu.Lock()
	i.released = append(i.released, ws.Dir)
	i.mu.Unlock()
	return os.RemoveAll(ws.Dir)
}

type recordingObserver struct {
	mu     sync.Mutex
	tools  map[string]error
	cycles []error
}

func (o *recordingObserver) ObserveTool(tool string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tools == nil {
		o.tools = make(map[string]error)
	}
	o.tools[tool] = err
}

func (o *recordingObserver) ObserveCycle(_ int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cycles = append(o.cycles, err)
}
