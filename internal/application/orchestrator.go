package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rubylint/rubylint/internal/domain"
)

// Linter runs lint cycles. *LintService implements it.
type Linter interface {
	Configure(settings domain.Settings)
	Lint(ctx context.Context, doc domain.Document) ([]domain.Diagnostic, error)
}

// Orchestrator decides when each document is linted. Per document at most
// one cycle is in flight; requests arriving meanwhile collapse into a single
// follow-up cycle over the latest snapshot.
type Orchestrator struct {
	linter   Linter
	sink     domain.DiagnosticSink
	notifier domain.Notifier
	clock    Clock
	logger   *slog.Logger

	mu       sync.Mutex
	debounce time.Duration
	mode     domain.LintRun
	docs     map[string]*docState
	stopped  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type docState struct {
	doc     domain.Document
	timer   Timer
	seq     uint64
	running bool
	pending bool
	closed  bool
	// epoch changes on every close; a cycle started in an older epoch
	// never publishes.
	epoch uint64
}

// NewOrchestrator configures linter with settings and returns an idle
// orchestrator. A nil clock means the wall clock; a nil logger discards.
func NewOrchestrator(
	linter Linter,
	sink domain.DiagnosticSink,
	notifier domain.Notifier,
	settings domain.Settings,
	clock Clock,
	logger *slog.Logger,
) *Orchestrator {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())

	linter.Configure(settings)
	return &Orchestrator{
		linter:   linter,
		sink:     sink,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
		debounce: settings.Debounce(),
		mode:     settings.RunMode(),
		docs:     make(map[string]*docState),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func eligible(doc domain.Document) bool {
	return doc != nil && doc.LanguageID() == domain.LanguageRuby
}

// DocumentChanged debounces a text edit. Ignored when linting on save.
func (o *Orchestrator) DocumentChanged(doc domain.Document) {
	if !eligible(doc) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped || o.mode == domain.LintRunOnSave {
		return
	}
	o.schedule(o.track(doc))
}

// DocumentSaved lints immediately when linting on save, otherwise it counts
// as an edit.
func (o *Orchestrator) DocumentSaved(doc domain.Document) {
	if !eligible(doc) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return
	}
	st := o.track(doc)
	if o.mode == domain.LintRunOnSave {
		o.cancelTimer(st)
		o.start(st)
		return
	}
	o.schedule(st)
}

// DocumentFocused cancels any pending debounce and lints immediately.
func (o *Orchestrator) DocumentFocused(doc domain.Document) {
	if !eligible(doc) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return
	}
	st := o.track(doc)
	o.cancelTimer(st)
	o.start(st)
}

// DocumentClosed drops pending work and clears the document's diagnostics.
// A cycle still running for it will not publish.
func (o *Orchestrator) DocumentClosed(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if st, ok := o.docs[id]; ok {
		o.cancelTimer(st)
		st.epoch++
		st.pending = false
		if st.running {
			st.closed = true
		} else {
			delete(o.docs, id)
		}
	}
	o.sink.ClearDiagnostics(id)
}

// ConfigurationChanged replaces the settings snapshot and relints every
// open document without debounce.
func (o *Orchestrator) ConfigurationChanged(settings domain.Settings) {
	o.linter.Configure(settings)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.debounce = settings.Debounce()
	o.mode = settings.RunMode()
	if o.stopped {
		return
	}
	for _, st := range o.docs {
		if st.closed {
			continue
		}
		o.cancelTimer(st)
		o.start(st)
	}
}

// Wait blocks until no cycle is running.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Shutdown stops timers, cancels running cycles and waits for them.
// No diagnostics are published afterwards.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	o.stopped = true
	for _, st := range o.docs {
		o.cancelTimer(st)
		st.pending = false
	}
	o.mu.Unlock()

	o.cancel()
	o.wg.Wait()
}

// track returns the state for doc, refreshing its snapshot source.
// Callers hold o.mu.
func (o *Orchestrator) track(doc domain.Document) *docState {
	st, ok := o.docs[doc.ID()]
	if !ok {
		st = &docState{}
		o.docs[doc.ID()] = st
	}
	st.doc = doc
	st.closed = false
	return st
}

func (o *Orchestrator) schedule(st *docState) {
	o.cancelTimer(st)
	seq := st.seq
	id := st.doc.ID()
	st.timer = o.clock.AfterFunc(o.debounce, func() { o.fire(id, seq) })
}

func (o *Orchestrator) fire(id string, seq uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.docs[id]
	if !ok || st.seq != seq || st.closed || o.stopped {
		return
	}
	st.timer = nil
	o.start(st)
}

// cancelTimer stops the debounce timer and invalidates a callback that
// already fired but has not acquired the lock yet.
func (o *Orchestrator) cancelTimer(st *docState) {
	st.seq++
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
}

func (o *Orchestrator) start(st *docState) {
	if st.running {
		st.pending = true
		return
	}
	st.running = true
	o.wg.Add(1)
	go o.run(st)
}

func (o *Orchestrator) run(st *docState) {
	defer o.wg.Done()

	for {
		o.mu.Lock()
		doc := st.doc
		epoch := st.epoch
		o.mu.Unlock()

		diags, err := o.linter.Lint(o.ctx, doc)

		o.mu.Lock()
		o.publish(st, doc, epoch, diags, err)
		if st.pending && !st.closed && !o.stopped {
			st.pending = false
			o.mu.Unlock()
			continue
		}
		st.running = false
		st.pending = false
		if st.closed && o.docs[doc.ID()] == st {
			delete(o.docs, doc.ID())
		}
		o.mu.Unlock()
		return
	}
}

// publish is called with o.mu held.
func (o *Orchestrator) publish(st *docState, doc domain.Document, epoch uint64, diags []domain.Diagnostic, err error) {
	if st.closed || o.stopped || st.epoch != epoch {
		return
	}
	if err != nil {
		o.logger.Error("lint failed", "document", doc.Path(), "error", err)
		o.sink.ClearDiagnostics(doc.ID())
		o.notifier.NotifyError(fmt.Sprintf("rubylint failed to lint %s: %v", doc.Path(), err))
		return
	}
	o.sink.SetDiagnostics(doc.ID(), diags)
}
