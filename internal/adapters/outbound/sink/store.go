package sink

import (
	"sort"
	"sync"

	"github.com/rubylint/rubylint/internal/domain"
)

// Store is an in-memory implementation of domain.DiagnosticSink.
type Store struct {
	mu    sync.RWMutex
	diags map[string][]domain.Diagnostic
	// published counts SetDiagnostics calls per document.
	published map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		diags:     make(map[string][]domain.Diagnostic),
		published: make(map[string]int),
	}
}

// SetDiagnostics replaces everything held for documentID.
func (s *Store) SetDiagnostics(documentID string, diagnostics []domain.Diagnostic) {
	cp := make([]domain.Diagnostic, len(diagnostics))
	copy(cp, diagnostics)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags[documentID] = cp
	s.published[documentID]++
}

// ClearDiagnostics forgets documentID. Clearing an unknown id is a no-op.
func (s *Store) ClearDiagnostics(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.diags, documentID)
}

// Get returns the diagnostics currently held for documentID.
func (s *Store) Get(documentID string) ([]domain.Diagnostic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diags[documentID]
	if !ok {
		return nil, false
	}
	out := make([]domain.Diagnostic, len(d))
	copy(out, d)
	return out, true
}

// Published reports whether documentID ever received a diagnostic set.
func (s *Store) Published(documentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published[documentID] > 0
}

// Documents lists the ids holding diagnostics, sorted.
func (s *Store) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.diags))
	for id := range s.diags {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of diagnostics per severity across documents.
func (s *Store) Count() map[domain.Severity]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.Severity]int)
	for _, d := range s.diags {
		for _, diag := range d {
			counts[diag.Severity]++
		}
	}
	return counts
}
