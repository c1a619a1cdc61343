package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/rubylint/rubylint/internal/domain"
)

// StreamSink renders every published diagnostic set as it arrives and
// forwards it to next.
type StreamSink struct {
	mu     sync.Mutex
	w      io.Writer
	next   domain.DiagnosticSink
	pathOf func(documentID string) string
}

// NewStreamSink writes to w. pathOf maps document ids to display paths.
func NewStreamSink(w io.Writer, next domain.DiagnosticSink, pathOf func(string) string) *StreamSink {
	if pathOf == nil {
		pathOf = func(id string) string { return id }
	}
	return &StreamSink{w: w, next: next, pathOf: pathOf}
}

func (s *StreamSink) SetDiagnostics(documentID string, diagnostics []domain.Diagnostic) {
	s.mu.Lock()
	fmt.Fprint(s.w, RenderDiagnostics(s.pathOf(documentID), diagnostics))
	s.mu.Unlock()
	if s.next != nil {
		s.next.SetDiagnostics(documentID, diagnostics)
	}
}

func (s *StreamSink) ClearDiagnostics(documentID string) {
	if s.next != nil {
		s.next.ClearDiagnostics(documentID)
	}
}
