package tui

import (
	"fmt"
	"io"
	"sync"
)

// Notifier prints user-visible lint failures.
type Notifier struct {
	mu    sync.Mutex
	w     io.Writer
	count int
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) NotifyError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	fmt.Fprintf(n.w, "  %s %s\n", errorTagStyle.Render("error"), message)
}

// Count is the number of failures reported so far.
func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}
