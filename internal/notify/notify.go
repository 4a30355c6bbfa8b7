// Package notify provides the notification surface: short-lived success and
// error messages shown to the user.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3500 * time.Millisecond

// Kind classifies a notice.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notice is a single message on the surface.
type Notice struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier receives user-visible messages.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Surface is an append-only notice list whose entries expire after a TTL.
// It is safe for concurrent use.
type Surface struct {
	mu      sync.Mutex
	notices []Notice
	ttl     time.Duration
	now     func() time.Time
}

// NewSurface creates a Surface with DefaultTTL and the wall clock.
func NewSurface() *Surface {
	return &Surface{ttl: DefaultTTL, now: time.Now}
}

// SetClock replaces the clock (for testing).
func (s *Surface) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Notify implements Notifier.
func (s *Surface) Notify(kind Kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Kind: kind, Message: message, At: s.now()})
}

// Active returns notices younger than the TTL, oldest first.
func (s *Surface) Active() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var active []Notice
	for _, n := range s.notices {
		if now.Sub(n.At) < s.ttl {
			active = append(active, n)
		}
	}
	return active
}

// Prune drops expired notices and reports how many remain.
func (s *Surface) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := s.notices[:0]
	for _, n := range s.notices {
		if now.Sub(n.At) < s.ttl {
			kept = append(kept, n)
		}
	}
	s.notices = kept
	return len(kept)
}

// All returns every notice not yet pruned.
func (s *Surface) All() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// Count returns how many notices of the given kind have not been pruned.
func (s *Surface) Count(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, notice := range s.notices {
		if notice.Kind == kind {
			n++
		}
	}
	return n
}

// Writer prints notices for one-shot CLI commands.
// Errors go to errOut as "error: <msg>"; successes go to out unless quiet.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// NewWriter creates a Writer.
func NewWriter(out, errOut io.Writer, quiet bool) *Writer {
	return &Writer{out: out, errOut: errOut, quiet: quiet}
}

// Notify implements Notifier.
func (w *Writer) Notify(kind Kind, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if kind == Error {
		fmt.Fprintf(w.errOut, "error: %s\n", message)
		return
	}
	if !w.quiet {
		fmt.Fprintln(w.out, message)
	}
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Kind, string) {}
