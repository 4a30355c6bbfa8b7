package notify

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestSurface_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSurface()
	s.SetClock(func() time.Time { return now })

	s.Notify(Success, "Client créé")
	now = now.Add(time.Second)
	s.Notify(Error, "Erreur serveur (500)")

	if got := len(s.Active()); got != 2 {
		t.Fatalf("expected 2 active notices, got %d", got)
	}

	now = now.Add(DefaultTTL - time.Second)
	active := s.Active()
	if len(active) != 1 || active[0].Message != "Erreur serveur (500)" {
		t.Fatalf("expected only the error notice to remain, got %+v", active)
	}

	now = now.Add(time.Second)
	if got := s.Prune(); got != 0 {
		t.Errorf("expected 0 notices after prune, got %d", got)
	}
	if got := len(s.All()); got != 0 {
		t.Errorf("expected empty surface, got %d notices", got)
	}
}

func TestSurface_Count(t *testing.T) {
	s := NewSurface()
	s.Notify(Error, "a")
	s.Notify(Error, "b")
	s.Notify(Success, "c")

	if got := s.Count(Error); got != 2 {
		t.Errorf("expected 2 errors, got %d", got)
	}
	if got := s.Count(Success); got != 1 {
		t.Errorf("expected 1 success, got %d", got)
	}
}

func TestSurface_ConcurrentNotify(t *testing.T) {
	s := NewSurface()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Notify(Success, "ok")
		}()
	}
	wg.Wait()

	if got := len(s.All()); got != 50 {
		t.Errorf("expected 50 notices, got %d", got)
	}
}

func TestWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	w := NewWriter(&out, &errOut, false)

	w.Notify(Success, "Client créé")
	w.Notify(Error, "Le nom est obligatoire")

	if out.String() != "Client créé\n" {
		t.Errorf("expected %q, got %q", "Client créé\n", out.String())
	}
	if errOut.String() != "error: Le nom est obligatoire\n" {
		t.Errorf("expected %q, got %q", "error: Le nom est obligatoire\n", errOut.String())
	}
}

func TestWriter_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	w := NewWriter(&out, &errOut, true)

	w.Notify(Success, "Client créé")
	w.Notify(Error, "Erreur serveur (404)")

	if out.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", out.String())
	}
	if errOut.String() != "error: Erreur serveur (404)\n" {
		t.Errorf("expected error line, got %q", errOut.String())
	}
}
