package assessment

import (
	"context"
	"testing"

	"github.com/skilltracker/skilltracker-backend/internal/model"
)

func TestManagerReturnsSameLiveSession(t *testing.T) {
	h := newHarness(10, 5, 1)
	m := NewManager(h.deps())
	ctx := context.Background()

	first, err := m.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	second, err := m.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if first != second {
		t.Error("two Opens for the same key returned different sessions")
	}

	// Sessions are isolated per key.
	other, err := m.Open(ctx, 7, model.KindQuiz, "Go")
	if err != nil {
		t.Fatalf("Open other language: %v", err)
	}
	if other == first {
		t.Error("different languages share a session")
	}
}

func TestManagerRemovesSessionOnSubmit(t *testing.T) {
	h := newHarness(10, 5, 1)
	m := NewManager(h.deps())
	ctx := context.Background()

	s, err := m.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, ok := m.Get(7, model.KindQuiz, "Python"); ok {
		t.Error("submitted session still registered")
	}

	// The next Open creates a fresh run.
	next, err := m.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("re-Open: %v", err)
	}
	if next == s {
		t.Error("re-Open returned the completed session")
	}
	if next.Status() != StatusInProgress {
		t.Errorf("status = %s, want in-progress", next.Status())
	}
}

func TestManagerStartFailureLeavesNoSession(t *testing.T) {
	h := newHarness(0, 5, 1)
	m := NewManager(h.deps())

	if _, err := m.Open(context.Background(), 7, model.KindQuiz, "Python"); err == nil {
		t.Fatal("Open with empty pool should fail")
	}
	if _, ok := m.Get(7, model.KindQuiz, "Python"); ok {
		t.Error("failed Open left a registered session")
	}
}

func TestManagerLockedMockIsNotRetained(t *testing.T) {
	h := newHarness(10, 3, 1)
	m := NewManager(h.deps())
	ctx := context.Background()

	s, err := m.Open(ctx, 7, model.KindMock, "Python")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Answer(ctx, 0, "a")
	_ = s.Answer(ctx, 1, "a")
	_ = s.Answer(ctx, 2, "a")
	if _, err := s.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	locked, err := m.Open(ctx, 7, model.KindMock, "Python")
	if err != nil {
		t.Fatalf("Open after perfect score: %v", err)
	}
	if locked.Status() != StatusLocked {
		t.Fatalf("status = %s, want locked", locked.Status())
	}
	if _, ok := m.Get(7, model.KindMock, "Python"); ok {
		t.Error("locked session should not stay registered")
	}
}

func TestManagerShutdownDetachesForLaterResume(t *testing.T) {
	h := newHarness(10, 5, 10)
	m := NewManager(h.deps())
	ctx := context.Background()

	s, err := m.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 7; i++ {
		s.Tick(ctx)
	}

	m.Shutdown()

	if _, ok := m.Get(7, model.KindQuiz, "Python"); ok {
		t.Error("session still registered after shutdown")
	}

	// After restart a new manager resumes from the surviving scratch.
	restarted := NewManager(h.deps())
	resumed, err := restarted.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("Open after shutdown: %v", err)
	}
	if got := resumed.Snapshot().RemainingSeconds; got != 593 {
		t.Errorf("remaining = %d, want resumed 593", got)
	}
}

func TestManagerResumeRestoresTimerAcrossSessions(t *testing.T) {
	h := newHarness(10, 5, 10)
	m := NewManager(h.deps())
	ctx := context.Background()

	s, err := m.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 13; i++ {
		s.Tick(ctx)
	}

	// Page teardown: timer stops, scratch fragments survive.
	s.Detach()

	resumed, err := m.Open(ctx, 7, model.KindQuiz, "Python")
	if err != nil {
		t.Fatalf("re-Open: %v", err)
	}
	if resumed == s {
		t.Fatal("detached session was reused")
	}
	if got := resumed.Snapshot().RemainingSeconds; got != 587 {
		t.Errorf("remaining = %d, want resumed 587", got)
	}
}
