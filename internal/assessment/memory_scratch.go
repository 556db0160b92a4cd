package assessment

import (
	"context"
	"sync"
)

// MemoryScratch is an in-memory Scratch implementation for tests and for
// running without Redis in local development.
type MemoryScratch struct {
	mu      sync.Mutex
	timers  map[ScratchKey]int
	answers map[ScratchKey]map[int]string
}

// NewMemoryScratch creates an empty in-memory Scratch store.
func NewMemoryScratch() *MemoryScratch {
	return &MemoryScratch{
		timers:  make(map[ScratchKey]int),
		answers: make(map[ScratchKey]map[int]string),
	}
}

func (s *MemoryScratch) Timer(_ context.Context, key ScratchKey) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seconds, ok := s.timers[key]
	return seconds, ok, nil
}

func (s *MemoryScratch) SetTimer(_ context.Context, key ScratchKey, seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[key] = seconds
	return nil
}

func (s *MemoryScratch) Answers(_ context.Context, key ScratchKey) (map[int]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.answers[key]))
	for idx, option := range s.answers[key] {
		out[idx] = option
	}
	return out, nil
}

func (s *MemoryScratch) SetAnswer(_ context.Context, key ScratchKey, index int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answers[key] == nil {
		s.answers[key] = make(map[int]string)
	}
	s.answers[key][index] = option
	return nil
}

func (s *MemoryScratch) Clear(_ context.Context, key ScratchKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, key)
	delete(s.answers, key)
	return nil
}
