package store

import (
	"context"
	"sync"

	"github.com/replaylab/quizreplay/internal/quiz"
)

// MemStore is an in-process store for tests and dev mode.
type MemStore struct {
	mu       sync.RWMutex
	captures map[string]quiz.Capture
	order    []string // insertion order, newest last
}

func NewMemStore() *MemStore {
	return &MemStore{captures: map[string]quiz.Capture{}}
}

func (s *MemStore) SaveCapture(_ context.Context, c quiz.Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.captures[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.captures[c.ID] = c
	return nil
}

func (s *MemStore) GetCapture(_ context.Context, id string) (quiz.Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.captures[id]
	if !ok {
		return quiz.Capture{}, ErrNotFound
	}
	return c, nil
}

func (s *MemStore) LatestCapture(_ context.Context) (quiz.Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return quiz.Capture{}, ErrNotFound
	}
	return s.captures[s.order[len(s.order)-1]], nil
}

func (s *MemStore) ListCaptures(_ context.Context, limit int) ([]quiz.CaptureSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}
	out := make([]quiz.CaptureSummary, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, summarize(s.captures[s.order[i]]))
	}
	return out, nil
}
