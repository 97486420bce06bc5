package fattybrewing

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps container states in memory. Useful for tests and for
// short-lived sessions that never need to outlive the process.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func cloneState(s State) State {
	s.Contents = append([]Entry(nil), s.Contents...)
	return s
}

func (s *MemoryStore) Save(_ context.Context, c *Container) (string, error) {
	st := c.Snapshot()
	if st.ID == "" {
		st.ID = GenerateUUID()
		c.SetID(st.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[st.ID] = cloneState(st)
	return st.ID, nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Container, error) {
	s.mu.RLock()
	st, ok := s.states[id]
	s.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return Restore(cloneState(st))
}

func (s *MemoryStore) List(ctx context.Context) ([]State, error) {
	return s.Find(ctx, "")
}

func (s *MemoryStore) Find(_ context.Context, pattern string) ([]State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(pattern)
	out := make([]State, 0, len(s.states))
	for _, st := range s.states {
		if strings.Contains(strings.ToLower(st.Name), needle) {
			out = append(out, cloneState(st))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(s.states, id)
	return nil
}
