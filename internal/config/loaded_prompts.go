package config

import "sync"

// PromptSet is the prompt override for one operation. Empty fields mean the
// built-in prompt is used.
type PromptSet struct {
	System string
	User   string
}

// PromptStore holds the resolved prompt overrides. It is safe for concurrent
// use; a reload swaps the whole map at once.
type PromptStore struct {
	mu      sync.RWMutex
	sets    map[string]PromptSet
	version uint64
}

func NewPromptStore() *PromptStore {
	return &PromptStore{sets: make(map[string]PromptSet)}
}

// Get returns the override for an operation
func (s *PromptStore) Get(operation string) PromptSet {
	if s == nil {
		return PromptSet{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[operation]
}

// Version increases by one on every successful replace
func (s *PromptStore) Version() uint64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *PromptStore) replace(sets map[string]PromptSet) {
	s.mu.Lock()
	s.sets = sets
	s.version++
	s.mu.Unlock()
}
