package permission

import "sync"

// State is the process-wide always-allow memory shared by every gate,
// agent and conversation thread. Clearing a thread does not reset it.
type State struct {
	mu     sync.RWMutex
	tools  map[string]bool
	global bool
}

// NewState creates a state with the given tools pre-approved.
func NewState(allow ...string) *State {
	s := &State{tools: make(map[string]bool, len(allow))}
	for _, name := range allow {
		s.tools[name] = true
	}
	return s
}

// IsAllowed reports whether name may run without asking.
func (s *State) IsAllowed(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global || s.tools[name]
}

// AllowTool marks a single tool as always allowed.
func (s *State) AllowTool(name string) {
	s.mu.Lock()
	s.tools[name] = true
	s.mu.Unlock()
}

// AllowAll turns on global always-allow.
func (s *State) AllowAll() {
	s.mu.Lock()
	s.global = true
	s.mu.Unlock()
}

// Global reports whether global always-allow is on.
func (s *State) Global() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}
