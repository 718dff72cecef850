package agent

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Cyclone1070/projectgen/internal/provider"
)

// Thread is the ordered history of one conversation.
type Thread struct {
	ID string

	mu       sync.Mutex
	messages []provider.Message
}

// Append adds messages to the end of the thread.
func (t *Thread) Append(msgs ...provider.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msgs...)
}

// Messages returns a copy of the history.
func (t *Thread) Messages() []provider.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]provider.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Last returns the most recent message.
func (t *Thread) Last() (provider.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) == 0 {
		return provider.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// SettlePending answers every tool call of the latest assistant message
// that has no result yet. A turn aborted by a denial leaves such calls
// behind, and providers reject a history where a call goes unanswered.
// The results are inserted right after the existing ones, ahead of any
// later user message. It returns the number of results added.
func (t *Thread) SettlePending(content string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == provider.RoleAssistant {
			idx = i
			break
		}
	}
	if idx == -1 || !t.messages[idx].HasToolCalls() {
		return 0
	}

	answered := make(map[string]bool)
	end := idx + 1
	for end < len(t.messages) && t.messages[end].Result != nil {
		answered[t.messages[end].Result.CallID] = true
		end++
	}

	var missing []provider.Message
	for _, call := range t.messages[idx].ToolCalls {
		if answered[call.ID] {
			continue
		}
		missing = append(missing, provider.ToolResultMessage(provider.ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: content,
			IsError: true,
		}))
	}
	if len(missing) == 0 {
		return 0
	}

	rest := append(missing, t.messages[end:]...)
	t.messages = append(t.messages[:end], rest...)
	return len(missing)
}

// ThreadStore holds conversation threads in memory for the life of the
// process.
type ThreadStore struct {
	mu      sync.Mutex
	threads map[string]*Thread
}

func NewThreadStore() *ThreadStore {
	return &ThreadStore{threads: make(map[string]*Thread)}
}

// Get returns the thread for id, creating it on first use.
func (s *ThreadStore) Get(id string) *Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, ok := s.threads[id]
	if !ok {
		th = &Thread{ID: id}
		s.threads[id] = th
	}
	return th
}

// New creates a thread under a fresh token.
func (s *ThreadStore) New() *Thread {
	return s.Get(NewThreadID())
}

// Delete drops a thread. Unknown ids are ignored.
func (s *ThreadStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, id)
}

func (s *ThreadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.threads)
}

// NewThreadID returns a new opaque thread token.
func NewThreadID() string {
	return uuid.NewString()
}
