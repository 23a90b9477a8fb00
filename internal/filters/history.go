package filters

import "sync"

// MemoryHistory is an in-process Navigator that keeps a history stack.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
}

func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{entries: []string{initial}}
}

// Push adds a new entry, as a link click would.
func (h *MemoryHistory) Push(location string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, location)
}

// Replace rewrites the current entry.
func (h *MemoryHistory) Replace(location string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		h.entries = append(h.entries, location)
		return
	}
	h.entries[len(h.entries)-1] = location
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
