package search

import "sync"

// StateHolder keeps the most recent search result so the caller can restore
// it later (e.g. navigating back to the search view). Last write wins; there
// is no sequencing guard between overlapping searches.
type StateHolder struct {
	mu    sync.RWMutex
	state *Result
	subs  []chan struct{}
}

func NewStateHolder() *StateHolder {
	return &StateHolder{}
}

// Get returns the stored snapshot, or nil when none is set.
func (h *StateHolder) Get() *Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == nil {
		return nil
	}
	cp := *h.state
	return &cp
}

// Set stores a snapshot and notifies subscribers.
func (h *StateHolder) Set(r Result) {
	h.mu.Lock()
	h.state = &r
	h.notifyLocked()
	h.mu.Unlock()
}

// Clear drops the stored snapshot and notifies subscribers.
func (h *StateHolder) Clear() {
	h.mu.Lock()
	h.state = nil
	h.notifyLocked()
	h.mu.Unlock()
}

// Has reports whether a snapshot is stored.
func (h *StateHolder) Has() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state != nil
}

// Subscribe returns a channel that receives a signal after every change.
// Signals are coalesced: a slow reader sees at least one signal, not one per
// change.
func (h *StateHolder) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs = append(h.subs, ch)
	h.mu.Unlock()
	return ch
}

func (h *StateHolder) notifyLocked() {
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
