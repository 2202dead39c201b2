package services

import (
	"sync"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// FlowTracker records the last status of an assistant flow per session.
// Writes are last-write-wins: an older request finishing after a newer one
// overwrites its outcome.
type FlowTracker struct {
	mu     sync.RWMutex
	states map[string]entities.FlowState
	now    func() time.Time
}

func NewFlowTracker() *FlowTracker {
	return &FlowTracker{states: make(map[string]entities.FlowState), now: time.Now}
}

func (t *FlowTracker) set(owner string, status entities.FlowStatus, message string) {
	t.mu.Lock()
	t.states[owner] = entities.FlowState{Status: status, Error: message, UpdatedAt: t.now().UTC()}
	t.mu.Unlock()
}

// Get returns the state for owner, idle if it never ran.
func (t *FlowTracker) Get(owner string) entities.FlowState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	state, ok := t.states[owner]
	if !ok {
		return entities.FlowState{Status: entities.FlowStatusIdle}
	}
	return state
}
