package activity

import (
	"context"
	"sync"
)

// CaptureHook buffers store lifecycle events in memory so tests can assert
// on what an Emitter published. Err, when set, is returned from every Notify
// to exercise hook failure paths.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify records the normalized event and returns any configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}
