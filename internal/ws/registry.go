// Package ws tracks live WebSocket observers and fans committed snapshots
// out to them. Membership is process-local; nothing about an observer
// survives its connection.
package ws

import (
	"sync"

	"microwave"
	"microwave/internal/logger"
)

// Observer is one live connection receiving snapshots. Send must apply its
// own bounded write deadline so a hung peer cannot stall fan-out.
type Observer interface {
	Send(snap microwave.Snapshot) error
}

// Registry is the set of currently connected observers. An observer that
// fails a send is pruned; it reconnects if it wants back in.
type Registry struct {
	mu        sync.Mutex
	observers map[string]Observer
	log       *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		observers: make(map[string]Observer),
		log:       log,
	}
}

// Connect registers the observer and delivers its initial snapshot
// point-to-point. fetch runs under the registry mutex: a snapshot committed
// before the fetch is folded into the initial message, one committed after
// registration arrives as an ordinary broadcast, and neither is ever
// duplicated or dropped in between.
func (r *Registry) Connect(id string, o Observer, fetch func() (microwave.Snapshot, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := fetch()
	if err != nil {
		return err
	}

	r.observers[id] = o
	if err := o.Send(snap); err != nil {
		delete(r.observers, id)
		return err
	}
	return nil
}

// Disconnect removes the observer. Idempotent; unknown ids are a no-op.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.observers, id)
}

// Broadcast delivers the snapshot to every registered observer. Fan-out is
// sequential under the mutex, so each observer sees broadcasts in commit
// order. A failed send prunes only that observer; the rest still get the
// snapshot. Each send carries its own write deadline, which bounds how long
// a dead peer can hold the fan-out up.
func (r *Registry) Broadcast(snap microwave.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, o := range r.observers {
		if err := o.Send(snap); err != nil {
			delete(r.observers, id)
			if r.log != nil {
				r.log.Infow("observer_send_failed", "observer", id, "err", err)
			}
		}
	}
}

// Len reports the number of live observers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers)
}
