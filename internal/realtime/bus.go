// README: Event bus fanning one publish out to every registered transport adapter.
package realtime

import "sync"

// Adapter is one transport (websocket, redis pub/sub, ...). Deliver must be
// best-effort and non-blocking; it never reports failure to the caller.
type Adapter interface {
	Deliver(scope string, evt Event)
}

// Bus publishes an event to all adapters. Delivery is at-most-once per
// connection with no queueing of missed events; a disconnected client
// re-fetches state instead of replaying.
type Bus struct {
	mu       sync.RWMutex
	adapters []Adapter
}

func NewBus(adapters ...Adapter) *Bus {
	return &Bus{adapters: adapters}
}

// Register adds a transport adapter. New transports plug in here rather than
// duplicating publish calls at the mutation sites.
func (b *Bus) Register(a Adapter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adapters = append(b.adapters, a)
}

// Publish fans evt out on every adapter. It never blocks the mutation path
// and never returns an error; slow or gone subscribers are dropped.
func (b *Bus) Publish(scope string, evt Event) {
	b.mu.RLock()
	adapters := b.adapters
	b.mu.RUnlock()

	for _, a := range adapters {
		a.Deliver(scope, evt)
	}
}
