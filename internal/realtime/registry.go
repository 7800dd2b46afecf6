// README: Registry of live client connections, keyed by subscription scope.
package realtime

import "sync"

// Conn is one live client attachment. Send must never block; it reports
// false when the event was dropped for this connection.
type Conn interface {
	Send(evt Event) bool
	Close()
}

// Registry maps scopes to their live connections. A connection is tracked
// from the moment it attaches; until it joins a scope it only receives
// broadcast events. All methods are safe for concurrent use, including a
// connection disappearing mid-fanout.
type Registry struct {
	mu     sync.RWMutex
	scopes map[string]map[Conn]struct{}
	conns  map[Conn]string
}

func NewRegistry() *Registry {
	return &Registry{
		scopes: make(map[string]map[Conn]struct{}),
		conns:  make(map[Conn]string),
	}
}

// Subscribe attaches c under scope. An empty scope means connected but not
// joined. Re-subscribing is idempotent; subscribing to a new scope moves the
// connection out of its previous one.
func (r *Registry) Subscribe(scope string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[c]; ok {
		if prev == scope {
			return
		}
		r.removeFromScope(prev, c)
	}
	r.conns[c] = scope
	if scope != "" {
		set, ok := r.scopes[scope]
		if !ok {
			set = make(map[Conn]struct{})
			r.scopes[scope] = set
		}
		set[c] = struct{}{}
	}
}

// Unsubscribe detaches c from whatever scope currently holds it. Unknown
// connections are ignored.
func (r *Registry) Unsubscribe(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scope, ok := r.conns[c]
	if !ok {
		return
	}
	delete(r.conns, c)
	r.removeFromScope(scope, c)
}

// Targets returns the connections a publish to scope should reach. The
// broadcast scope reaches every tracked connection. The snapshot keeps
// fan-out independent of concurrent subscribe/unsubscribe calls.
func (r *Registry) Targets(scope string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if scope == ScopeBroadcast {
		out := make([]Conn, 0, len(r.conns))
		for c := range r.conns {
			out = append(out, c)
		}
		return out
	}
	set := r.scopes[scope]
	out := make([]Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Len reports the number of tracked connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) removeFromScope(scope string, c Conn) {
	if scope == "" {
		return
	}
	if set, ok := r.scopes[scope]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.scopes, scope)
		}
	}
}
