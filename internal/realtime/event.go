// README: Event envelope shared by every realtime transport adapter.
package realtime

type Kind string

const (
	KindOrderUpdate    Kind = "order_update"
	KindNewOrder       Kind = "new_order"
	KindProductsUpdate Kind = "products_update"
	// KindJoin is a client → server control message, never published.
	KindJoin Kind = "join"
)

// Event is the payload sent to subscribers. Every adapter carries the same
// envelope content; delivery ordering across adapters is not guaranteed.
type Event struct {
	Kind      Kind   `json:"kind"`
	Order     any    `json:"order,omitempty"`
	OwnerName string `json:"ownerName,omitempty"`
	Products  any    `json:"products,omitempty"`
}

// Scopes. A publish targets one owner's connections, the admin feed, or
// every connection.
const (
	ScopeBroadcast = "*"
	ScopeAdmin     = "admin"
)
