// README: Order aggregate, status state machine, and history entries.
package order

import (
	"time"

	"shoerack/internal/types"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusShipping       Status = "shipping"
	StatusDelivered      Status = "delivered"
	StatusReceived       Status = "received"
	StatusCancelled      Status = "cancelled"
)

// LineItem is a purchased variant. The order module only sums prices;
// product details stay opaque and are rendered by the storefront.
type LineItem struct {
	ProductID types.ID    `json:"productId"`
	Name      string      `json:"name"`
	Size      string      `json:"size"`
	Color     string      `json:"color"`
	Qty       int64       `json:"qty"`
	UnitPrice types.Money `json:"unitPrice"`
}

// HistoryEntry records one accepted transition. The first entry is written
// at creation; the list is append-only and its last entry always matches
// the order's current status.
type HistoryEntry struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
	Actor  types.ID  `json:"actor"`
	Reason string    `json:"reason,omitempty"`
}

type Order struct {
	ID             types.ID       `json:"id"`
	OwnerID        types.ID       `json:"ownerId"`
	Items          []LineItem     `json:"items"`
	ShippingMethod string         `json:"shippingMethod"`
	PaymentMethod  string         `json:"paymentMethod"`
	Address        string         `json:"address"`
	ShippingFee    types.Money    `json:"shippingFee"`
	Total          types.Money    `json:"total"`
	Status         Status         `json:"status"`
	StatusColor    string         `json:"statusColor,omitempty"`
	Version        int            `json:"-"`
	CancelReason   *string        `json:"cancelReason,omitempty"`
	History        []HistoryEntry `json:"history"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// AllowedTransitions represents the order lifecycle as code. Received is the
// customer confirmation step and is only reachable from Delivered.
var AllowedTransitions = map[Status][]Status{
	StatusPending:        {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusShipping, StatusCancelled},
	StatusShipping:       {StatusDelivered, StatusCancelled},
	StatusDelivered:      {StatusReceived},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedNext returns the legal next statuses; empty for terminal statuses.
func AllowedNext(from Status) []Status {
	return AllowedTransitions[from]
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(AllowedTransitions[s]) == 0
}

// StatusColors is the static status → display color map used by order lists
// and the storefront badge palette.
var StatusColors = map[Status]string{
	StatusPending:        "#f59e0b",
	StatusReadyForPickup: "#3b82f6",
	StatusShipping:       "#8b5cf6",
	StatusDelivered:      "#10b981",
	StatusReceived:       "#3ec6a7",
	StatusCancelled:      "#e53935",
}
