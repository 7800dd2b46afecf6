// README: Order service implements validated state transitions, history, and event publishing.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shoerack/internal/realtime"
	"shoerack/internal/types"
)

// Store is the durable order storage the service runs against. UpdateStatus
// is a compare-and-swap: it applies the transition and appends the history
// entry only when the stored status and version still match, and reports
// whether the swap won.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	List(ctx context.Context, ownerID types.ID) ([]*Order, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, entry HistoryEntry, cancelReason *string) (bool, error)
}

// Notifier creates the owner-facing notification for an accepted transition.
// The order service is the producer, so the category is fixed at the call.
type Notifier interface {
	NotifyOrderStatus(ctx context.Context, ownerID types.ID, title, content string) error
}

// Publisher is the realtime fan-out. Publish never blocks and never fails.
type Publisher interface {
	Publish(scope string, evt realtime.Event)
}

var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("order not found")
	ErrTerminal      = errors.New("order is in a terminal status")
	ErrMissingReason = errors.New("cancellation requires a reason")
	ErrConflict      = errors.New("order state conflict")
)

// InvalidTransitionError carries the allowed-next set so the caller can
// present the legal moves instead of just failing.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s (allowed: %v)", e.From, e.To, e.Allowed)
}

// Cancellation reasons shorter than this are rejected server-side.
const minCancelReasonLen = 3

type Service struct {
	store    Store
	notifier Notifier
	bus      Publisher
}

func NewService(store Store, notifier Notifier, bus Publisher) *Service {
	return &Service{store: store, notifier: notifier, bus: bus}
}

type CreateCommand struct {
	OwnerID        types.ID
	OwnerName      string
	Items          []LineItem
	ShippingMethod string
	PaymentMethod  string
	Address        string
	ShippingFee    types.Money
}

type TransitionCommand struct {
	OrderID types.ID
	To      Status
	Actor   types.ID
	Reason  string
}

// Create persists a new order in Pending with its first history entry and
// announces it to the admin feed.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Order, error) {
	if cmd.OwnerID == "" || len(cmd.Items) == 0 || strings.TrimSpace(cmd.Address) == "" {
		return nil, ErrBadRequest
	}
	currency := cmd.Items[0].UnitPrice.Currency
	for _, it := range cmd.Items {
		if it.Qty <= 0 || it.UnitPrice.Currency != currency {
			return nil, ErrBadRequest
		}
	}
	fee := cmd.ShippingFee
	if fee.Currency == "" {
		fee.Currency = currency
	}
	if fee.Currency != currency {
		return nil, ErrBadRequest
	}

	now := time.Now()
	total := types.Money{Currency: currency}
	for _, it := range cmd.Items {
		total = total.Add(it.UnitPrice.Mul(it.Qty))
	}
	total = total.Add(fee)

	o := &Order{
		ID:             types.NewID(),
		OwnerID:        cmd.OwnerID,
		Items:          cmd.Items,
		ShippingMethod: cmd.ShippingMethod,
		PaymentMethod:  cmd.PaymentMethod,
		Address:        cmd.Address,
		ShippingFee:    fee,
		Total:          total,
		Status:         StatusPending,
		Version:        0,
		History: []HistoryEntry{
			{Status: StatusPending, At: now, Actor: cmd.OwnerID},
		},
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publish(realtime.ScopeAdmin, realtime.Event{
		Kind:      realtime.KindNewOrder,
		Order:     annotated(o),
		OwnerName: cmd.OwnerName,
	})
	return o, nil
}

// Transition moves an order to the requested status. On success the status
// and history change together, the owner gets an unread notification, and
// an order_update event goes to the owner's subscribers. On any validation
// failure the order is left untouched.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) (*Order, error) {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if IsTerminal(o.Status) {
		return nil, ErrTerminal
	}
	if !CanTransition(o.Status, cmd.To) {
		return nil, &InvalidTransitionError{From: o.Status, To: cmd.To, Allowed: AllowedNext(o.Status)}
	}
	reason := strings.TrimSpace(cmd.Reason)
	var cancelReason *string
	if cmd.To == StatusCancelled {
		if len(reason) < minCancelReasonLen {
			return nil, ErrMissingReason
		}
		cancelReason = &reason
	}

	entry := HistoryEntry{Status: cmd.To, At: time.Now(), Actor: cmd.Actor, Reason: reason}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, cmd.To, o.Version, entry, cancelReason)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !ok {
		return nil, ErrConflict
	}

	updated, err := s.store.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	// The transition is already committed, so a notifier failure cannot be
	// surfaced as a transition error. Notifications are at-most-once: on
	// failure the owner misses this one and the caller still gets the
	// updated order.
	if s.notifier != nil {
		title := fmt.Sprintf("Order #%s", shortID(o.ID))
		content := fmt.Sprintf("Your order is now %s.", statusLabel(cmd.To))
		if err := s.notifier.NotifyOrderStatus(ctx, o.OwnerID, title, content); err != nil {
			log.Printf("order: notify %s for order %s: %v", o.OwnerID, o.ID, err)
		}
	}

	s.publish(string(o.OwnerID), realtime.Event{
		Kind:  realtime.KindOrderUpdate,
		Order: annotated(updated),
	})
	return updated, nil
}

// Get returns one order with its display color annotated.
func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return annotated(o), nil
}

// List returns a user's orders, or every order when ownerID is empty (the
// admin read). Each order carries its status display color.
func (s *Service) List(ctx context.Context, ownerID types.ID) ([]*Order, error) {
	orders, err := s.store.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.StatusColor = StatusColors[o.Status]
	}
	return orders, nil
}

func (s *Service) publish(scope string, evt realtime.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(scope, evt)
}

func annotated(o *Order) *Order {
	o.StatusColor = StatusColors[o.Status]
	return o
}

func statusLabel(s Status) string {
	switch s {
	case StatusPending:
		return "awaiting confirmation"
	case StatusReadyForPickup:
		return "ready for pickup"
	case StatusShipping:
		return "out for delivery"
	case StatusDelivered:
		return "delivered"
	case StatusReceived:
		return "received"
	case StatusCancelled:
		return "cancelled"
	default:
		return string(s)
	}
}

func shortID(id types.ID) string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}
