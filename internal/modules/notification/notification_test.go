// README: Notification service tests (read state, unread badge, deletion).
package notification

import (
	"context"
	"errors"
	"testing"

	"shoerack/internal/types"
)

func newTestService() *Service {
	return NewService(NewMemStore())
}

func TestUnreadCountRoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	var ids []types.ID
	for i := 0; i < 3; i++ {
		n, err := svc.Notify(ctx, "u1", CategoryOrderStatus, "Order #abc12345", "Your order is now out for delivery.")
		if err != nil {
			t.Fatalf("notify: %v", err)
		}
		if n.Read {
			t.Fatal("expected new notification to be unread")
		}
		ids = append(ids, n.ID)
	}

	if err := svc.MarkRead(ctx, ids[0]); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	count, err := svc.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected unread count 2, got %d", count)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	n, err := svc.Notify(ctx, "u1", CategorySystem, "Profile updated", "")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.MarkRead(ctx, n.ID); err != nil {
			t.Fatalf("mark read attempt %d: %v", i, err)
		}
	}
	count, err := svc.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected unread count 0, got %d", count)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	svc := newTestService()
	if err := svc.MarkRead(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUnreadDecrementsCount(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	n, err := svc.Notify(ctx, "u1", CategoryOrderStatus, "Order #abc12345", "Your order is now delivered.")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := svc.Delete(ctx, n.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := svc.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected unread count 0 after deletion, got %d", count)
	}
	if err := svc.Delete(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListIsPerOwner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Notify(ctx, "u1", CategoryOrderStatus, "Order #a", ""); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, err := svc.Notify(ctx, "u2", CategoryPromo, "Sale!", "Everything 20% off."); err != nil {
		t.Fatalf("notify: %v", err)
	}

	mine, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 notification for u1, got %d", len(mine))
	}
	if mine[0].Category != CategoryOrderStatus {
		t.Errorf("expected category order_status, got %s", mine[0].Category)
	}
}
