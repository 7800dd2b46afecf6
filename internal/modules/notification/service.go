// README: Notification service; unread counts drive the storefront badge.
package notification

import (
	"context"
	"errors"
	"time"

	"shoerack/internal/types"
)

type Store interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, ownerID types.ID) ([]*Notification, error)
	// MarkRead sets read=true and reports whether the notification exists.
	// Marking an already-read notification is a no-op that still reports true.
	MarkRead(ctx context.Context, id types.ID) (bool, error)
	Delete(ctx context.Context, id types.ID) (bool, error)
	UnreadCount(ctx context.Context, ownerID types.ID) (int, error)
}

var ErrNotFound = errors.New("notification not found")

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Notify creates an unread notification with the producer-chosen category.
func (s *Service) Notify(ctx context.Context, ownerID types.ID, category Category, title, content string) (*Notification, error) {
	n := &Notification{
		ID:        types.NewID(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		Category:  category,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// NotifyOrderStatus is the order service's hook; the category is fixed by
// the producer path.
func (s *Service) NotifyOrderStatus(ctx context.Context, ownerID types.ID, title, content string) error {
	_, err := s.Notify(ctx, ownerID, CategoryOrderStatus, title, content)
	return err
}

func (s *Service) List(ctx context.Context, ownerID types.ID) ([]*Notification, error) {
	return s.store.List(ctx, ownerID)
}

// MarkRead commits the read state. The storefront calls this when the detail
// view is dismissed, not when it is opened, so a previewed-but-never-closed
// notification keeps its unread badge. Idempotent.
func (s *Service) MarkRead(ctx context.Context, id types.ID) error {
	found, err := s.store.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Delete removes a notification; deleting an unread one shrinks the unread
// count immediately.
func (s *Service) Delete(ctx context.Context, id types.ID) error {
	found, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, ownerID types.ID) (int, error) {
	return s.store.UnreadCount(ctx, ownerID)
}
