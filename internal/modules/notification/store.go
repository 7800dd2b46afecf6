// README: Notification store backed by PostgreSQL.
package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shoerack/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, n *Notification) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO notifications (id, owner_id, title, content, category, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(n.ID),
		string(n.OwnerID),
		n.Title,
		n.Content,
		string(n.Category),
		n.Read,
		n.CreatedAt,
	)
	return err
}

func (s *PGStore) List(ctx context.Context, ownerID types.ID) ([]*Notification, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, owner_id, title, content, category, read, created_at
        FROM notifications
        WHERE owner_id = $1
        ORDER BY created_at DESC`, string(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.Category, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (s *PGStore) MarkRead(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE notifications SET read = TRUE WHERE id = $1`, string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) Delete(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM notifications WHERE id = $1`, string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) UnreadCount(ctx context.Context, ownerID types.ID) (int, error) {
	row := s.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM notifications WHERE owner_id = $1 AND read = FALSE`, string(ownerID),
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
