// README: Order store backed by PostgreSQL; CAS status updates with history in one tx.
package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shoerack/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
        INSERT INTO orders (
            id, owner_id, items, shipping_method, payment_method, address,
            shipping_fee, total, currency, status, version, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(o.ID),
		string(o.OwnerID),
		items,
		o.ShippingMethod,
		o.PaymentMethod,
		o.Address,
		o.ShippingFee.Amount,
		o.Total.Amount,
		o.Total.Currency,
		string(o.Status),
		o.Version,
		o.CreatedAt,
	)
	if err != nil {
		return err
	}
	for _, h := range o.History {
		if err := insertHistory(ctx, tx, o.ID, h); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, owner_id, items, shipping_method, payment_method, address,
               shipping_fee, total, currency, status, version, cancel_reason, created_at
        FROM orders
        WHERE id = $1`, string(id),
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx, []types.ID{o.ID})
	if err != nil {
		return nil, err
	}
	o.History = history[o.ID]
	return o, nil
}

func (s *PGStore) List(ctx context.Context, ownerID types.ID) ([]*Order, error) {
	query := `
        SELECT id, owner_id, items, shipping_method, payment_method, address,
               shipping_fee, total, currency, status, version, cancel_reason, created_at
        FROM orders`
	args := []any{}
	if ownerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, string(ownerID))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	var ids []types.ID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	history, err := s.loadHistory(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.History = history[o.ID]
	}
	return orders, nil
}

// UpdateStatus performs the compare-and-swap. The UPDATE only matches when
// the stored status and version are unchanged; the history row is inserted
// in the same transaction so status and history can never drift apart.
func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, entry HistoryEntry, cancelReason *string) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
        UPDATE orders
        SET status = $1,
            version = version + 1,
            cancel_reason = COALESCE($2, cancel_reason)
        WHERE id = $3 AND status = $4 AND version = $5`,
		string(to),
		cancelReason,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}
	if err := insertHistory(ctx, tx, id, entry); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, orderID types.ID, h HistoryEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO order_status_history (order_id, status, actor, reason, at)
        VALUES ($1, $2, $3, $4, $5)`,
		string(orderID),
		string(h.Status),
		string(h.Actor),
		h.Reason,
		h.At,
	)
	return err
}

func (s *PGStore) loadHistory(ctx context.Context, ids []types.ID) (map[types.ID][]HistoryEntry, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `
        SELECT order_id, status, actor, reason, at
        FROM order_status_history
        WHERE order_id = ANY($1)
        ORDER BY id`, raw,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[types.ID][]HistoryEntry)
	for rows.Next() {
		var orderID string
		var h HistoryEntry
		if err := rows.Scan(&orderID, &h.Status, &h.Actor, &h.Reason, &h.At); err != nil {
			return nil, err
		}
		out[types.ID(orderID)] = append(out[types.ID(orderID)], h)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var items []byte
	var currency string
	var shippingFee, total int64
	var cancelReason *string

	err := row.Scan(
		&o.ID, &o.OwnerID, &items, &o.ShippingMethod, &o.PaymentMethod, &o.Address,
		&shippingFee, &total, &currency, &o.Status, &o.Version, &cancelReason, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	o.ShippingFee = types.Money{Amount: shippingFee, Currency: currency}
	o.Total = types.Money{Amount: total, Currency: currency}
	o.CancelReason = cancelReason
	return &o, nil
}
