// README: Postgres store integration tests; gated on SHOERACK_TEST_DSN.
package order

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shoerack/internal/types"
)

func TestPGStoreRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	o := &Order{
		ID:      types.NewID(),
		OwnerID: "u_pg",
		Items: []LineItem{
			{ProductID: "p1", Name: "Air Max", Size: "42", Color: "black", Qty: 2, UnitPrice: types.VND(50)},
		},
		ShippingMethod: "standard",
		PaymentMethod:  "cod",
		Address:        "12 Nguyen Trai",
		ShippingFee:    types.VND(20),
		Total:          types.VND(120),
		Status:         StatusPending,
		History:        []HistoryEntry{{Status: StatusPending, At: now, Actor: "u_pg"}},
		CreatedAt:      now,
	}
	if err := store.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPending || got.Total.Amount != 120 || len(got.Items) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if len(got.History) != 1 || got.History[0].Status != StatusPending {
		t.Fatalf("unexpected history: %+v", got.History)
	}
}

func TestPGStoreCAS(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	o := &Order{
		ID:        types.NewID(),
		OwnerID:   "u_pg_cas",
		Items:     []LineItem{{ProductID: "p1", Qty: 1, UnitPrice: types.VND(10)}},
		Address:   "12 Nguyen Trai",
		Status:    StatusPending,
		History:   []HistoryEntry{{Status: StatusPending, At: now, Actor: "u_pg_cas"}},
		CreatedAt: now,
	}
	if err := store.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	entry := HistoryEntry{Status: StatusReadyForPickup, At: time.Now().UTC(), Actor: "admin"}
	ok, err := store.UpdateStatus(ctx, o.ID, StatusPending, StatusReadyForPickup, 0, entry, nil)
	if err != nil || !ok {
		t.Fatalf("first swap: ok=%v err=%v", ok, err)
	}

	ok, err = store.UpdateStatus(ctx, o.ID, StatusPending, StatusCancelled, 0, entry, nil)
	if err != nil {
		t.Fatalf("second swap: %v", err)
	}
	if ok {
		t.Fatal("expected stale-version swap to lose")
	}

	got, err := store.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusReadyForPickup || got.Version != 1 || len(got.History) != 2 {
		t.Fatalf("unexpected state: status=%s version=%d history=%d", got.Status, got.Version, len(got.History))
	}
}

func setupTestStore(t *testing.T) *PGStore {
	t.Helper()

	dsn := os.Getenv("SHOERACK_TEST_DSN")
	if dsn == "" {
		t.Skip("SHOERACK_TEST_DSN not set; skipping DB-backed store tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE order_status_history, notifications, orders"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return NewPGStore(db)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	path := filepath.Join(root, "migrations", "0001_init.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cleaned := stripSQLComments(string(content))
	for _, stmt := range splitSQL(cleaned) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
