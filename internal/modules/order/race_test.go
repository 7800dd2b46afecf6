// README: Concurrency tests for order state transitions (run with -race).
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"shoerack/internal/types"
)

// Concurrency strategy: every transition is a compare-and-swap on the
// order's version, so of N racing transitions that read the same version
// exactly one wins; the rest observe ErrConflict and nothing is mutated.

func TestConcurrentSameTransition(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	o := mustCreateOrder(t, svc, "u_race")

	const attempts = 8
	start := make(chan struct{})
	errs := make(chan error, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		actor := types.ID(fmt.Sprintf("admin%d", i))
		wg.Add(1)
		go func(actor types.ID) {
			defer wg.Done()
			<-start
			_, err := svc.Transition(ctx, TransitionCommand{OrderID: o.ID, To: StatusReadyForPickup, Actor: actor})
			errs <- err
		}(actor)
	}

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		var invalid *InvalidTransitionError
		if !errors.Is(err, ErrConflict) && !errors.As(err, &invalid) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}

	got, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusReadyForPickup {
		t.Fatalf("unexpected final status: %s", got.Status)
	}
	if len(got.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(got.History))
	}
	assertHistoryInvariant(t, got)
}

func TestConcurrentCancelVsAdvance(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	o := mustCreateOrder(t, svc, "u_race2")

	start := make(chan struct{})
	errs := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		_, err := svc.Transition(ctx, TransitionCommand{OrderID: o.ID, To: StatusReadyForPickup, Actor: "admin"})
		errs <- err
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		_, err := svc.Transition(ctx, TransitionCommand{OrderID: o.ID, To: StatusCancelled, Actor: "u_race2", Reason: "changed my mind"})
		errs <- err
	}()

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	sawTerminal := false
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if errors.Is(err, ErrTerminal) {
			sawTerminal = true
			continue
		}
		var invalid *InvalidTransitionError
		if !errors.Is(err, ErrConflict) && !errors.As(err, &invalid) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Both goroutines racing on the same version: exactly one CAS wins. If
	// the cancel happened to read after the advance committed, the cancel is
	// a legal second transition and both succeed. If the advance read after
	// the cancel committed, it sees a terminal order and gets ErrTerminal.
	if success < 1 || success > 2 {
		t.Fatalf("expected 1 or 2 successes, got %d", success)
	}

	got, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if success == 2 && got.Status != StatusCancelled {
		t.Fatalf("expected cancelled after advance+cancel, got %s", got.Status)
	}
	if success == 1 {
		if sawTerminal && got.Status != StatusCancelled {
			t.Fatalf("expected cancelled when the advance lost to a terminal order, got %s", got.Status)
		}
		if got.Status != StatusReadyForPickup && got.Status != StatusCancelled {
			t.Fatalf("unexpected final status: %s", got.Status)
		}
	}
	if len(got.History) != success+1 {
		t.Fatalf("expected %d history entries, got %d", success+1, len(got.History))
	}
	assertHistoryInvariant(t, got)
}

// TestStaleVersionLosesCAS pins the deterministic core of the race: a writer
// holding a stale version never wins.
func TestStaleVersionLosesCAS(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	o := mustCreateOrder(t, svc, "u_stale")

	entry := HistoryEntry{Status: StatusReadyForPickup, At: o.CreatedAt, Actor: "admin"}
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
		t.Fatalf("unexpected state after lost swap: status=%s version=%d history=%d", got.Status, got.Version, len(got.History))
	}
}
