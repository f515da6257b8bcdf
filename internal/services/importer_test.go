package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tesouraria/internal/core"
	"tesouraria/internal/sheets/memory"
)

type failingSource struct{ err error }

func (f *failingSource) ReadRange(context.Context) ([][]string, error) {
	return nil, f.err
}

// blockingStore parks InsertBatch until released, to hold a run open.
type blockingStore struct {
	fakeStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) InsertBatch(ctx context.Context, entries []core.LedgerEntry) error {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeStore.InsertBatch(ctx, entries)
}

func TestRunImportsSeededRows(t *testing.T) {
	store := &fakeStore{}
	svc := NewImportService(memory.NewSeeded(), store)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Three data rows after the header; the short noise row is dropped.
	if res.RowsSeen != 3 {
		t.Errorf("rows seen = %d, want 3", res.RowsSeen)
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}
	if len(store.deleteCalls) != 1 || store.deleteCalls[0] != ImportCategory {
		t.Errorf("delete calls = %v", store.deleteCalls)
	}
	if len(store.insertBatches) != 1 || len(store.insertBatches[0]) != 2 {
		t.Fatalf("insert batches = %v", store.insertBatches)
	}

	paid, due := store.insertBatches[0][0], store.insertBatches[0][1]
	if paid.Status != core.StatusPaid {
		t.Errorf("first seeded entry status = %q, want Paid", paid.Status)
	}
	if due.Status != core.StatusDue {
		t.Errorf("second seeded entry status = %q, want Due", due.Status)
	}
}

func TestRunHeaderOnlyStillDeletes(t *testing.T) {
	header := make([]string, 22)
	store := &fakeStore{}
	svc := NewImportService(memory.New([][]string{header}), store)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Imported != 0 || res.RowsSeen != 0 {
		t.Errorf("result = %+v", res)
	}
	if len(store.deleteCalls) != 1 {
		t.Fatalf("delete must run even with zero records, calls = %d", len(store.deleteCalls))
	}
	if len(store.insertBatches) != 0 {
		t.Fatalf("no insert expected, got %d", len(store.insertBatches))
	}
}

func TestRunSourceFailureLeavesStoreUntouched(t *testing.T) {
	store := &fakeStore{}
	svc := NewImportService(&failingSource{err: errors.New("quota exceeded")}, store)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(store.deleteCalls) != 0 || len(store.insertBatches) != 0 {
		t.Fatal("store must not be mutated when the fetch fails")
	}
}

func TestRunRejectsConcurrentInvocation(t *testing.T) {
	store := &blockingStore{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := NewImportService(memory.NewSeeded(), store)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background())
		done <- err
	}()

	select {
	case <-store.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never reached the store")
	}

	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrImportInProgress) {
		t.Fatalf("second run err = %v, want ErrImportInProgress", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// The lock is released after completion.
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("follow-up run: %v", err)
	}
}
