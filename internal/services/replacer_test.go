package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tesouraria/internal/core"
)

// fakeStore records calls and can be told to fail at a given step.
type fakeStore struct {
	deleteCalls   []string
	deleteErr     error
	insertBatches [][]core.LedgerEntry
	failOnBatch   int // 1-based; 0 means never fail
}

func (f *fakeStore) DeleteByCategory(_ context.Context, category string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCalls = append(f.deleteCalls, category)
	return nil
}

func (f *fakeStore) InsertBatch(_ context.Context, entries []core.LedgerEntry) error {
	if f.failOnBatch > 0 && len(f.insertBatches)+1 == f.failOnBatch {
		return fmt.Errorf("batch %d rejected", f.failOnBatch)
	}
	f.insertBatches = append(f.insertBatches, entries)
	return nil
}

// txStore additionally offers the transactional upgrade.
type txStore struct {
	fakeStore
	replaced [][]core.LedgerEntry
}

func (t *txStore) ReplaceByCategory(_ context.Context, category string, batches [][]core.LedgerEntry) error {
	t.deleteCalls = append(t.deleteCalls, category)
	t.replaced = batches
	return nil
}

func makeEntries(n int) []core.LedgerEntry {
	entries := make([]core.LedgerEntry, n)
	for i := range entries {
		entries[i] = core.LedgerEntry{
			DueDate:      core.NewDate(2025, 2, 10),
			Kind:         core.KindInflow,
			Category:     ImportCategory,
			Counterparty: fmt.Sprintf("payer-%d", i),
			Amount:       core.Money{Cents: int64(i + 1)},
			Status:       core.StatusDue,
		}
	}
	return entries
}

func TestReplaceAllBatching(t *testing.T) {
	store := &fakeStore{}
	if err := ReplaceAll(context.Background(), store, ImportCategory, makeEntries(1200)); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	if len(store.deleteCalls) != 1 || store.deleteCalls[0] != ImportCategory {
		t.Fatalf("delete calls = %v", store.deleteCalls)
	}
	if len(store.insertBatches) != 3 {
		t.Fatalf("batches = %d, want 3", len(store.insertBatches))
	}
	for i, want := range []int{500, 500, 200} {
		if got := len(store.insertBatches[i]); got != want {
			t.Errorf("batch %d size = %d, want %d", i+1, got, want)
		}
	}
	// Original order is preserved across batch boundaries.
	if store.insertBatches[0][0].Counterparty != "payer-0" {
		t.Errorf("first entry = %q", store.insertBatches[0][0].Counterparty)
	}
	if store.insertBatches[1][0].Counterparty != "payer-500" {
		t.Errorf("batch 2 first entry = %q", store.insertBatches[1][0].Counterparty)
	}
	if store.insertBatches[2][199].Counterparty != "payer-1199" {
		t.Errorf("last entry = %q", store.insertBatches[2][199].Counterparty)
	}
}

func TestReplaceAllAbortsOnFailedBatch(t *testing.T) {
	store := &fakeStore{failOnBatch: 2}
	err := ReplaceAll(context.Background(), store, ImportCategory, makeEntries(1200))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "insert batch 2/3") {
		t.Errorf("error should name the failed batch: %v", err)
	}
	// The first batch stays written, the third is never attempted.
	if len(store.insertBatches) != 1 {
		t.Fatalf("batches written = %d, want 1", len(store.insertBatches))
	}
	if len(store.insertBatches[0]) != 500 {
		t.Fatalf("retained batch size = %d", len(store.insertBatches[0]))
	}
}

func TestReplaceAllAbortsOnFailedDelete(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("store offline")}
	err := ReplaceAll(context.Background(), store, ImportCategory, makeEntries(10))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.insertBatches) != 0 {
		t.Fatalf("no batch may be inserted after a failed delete, got %d", len(store.insertBatches))
	}
}

func TestReplaceAllEmptyStillDeletes(t *testing.T) {
	store := &fakeStore{}
	if err := ReplaceAll(context.Background(), store, ImportCategory, nil); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if len(store.deleteCalls) != 1 {
		t.Fatalf("delete calls = %d, want 1", len(store.deleteCalls))
	}
	if len(store.insertBatches) != 0 {
		t.Fatalf("unexpected inserts: %d", len(store.insertBatches))
	}
}

func TestReplaceAllUsesTransactionalUpgrade(t *testing.T) {
	store := &txStore{}
	if err := ReplaceAll(context.Background(), store, ImportCategory, makeEntries(700)); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if len(store.replaced) != 2 {
		t.Fatalf("tx batches = %d, want 2", len(store.replaced))
	}
	// The sequential primitives are bypassed entirely.
	if len(store.insertBatches) != 0 {
		t.Fatalf("sequential InsertBatch must not be called, got %d", len(store.insertBatches))
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  []int
	}{
		{"empty", 0, nil},
		{"below bound", 10, []int{10}},
		{"exact bound", 500, []int{500}},
		{"one over", 501, []int{500, 1}},
		{"spec example", 1200, []int{500, 500, 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := partition(makeEntries(tt.count), MaxBatchSize)
			if len(batches) != len(tt.want) {
				t.Fatalf("batches = %d, want %d", len(batches), len(tt.want))
			}
			for i, size := range tt.want {
				if len(batches[i]) != size {
					t.Errorf("batch %d size = %d, want %d", i, len(batches[i]), size)
				}
			}
		})
	}
}
