package services

import (
	"context"
	"fmt"

	"tesouraria/internal/core"
)

// MaxBatchSize bounds a single insert call, respecting the write-size limit
// of the store API.
const MaxBatchSize = 500

// Store is the write contract the replacement controller depends on: a
// category-scoped delete and an atomic batch insert. Nothing is read back.
type Store interface {
	DeleteByCategory(ctx context.Context, category string) error
	InsertBatch(ctx context.Context, entries []core.LedgerEntry) error
}

// atomicReplacer is the optional upgrade a store can offer: the whole
// delete-plus-inserts sequence in one transaction, closing the
// partial-failure window of the sequential protocol.
type atomicReplacer interface {
	ReplaceByCategory(ctx context.Context, category string, batches [][]core.LedgerEntry) error
}

// ReplaceAll replaces every stored entry of the category with the given
// normalized sequence.
//
// When the store implements the transactional upgrade it is used directly.
// Otherwise the sequential protocol applies: one delete, then ordered batch
// inserts; a failed insert aborts immediately and earlier batches stay
// written.
func ReplaceAll(ctx context.Context, store Store, category string, entries []core.LedgerEntry) error {
	batches := partition(entries, MaxBatchSize)

	if ar, ok := store.(atomicReplacer); ok {
		if err := ar.ReplaceByCategory(ctx, category, batches); err != nil {
			return fmt.Errorf("replace %s entries: %w", category, err)
		}
		return nil
	}

	if err := store.DeleteByCategory(ctx, category); err != nil {
		return fmt.Errorf("delete %s entries: %w", category, err)
	}
	for i, batch := range batches {
		if err := store.InsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("insert batch %d/%d: %w", i+1, len(batches), err)
		}
	}
	return nil
}

// partition splits entries into fixed-size batches preserving order. An
// empty input yields no batches.
func partition(entries []core.LedgerEntry, size int) [][]core.LedgerEntry {
	if len(entries) == 0 {
		return nil
	}
	batches := make([][]core.LedgerEntry, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		batches = append(batches, entries[start:end])
	}
	return batches
}
