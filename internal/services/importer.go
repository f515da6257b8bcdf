package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tesouraria/internal/sheets"

	"golang.org/x/sync/semaphore"
)

// ErrImportInProgress is returned when a trigger arrives while a run for the
// same category is still executing. Interleaved runs would corrupt the
// replace invariant, so they are rejected instead of queued.
var ErrImportInProgress = errors.New("import already in progress")

// ImportResult carries the per-run diagnostic counts.
type ImportResult struct {
	RowsSeen int
	Imported int
}

// ImportService runs the full ingestion pipeline: fetch the sheet range,
// normalize rows, replace the category's entries in the store. One logical
// thread per invocation; stages run strictly in sequence.
type ImportService struct {
	source   sheets.RangeReader
	store    Store
	category string
	runLock  *semaphore.Weighted
}

func NewImportService(source sheets.RangeReader, store Store) *ImportService {
	return &ImportService{
		source:   source,
		store:    store,
		category: ImportCategory,
		runLock:  semaphore.NewWeighted(1),
	}
}

// Category returns the fixed category this service replaces.
func (s *ImportService) Category() string {
	return s.category
}

// Run executes one import invocation to completion. The run-lock serializes
// concurrent triggers for the category; a busy lock fails fast with
// ErrImportInProgress.
func (s *ImportService) Run(ctx context.Context) (ImportResult, error) {
	if !s.runLock.TryAcquire(1) {
		return ImportResult{}, ErrImportInProgress
	}
	defer s.runLock.Release(1)

	start := time.Now()

	rows, err := s.source.ReadRange(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("fetch source rows: %w", err)
	}

	// The first row is the sheet header.
	if len(rows) > 0 {
		rows = rows[1:]
	}

	entries := NormalizeRows(rows)
	result := ImportResult{RowsSeen: len(rows), Imported: len(entries)}

	if err := ReplaceAll(ctx, s.store, s.category, entries); err != nil {
		return result, err
	}

	slog.InfoContext(ctx, "Import completed",
		"category", s.category,
		"rows_seen", result.RowsSeen,
		"imported", result.Imported,
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
