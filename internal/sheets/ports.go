package sheets

import (
	"context"
	"fmt"
)

// RangeReader is the port for the tabular source: it returns the configured
// cell range as ordered rows of string cells, header row included. Trailing
// empty columns may be missing from a row entirely; callers must treat a
// missing index as an absent cell.
type RangeReader interface {
	ReadRange(ctx context.Context) ([][]string, error)
}

// SourceUnavailableError reports an upstream fetch that failed with a
// non-success status or an unusable body. It aborts the whole invocation;
// nothing is retried.
type SourceUnavailableError struct {
	Status int
	Body   string
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: status %d: %s", e.Status, e.Body)
}
