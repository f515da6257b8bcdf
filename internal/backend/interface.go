package backend

import (
	"context"

	"tesouraria/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// SourceResult contains the row source and optional cleanup function
type SourceResult struct {
	Source  sheets.RangeReader
	Cleanup CleanupFunc
}

// Factory creates row sources based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation
type Config struct {
	Type SourceType

	// Google Sheets specific
	SheetsAPIKey  string
	SpreadsheetID string
	SheetRange    string
}

// SourceType represents the type of row source
type SourceType string

const (
	GoogleSource SourceType = "google"
	MemorySource SourceType = "memory"
)

// String implements fmt.Stringer
func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is valid
func (st SourceType) IsValid() bool {
	switch st {
	case GoogleSource, MemorySource:
		return true
	default:
		return false
	}
}
