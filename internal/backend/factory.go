package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "tesouraria/internal/sheets/google"
	"tesouraria/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid source type: %s", config.Type)
	}

	switch config.Type {
	case GoogleSource:
		return f.createGoogleSource(ctx, config)
	case MemorySource:
		return f.createMemorySource(config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

func (f *DefaultFactory) createGoogleSource(ctx context.Context, config Config) (*SourceResult, error) {
	cli, err := gsheet.NewClient(ctx, config.SheetsAPIKey, config.SpreadsheetID, config.SheetRange)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets source",
		"spreadsheet_id", config.SpreadsheetID,
		"range", config.SheetRange)

	return &SourceResult{
		Source:  cli,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createMemorySource(config Config) (*SourceResult, error) {
	src := memory.NewSeeded()

	f.logger.Info("Initialized in-memory source with seeded rows")

	return &SourceResult{
		Source:  src,
		Cleanup: nil,
	}, nil
}
