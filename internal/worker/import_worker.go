package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tesouraria/internal/amqp"
	"tesouraria/internal/services"
)

// ImportWorker runs full import passes in response to AMQP requests.
type ImportWorker struct {
	importer *services.ImportService
	client   *amqp.Client
}

func NewImportWorker(importer *services.ImportService, client *amqp.Client) *ImportWorker {
	return &ImportWorker{
		importer: importer,
		client:   client,
	}
}

// HandleImportRequest processes a single import request message.
// A run already in progress drops the message instead of requeueing it:
// the running pass will land the same rows anyway.
func (w *ImportWorker) HandleImportRequest(ctx context.Context, msg *amqp.ImportRequestMessage) error {
	slog.InfoContext(ctx, "Processing import request",
		"requested_by", msg.RequestedBy,
		"requested_at", msg.Timestamp)

	result, err := w.importer.Run(ctx)
	if err != nil {
		if errors.Is(err, services.ErrImportInProgress) {
			slog.WarnContext(ctx, "Import already running, dropping request",
				"requested_by", msg.RequestedBy)
			return nil
		}
		return fmt.Errorf("run import: %w", err)
	}

	if w.client != nil {
		if err := w.client.PublishImportCompleted(ctx, w.importer.Category(), result.RowsSeen, result.Imported); err != nil {
			slog.WarnContext(ctx, "Failed to publish import completion", "error", err)
		}
	}

	slog.InfoContext(ctx, "Import request handled",
		"requested_by", msg.RequestedBy,
		"rows_seen", result.RowsSeen,
		"imported", result.Imported)
	return nil
}

// Start consumes import requests until the context is cancelled.
func (w *ImportWorker) Start(ctx context.Context) error {
	return w.client.ConsumeImportRequests(ctx, func(msg *amqp.ImportRequestMessage) error {
		return w.HandleImportRequest(ctx, msg)
	})
}
