package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tesouraria/internal/core"
	applog "tesouraria/internal/log"
	"tesouraria/internal/services"
)

// importResponse is the success envelope. The counters are always present:
// a run that normalized nothing still reports total_imported 0.
type importResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TotalImported int    `json:"total_imported"`
	TotalRows     int    `json:"total_rows"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type entryResponse struct {
	DueDate          string `json:"due_date"`
	Kind             string `json:"kind"`
	Category         string `json:"category"`
	Counterparty     string `json:"counterparty"`
	Description      string `json:"description"`
	AmountCents      int64  `json:"amount_cents"`
	Status           string `json:"status"`
	Unit             string `json:"unit,omitempty"`
	Note             string `json:"note,omitempty"`
	PaymentDate      string `json:"payment_date,omitempty"`
	Student          string `json:"student,omitempty"`
	Installment      string `json:"installment,omitempty"`
	PunctualDiscount int64  `json:"punctual_discount_cents,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := s.importer.Run(ctx)
	if err != nil {
		if errors.Is(err, services.ErrImportInProgress) {
			writeJSON(w, http.StatusConflict, errorResponse{
				Success: false,
				Message: "An import is already running",
			})
			return
		}
		applog.FromContext(ctx).ErrorContext(ctx, "Import run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Success: false,
			Message: "Import failed: " + err.Error(),
		})
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishImportCompleted(ctx, s.importer.Category(), result.RowsSeen, result.Imported); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Failed to publish import completion", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, importResponse{
		Success:       true,
		Message:       "Import completed successfully",
		TotalImported: result.Imported,
		TotalRows:     result.RowsSeen,
	})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.lister == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{
			Success: false,
			Message: "Entry listing is not available",
		})
		return
	}

	entries, err := s.lister.ListByCategory(ctx, s.importer.Category())
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "List entries failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Success: false,
			Message: "Failed to list entries",
		})
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func toEntryResponse(e core.LedgerEntry) entryResponse {
	return entryResponse{
		DueDate:          e.DueDate.ISO(),
		Kind:             string(e.Kind),
		Category:         e.Category,
		Counterparty:     e.Counterparty,
		Description:      e.Description,
		AmountCents:      e.Amount.Cents,
		Status:           string(e.Status),
		Unit:             e.Unit,
		Note:             e.Note,
		PaymentDate:      e.PaymentDate.ISO(),
		Student:          e.Student,
		Installment:      e.Installment,
		PunctualDiscount: e.PunctualDiscount.Cents,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
