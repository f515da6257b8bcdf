package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tesouraria/internal/core"
	"tesouraria/internal/services"
)

type fakeImporter struct {
	result services.ImportResult
	err    error
	runs   int
}

func (f *fakeImporter) Run(ctx context.Context) (services.ImportResult, error) {
	f.runs++
	if f.err != nil {
		return services.ImportResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeImporter) Category() string { return "Mensalidade" }

type fakeLister struct {
	entries []core.LedgerEntry
	err     error
}

func (f *fakeLister) ListByCategory(ctx context.Context, category string) ([]core.LedgerEntry, error) {
	return f.entries, f.err
}

type fakePublisher struct {
	calls int
	err   error
}

func (f *fakePublisher) PublishImportCompleted(ctx context.Context, category string, rowsSeen, imported int) error {
	f.calls++
	return f.err
}

func newTestServer(t *testing.T, importer ImportRunner, opts ...Option) *Server {
	t.Helper()
	s := NewServer(":0", importer, opts...)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func doRequest(s *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestImportSuccess(t *testing.T) {
	importer := &fakeImporter{result: services.ImportResult{RowsSeen: 120, Imported: 87}}
	s := newTestServer(t, importer)

	rec := doRequest(s, http.MethodPost, "/api/import/entradas")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success       bool   `json:"success"`
		Message       string `json:"message"`
		TotalImported int    `json:"total_imported"`
		TotalRows     int    `json:"total_rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.TotalImported != 87 || resp.TotalRows != 120 {
		t.Errorf("counters = %d/%d, want 87/120", resp.TotalImported, resp.TotalRows)
	}
	if importer.runs != 1 {
		t.Errorf("runs = %d, want 1", importer.runs)
	}
}

func TestImportZeroRecordsStillReportsCounters(t *testing.T) {
	s := newTestServer(t, &fakeImporter{result: services.ImportResult{RowsSeen: 4, Imported: 0}})

	rec := doRequest(s, http.MethodPost, "/api/import/entradas")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The counter keys must be present even at zero.
	imported, ok := body["total_imported"]
	if !ok {
		t.Fatal("total_imported key missing from zero-record response")
	}
	if imported != float64(0) {
		t.Errorf("total_imported = %v, want 0", imported)
	}
	if rows, ok := body["total_rows"]; !ok || rows != float64(4) {
		t.Errorf("total_rows = %v (present=%v), want 4", rows, ok)
	}
}

func TestImportFailure(t *testing.T) {
	s := newTestServer(t, &fakeImporter{err: errors.New("source unavailable")})

	rec := doRequest(s, http.MethodPost, "/api/import/entradas")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Error("success = true on failure")
	}
	if resp.Message == "" {
		t.Error("failure response carries no message")
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := raw["total_imported"]; ok {
		t.Error("failure response must not carry counters")
	}
}

func TestImportBusy(t *testing.T) {
	s := newTestServer(t, &fakeImporter{err: services.ErrImportInProgress})

	rec := doRequest(s, http.MethodPost, "/api/import/entradas")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestImportMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeImporter{})

	rec := doRequest(s, http.MethodGet, "/api/import/entradas")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestImportPublishesCompletion(t *testing.T) {
	pub := &fakePublisher{}
	s := newTestServer(t, &fakeImporter{result: services.ImportResult{RowsSeen: 3, Imported: 2}},
		WithCompletionPublisher(pub))

	rec := doRequest(s, http.MethodPost, "/api/import/entradas")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if pub.calls != 1 {
		t.Errorf("publish calls = %d, want 1", pub.calls)
	}
}

func TestImportPublishFailureStillSucceeds(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	s := newTestServer(t, &fakeImporter{result: services.ImportResult{RowsSeen: 1, Imported: 1}},
		WithCompletionPublisher(pub))

	rec := doRequest(s, http.MethodPost, "/api/import/entradas")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite publish failure", rec.Code)
	}
}

func TestListEntries(t *testing.T) {
	entry := core.LedgerEntry{
		DueDate:      core.NewDate(2025, 2, 10),
		Kind:         core.KindInflow,
		Category:     "Mensalidade",
		Counterparty: "Carlos Souza",
		Description:  "Mensalidade fevereiro",
		Amount:       core.Money{Cents: 85000},
		Status:       core.StatusPaid,
		PaymentDate:  core.NewDate(2025, 2, 8),
	}
	s := newTestServer(t, &fakeImporter{}, WithEntryLister(&fakeLister{entries: []core.LedgerEntry{entry}}))

	rec := doRequest(s, http.MethodGet, "/api/entries")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	if got[0].DueDate != "2025-02-10" || got[0].AmountCents != 85000 || got[0].Status != "Paid" {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestListEntriesWithoutLister(t *testing.T) {
	s := newTestServer(t, &fakeImporter{})

	rec := doRequest(s, http.MethodGet, "/api/entries")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, &fakeImporter{})

	if rec := doRequest(s, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestImportRateLimit(t *testing.T) {
	s := newTestServer(t, &fakeImporter{}, WithRateLimit(2))

	for i := 0; i < 2; i++ {
		if rec := doRequest(s, http.MethodPost, "/api/import/entradas"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
	if rec := doRequest(s, http.MethodPost, "/api/import/entradas"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after limit", rec.Code)
	}
}
