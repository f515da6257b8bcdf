package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tesouraria/internal/core"

	_ "modernc.org/sqlite"
)

const insertColumns = `due_date, kind, category, counterparty, description, amount_cents,
	status, unit, note, payment_date, student, installment, punctual_discount_cents`

// SQLiteRepository is the ledger store. Besides the two write primitives the
// replacement controller requires, it offers ReplaceByCategory, which wraps
// the whole delete-plus-inserts sequence in one transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// DeleteByCategory removes every entry of the category.
func (r *SQLiteRepository) DeleteByCategory(ctx context.Context, category string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE category = ?`, category)
	if err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		slog.DebugContext(ctx, "Deleted ledger entries", "category", category, "deleted", n)
	}
	return nil
}

// InsertBatch writes all entries in a single multi-row INSERT, so the batch
// succeeds or fails as a whole.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, entries []core.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query, args := buildInsert(entries)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert batch of %d entries: %w", len(entries), err)
	}
	return nil
}

// ReplaceByCategory performs the category-scoped full replace inside one
// transaction: a failure anywhere rolls everything back, leaving the
// pre-run state intact.
func (r *SQLiteRepository) ReplaceByCategory(ctx context.Context, category string, batches [][]core.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE category = ?`, category); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	for i, batch := range batches {
		if len(batch) == 0 {
			continue
		}
		query, args := buildInsert(batch)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert batch %d/%d: %w", i+1, len(batches), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	slog.InfoContext(ctx, "Replaced ledger entries",
		"category", category,
		"batches", len(batches),
		"total", total)
	return nil
}

// ListByCategory returns the category's entries ordered by due date, for the
// read side of the API.
func (r *SQLiteRepository) ListByCategory(ctx context.Context, category string) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+insertColumns+`
		FROM ledger_entries WHERE category = ? ORDER BY due_date, id`, category)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		var e core.LedgerEntry
		var dueDate, kind, status string
		var unit, note, payDate, student, instal sql.NullString
		var discount sql.NullInt64
		if err := rows.Scan(&dueDate, &kind, &e.Category, &e.Counterparty, &e.Description,
			&e.Amount.Cents, &status, &unit, &note, &payDate, &student, &instal, &discount); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.DueDate = parseISODate(dueDate)
		e.Kind = core.Kind(kind)
		e.Status = core.Status(status)
		e.Unit = unit.String
		e.Note = note.String
		e.PaymentDate = parseISODate(payDate.String)
		e.Student = student.String
		e.Installment = instal.String
		e.PunctualDiscount = core.Money{Cents: discount.Int64}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// CountByCategory returns how many entries the category currently holds.
func (r *SQLiteRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE category = ?`, category).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func buildInsert(entries []core.LedgerEntry) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO ledger_entries (` + insertColumns + `) VALUES `)

	args := make([]any, 0, len(entries)*13)
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			e.DueDate.ISO(),
			string(e.Kind),
			e.Category,
			e.Counterparty,
			e.Description,
			e.Amount.Cents,
			string(e.Status),
			nullString(e.Unit),
			nullString(e.Note),
			nullString(e.PaymentDate.ISO()),
			nullString(e.Student),
			nullString(e.Installment),
			nullCents(e.PunctualDiscount),
		)
	}
	return sb.String(), args
}

// nullString maps the domain's ""-means-absent convention onto SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullCents stores the optional discount as NULL when absent; it is never
// persisted with value zero.
func nullCents(m core.Money) sql.NullInt64 {
	return sql.NullInt64{Int64: m.Cents, Valid: m.Cents != 0}
}

func parseISODate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}
