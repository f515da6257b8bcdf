package services

import (
	"strings"

	"tesouraria/internal/core"
)

// ImportCategory is the fixed classification this pipeline replaces on every
// run. Entries of other categories are never touched.
const ImportCategory = "Mensalidade"

// Column positions are fixed by contract with the administrative sheet
// layout (columns A through V). A schema change in the sheet touches this
// block only, never the parsing logic.
const (
	colStudent          = 0  // A: student name
	colUnit             = 1  // B: class/unit
	colSheetCategory    = 2  // C: category label as written in the sheet
	colInstallment      = 3  // D: installment, e.g. "2/12"
	colCounterparty     = 4  // E: responsible payer
	colDescription      = 5  // F
	colDueDate          = 6  // G: DD/MM/YYYY
	colAmount           = 7  // H: locale currency text
	colPunctualDiscount = 8  // I: locale currency text
	colPaymentDate      = 21 // V: DD/MM/YYYY, filled when paid

	minRowCells = 22
)

// RawRow is one ordered tuple of raw cells from the source. An index beyond
// the row's length is an absent cell, not an empty string.
type RawRow []string

func (r RawRow) cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// NormalizeRows maps raw data rows (header already removed) to validated
// ledger entries, preserving source order. Rows that fail shape or parsing
// checks are administrative noise and are silently dropped.
func NormalizeRows(rows [][]string) []core.LedgerEntry {
	entries := make([]core.LedgerEntry, 0, len(rows))
	for _, raw := range rows {
		if entry, ok := normalizeRow(RawRow(raw)); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func normalizeRow(row RawRow) (core.LedgerEntry, bool) {
	if len(row) < minRowCells {
		return core.LedgerEntry{}, false
	}

	amount := core.ParseBRLToCents(row.cell(colAmount))
	dueDate := core.ParseSheetDate(row.cell(colDueDate))
	// Either condition alone excludes the row.
	if dueDate.IsEmpty() || amount == 0 {
		return core.LedgerEntry{}, false
	}

	// Presence of a parseable payment date, not its value, decides the status.
	paymentDate := core.ParseSheetDate(row.cell(colPaymentDate))
	status := core.StatusDue
	if !paymentDate.IsEmpty() {
		status = core.StatusPaid
	}

	counterparty := row.cell(colCounterparty)
	if counterparty == "" {
		counterparty = core.UnidentifiedCounterparty
	}

	return core.LedgerEntry{
		DueDate:          dueDate,
		Kind:             core.KindInflow,
		Category:         ImportCategory,
		Counterparty:     counterparty,
		Description:      row.cell(colDescription),
		Amount:           core.Money{Cents: amount},
		Status:           status,
		Unit:             row.cell(colUnit),
		Note:             joinNote(row.cell(colSheetCategory), row.cell(colInstallment)),
		PaymentDate:      paymentDate,
		Student:          row.cell(colStudent),
		Installment:      row.cell(colInstallment),
		PunctualDiscount: core.Money{Cents: core.ParseBRLToCents(row.cell(colPunctualDiscount))},
	}, true
}

// joinNote joins the sheet category and installment with " / " when both are
// present, falls back to whichever is present, and yields "" (absent) when
// neither is.
func joinNote(category, installment string) string {
	switch {
	case category != "" && installment != "":
		return category + " / " + installment
	case category != "":
		return category
	default:
		return installment
	}
}
