package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	// KindInflow is the only kind the import pipeline produces.
	KindInflow Kind = "Entrada"

	StatusPaid Status = "Paid"
	StatusDue  Status = "Due"

	// UnidentifiedCounterparty is used when the source row carries no payer name.
	UnidentifiedCounterparty = "Não identificado"
)

type (
	Kind   string
	Status string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// LedgerEntry is a normalized financial record. Optional string fields use
	// "" for absent and are stored as NULL; PaymentDate uses the zero Date and
	// PunctualDiscount uses zero cents the same way.
	LedgerEntry struct {
		DueDate          Date
		Kind             Kind
		Category         string
		Counterparty     string
		Description      string
		Amount           Money
		Status           Status
		Unit             string
		Note             string
		PaymentDate      Date
		Student          string
		Installment      string
		PunctualDiscount Money
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingDueDate  = errors.New("missing due date")
	ErrMissingCategory = errors.New("missing category")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidStatus   = errors.New("invalid status")
)

var sheetDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ParseSheetDate parses a DD/MM/YYYY cell. Anything that does not match the
// anchored shape, or does not resolve to a real calendar date, yields the
// zero Date (absent).
func ParseSheetDate(s string) Date {
	s = strings.TrimSpace(s)
	if !sheetDateRe.MatchString(s) {
		return Date{}
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return Date{}
	}
	return Date{Time: t}
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true when the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// ISO returns the YYYY-MM-DD storage representation, or "" when absent.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (k Kind) Valid() bool {
	return k == KindInflow
}

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusDue
}

func (e LedgerEntry) Validate() error {
	if e.DueDate.IsEmpty() {
		return ErrMissingDueDate
	}
	if e.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrMissingCategory
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
