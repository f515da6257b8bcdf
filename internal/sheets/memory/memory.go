// Package memory provides an in-memory tabular source for development and
// tests, serving canned rows instead of hitting the Sheets API.
package memory

import (
	"context"
	"sync"

	ports "tesouraria/internal/sheets"
)

type Source struct {
	mu   sync.Mutex
	rows [][]string
}

var _ ports.RangeReader = (*Source)(nil)

// New creates a source serving the given rows, header included.
func New(rows [][]string) *Source {
	return &Source{rows: cloneRows(rows)}
}

// NewSeeded returns a source with a small representative dataset: a header
// row, two importable tuition rows and one administrative noise row.
func NewSeeded() *Source {
	header := make([]string, 22)
	header[0] = "Aluno"
	header[1] = "Turma"
	header[2] = "Categoria"
	header[3] = "Parcela"
	header[4] = "Responsável"
	header[5] = "Descrição"
	header[6] = "Vencimento"
	header[7] = "Valor"
	header[8] = "Desconto pontualidade"
	header[21] = "Data pagamento"

	row := func(student, unit, installment, payer, desc, due, amount, discount, paid string) []string {
		r := make([]string, 22)
		r[0] = student
		r[1] = unit
		r[2] = "Mensalidade"
		r[3] = installment
		r[4] = payer
		r[5] = desc
		r[6] = due
		r[7] = amount
		r[8] = discount
		r[21] = paid
		return r
	}

	return New([][]string{
		header,
		row("Ana Souza", "3º ano A", "2/12", "Carlos Souza", "Mensalidade fevereiro", "10/02/2025", "850,00", "42,50", "08/02/2025"),
		row("Bruno Lima", "1º ano B", "2/12", "Paula Lima", "Mensalidade fevereiro", "10/02/2025", "850,00", "", ""),
		{"--- linha administrativa ---"},
	})
}

// ReadRange returns a copy of the stored rows.
func (s *Source) ReadRange(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRows(s.rows), nil
}

// SetRows replaces the stored rows.
func (s *Source) SetRows(rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = cloneRows(rows)
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
