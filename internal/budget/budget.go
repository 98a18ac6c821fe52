// Package budget reshapes the fixed budget-grid workbook layout into
// Transactions.
//
// The grid holds two stacked blocks, Expense first and Income second. Each
// block starts at a header row whose first column labels the categories
// and whose remaining columns name the twelve months:
//
//	Categoria | Janeiro | Fevereiro | ... | Dezembro
//	Aluguel   | 1500,00 | 1500,00   | ... | 1500,00
//	Total     | ...
//
// Every (category, month) cell becomes one Transaction dated the first day
// of that month in the reference year. Empty cells count as zero; rows with
// no month values at all are section titles and are skipped.
package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Wozniak7/Analisador-Financeiro/internal/classify"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/normalize"
	"github.com/Wozniak7/Analisador-Financeiro/internal/schema"
)

// Layout locates the two blocks inside the grid.
type Layout struct {
	ExpenseHeaderRow int    `yaml:"expense_header_row"` // 0-based
	IncomeHeaderRow  int    `yaml:"income_header_row"`  // 0-based
	ReferenceYear    int    `yaml:"reference_year"`
	TotalLabel       string `yaml:"total_label"`
}

// DefaultLayout returns the layout of the standard budget template.
func DefaultLayout() Layout {
	return Layout{
		ExpenseHeaderRow: 2,
		IncomeHeaderRow:  20,
		ReferenceYear:    2024,
		TotalLabel:       "total",
	}
}

// Result holds the melted records and the cells that could not be parsed.
type Result struct {
	Transactions []model.Transaction
	RowErrors    []model.RowError
}

type block struct {
	typ    model.TxType
	header int
	end    int // exclusive
	sign   decimal.Decimal
}

type monthColumn struct {
	col   int
	month int
	label string
}

// Reshape melts the Expense and Income blocks of a budget grid. It fails
// with model.ErrFormat when kind is not the budget grid or when a block
// header is missing or lacks any of the twelve months.
func Reshape(kind model.SourceKind, t model.RawTable, l Layout) (Result, error) {
	if kind != model.KindBudgetGrid {
		return Result{}, fmt.Errorf("%w: %s is not a budget grid", model.ErrFormat, kind)
	}
	if l.ExpenseHeaderRow < 0 || l.IncomeHeaderRow <= l.ExpenseHeaderRow {
		return Result{}, fmt.Errorf("%w: invalid budget layout: expense header row %d, income header row %d",
			model.ErrFormat, l.ExpenseHeaderRow, l.IncomeHeaderRow)
	}
	if l.IncomeHeaderRow >= len(t.Rows) {
		return Result{}, fmt.Errorf("%w: budget grid has %d rows, income header expected at row %d",
			model.ErrFormat, len(t.Rows), l.IncomeHeaderRow+1)
	}

	blocks := []block{
		{typ: model.TxExpense, header: l.ExpenseHeaderRow, end: l.IncomeHeaderRow, sign: decimal.NewFromInt(-1)},
		{typ: model.TxIncome, header: l.IncomeHeaderRow, end: len(t.Rows), sign: decimal.NewFromInt(1)},
	}

	var res Result
	for _, b := range blocks {
		months, err := monthColumns(t, b.header)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %s block: %v", model.ErrFormat, strings.ToLower(string(b.typ)), err)
		}
		melt(t, b, months, l, &res)
	}
	return res, nil
}

func monthColumns(t model.RawTable, header int) ([]monthColumn, error) {
	var cols []monthColumn
	seen := make(map[int]bool)
	row := t.Rows[header]
	for c := 1; c < len(row); c++ {
		label := row[c].Text()
		n, ok := MonthNumber(label)
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		cols = append(cols, monthColumn{col: c, month: n, label: label})
	}
	if len(cols) != 12 {
		return nil, fmt.Errorf("header row %d names %d of 12 months", header+1, len(cols))
	}
	return cols, nil
}

func melt(t model.RawTable, b block, months []monthColumn, l Layout, res *Result) {
	total := schema.Fold(strings.ToLower(l.TotalLabel))
	for r := b.header + 1; r < b.end; r++ {
		category := t.Cell(r, 0).Text()
		if category == "" || (total != "" && strings.Contains(schema.Fold(strings.ToLower(category)), total)) {
			continue
		}
		if labelOnly(t, r, months) {
			continue
		}
		for _, m := range months {
			cell := t.Cell(r, m.col)
			value := decimal.Zero
			if !cell.IsEmpty() {
				v, err := normalize.ParseAmount(cell)
				if err != nil {
					res.RowErrors = append(res.RowErrors, model.RowError{
						Row:   r + 1,
						Field: string(schema.FieldAmount),
						Value: fmt.Sprintf("%s/%s: %s", category, m.label, cell.Text()),
						Err:   err,
					})
					continue
				}
				value = v
			}
			amount := value.Mul(b.sign)
			res.Transactions = append(res.Transactions, model.Transaction{
				Date:        time.Date(l.ReferenceYear, time.Month(m.month), 1, 0, 0, 0, 0, time.UTC),
				Amount:      amount,
				Type:        classify.Override(b.typ, amount),
				Description: category,
			})
		}
	}
}

// labelOnly reports whether row r has no value in any month column, as in a
// section title.
func labelOnly(t model.RawTable, r int, months []monthColumn) bool {
	for _, m := range months {
		if !t.Cell(r, m.col).IsEmpty() {
			return false
		}
	}
	return true
}
