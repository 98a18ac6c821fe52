// Package normalize turns the rows of a RawTable into Transactions using a
// resolved schema. Rows whose amount or date cannot be parsed are dropped
// and reported as model.RowError values.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Wozniak7/Analisador-Financeiro/internal/classify"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/money"
	"github.com/Wozniak7/Analisador-Financeiro/internal/schema"
)

// ErrInvalidDate is returned for text that is not a day/month/year date.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2.1.2006",
}

// Normalizer converts table rows into Transactions.
type Normalizer struct {
	Schema     schema.Schema
	Classifier *classify.Classifier
}

// Result holds the outcome of a normalization pass.
type Result struct {
	Transactions []model.Transaction
	RowErrors    []model.RowError
	Blank        int // rows skipped because every cell was empty
}

// Run normalizes every row of t in order.
func (n Normalizer) Run(t model.RawTable) Result {
	var res Result
	for i, row := range t.Rows {
		if model.BlankRow(row) {
			res.Blank++
			continue
		}
		txn, rowErr := n.row(t, i)
		if rowErr != nil {
			res.RowErrors = append(res.RowErrors, *rowErr)
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res
}

func (n Normalizer) row(t model.RawTable, i int) (model.Transaction, *model.RowError) {
	line := t.Line(i)

	amountCell := n.cell(t, i, schema.FieldAmount)
	amount, err := ParseAmount(amountCell)
	if err != nil {
		return model.Transaction{}, &model.RowError{Row: line, Field: string(schema.FieldAmount), Value: amountCell.Text(), Err: err}
	}

	dateCell := n.cell(t, i, schema.FieldDate)
	date, err := ParseDate(dateCell)
	if err != nil {
		return model.Transaction{}, &model.RowError{Row: line, Field: string(schema.FieldDate), Value: dateCell.Text(), Err: err}
	}

	typ := n.Classifier.Classify(amount, n.cell(t, i, schema.FieldType).Text(), n.Schema.Has(schema.FieldType))

	return model.Transaction{
		Date:        date,
		Amount:      amount,
		Type:        typ,
		Account:     n.cell(t, i, schema.FieldAccount).Text(),
		Description: n.cell(t, i, schema.FieldDescription).Text(),
	}, nil
}

// cell returns the row's cell for f, or an empty cell when f is unresolved.
func (n Normalizer) cell(t model.RawTable, row int, f schema.Field) model.Cell {
	b, ok := n.Schema.Binding(f)
	if !ok {
		return model.Cell{}
	}
	return t.Cell(row, b.Column)
}

// ParseAmount reads an amount from a cell. Native numbers are used as-is;
// everything else goes through money.ParseAmount.
func ParseAmount(c model.Cell) (decimal.Decimal, error) {
	switch c.Kind {
	case model.CellNumber:
		return c.Number, nil
	case model.CellDate:
		return decimal.Zero, fmt.Errorf("%w: date value", money.ErrInvalidAmount)
	}
	return money.ParseAmount(c.Text())
}

// ParseDate reads a day/month/year date from a cell. Native date cells are
// accepted directly. The result is truncated to midnight UTC.
func ParseDate(c model.Cell) (time.Time, error) {
	if c.Kind == model.CellDate {
		return dateOnly(c.Date), nil
	}
	s := strings.TrimSpace(c.Text())
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
