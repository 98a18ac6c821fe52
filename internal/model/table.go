package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind is the declared layout of an input.
type SourceKind string

const (
	KindDelimited  SourceKind = "delimited-text"
	KindFlatSheet  SourceKind = "spreadsheet-flat"
	KindBudgetGrid SourceKind = "spreadsheet-budget-grid"
)

const cellDateDisplay = "02/01/2006"

// ParseSourceKind accepts the canonical kind names plus the short
// aliases csv, xlsx and budget.
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindDelimited), "csv", "text", "delimited":
		return KindDelimited, nil
	case string(KindFlatSheet), "xlsx", "spreadsheet", "flat":
		return KindFlatSheet, nil
	case string(KindBudgetGrid), "budget", "grid":
		return KindBudgetGrid, nil
	}
	return "", fmt.Errorf("%w: unsupported source kind %q", ErrFormat, s)
}

// CellKind tells which field of a Cell carries the value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is a raw value as read from the source. Raw always holds the
// source text; Number and Date are set for native (or hinted) values.
type Cell struct {
	Kind   CellKind
	Raw    string
	Number decimal.Decimal
	Date   time.Time
}

// TextCell builds a Cell from source text; blank text yields an empty cell.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty, Raw: s}
	}
	return Cell{Kind: CellText, Raw: s}
}

// NumberCell builds a native numeric Cell.
func NumberCell(raw string, d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Raw: raw, Number: d}
}

// DateCell builds a native date Cell.
func DateCell(raw string, t time.Time) Cell {
	return Cell{Kind: CellDate, Raw: raw, Date: t}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// Text coerces the cell to trimmed text.
func (c Cell) Text() string {
	switch c.Kind {
	case CellEmpty:
		return ""
	case CellDate:
		return c.Date.Format(cellDateDisplay)
	case CellNumber:
		if c.Raw != "" {
			return strings.TrimSpace(c.Raw)
		}
		return c.Number.String()
	}
	return strings.TrimSpace(c.Raw)
}

// RawTable is the generic header + rows grid produced by ingestion.
// Budget-grid tables carry no Headers; every sheet row is in Rows.
type RawTable struct {
	Headers []string
	Rows    [][]Cell
	Lines   []int // 1-based source line of each row, parallel to Rows
}

// Line returns the source line of row. Without recorded lines the header
// is assumed to sit on line 1.
func (t RawTable) Line(row int) int {
	if row >= 0 && row < len(t.Lines) {
		return t.Lines[row]
	}
	return row + 2
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (t RawTable) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Cell{}
	}
	return t.Rows[row][col]
}

// BlankRow reports whether every cell of row is empty.
func BlankRow(row []Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
