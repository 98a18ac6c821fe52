package ingest

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

// SheetReader reads one worksheet of an XLSX workbook. Flat sheets use the
// first non-empty row as headers; grid sheets keep every row and have no
// headers.
type SheetReader struct {
	Sheet string
	Grid  bool
}

// Built-in number format IDs that render a date.
var dateNumFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 30: true, 36: true, 50: true, 57: true,
}

var (
	quotedText  = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)
	dateFmtCode = regexp.MustCompile(`(?i)(d{1,4}|y{2,4}|mmm)`)
)

// Kind returns the grid or flat spreadsheet kind.
func (s *SheetReader) Kind() model.SourceKind {
	if s.Grid {
		return model.KindBudgetGrid
	}
	return model.KindFlatSheet
}

// Read parses workbook content into a RawTable.
func (s *SheetReader) Read(content []byte) (model.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: opening workbook: %v", model.ErrFormat, err)
	}
	defer f.Close()

	sheet, err := s.pickSheet(f)
	if err != nil {
		return model.RawTable{}, err
	}

	rows, err := s.readCells(f, sheet)
	if err != nil {
		return model.RawTable{}, err
	}

	if s.Grid {
		return model.RawTable{Rows: rows, Lines: sheetLines(0, len(rows))}, nil
	}

	for i, row := range rows {
		if model.BlankRow(row) {
			continue
		}
		headers := make([]string, len(row))
		for j, c := range row {
			headers[j] = c.Text()
		}
		return model.RawTable{Headers: headers, Rows: rows[i+1:], Lines: sheetLines(i+1, len(rows))}, nil
	}
	return model.RawTable{}, fmt.Errorf("%w: sheet %q has no header row", model.ErrFormat, sheet)
}

// sheetLines returns the 1-based sheet rows for row indexes [from, to).
func sheetLines(from, to int) []int {
	lines := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, i+1)
	}
	return lines
}

func (s *SheetReader) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", model.ErrFormat)
	}
	if s.Sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if strings.EqualFold(name, s.Sheet) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q not found (have %s)", model.ErrFormat, s.Sheet, strings.Join(sheets, ", "))
}

func (s *SheetReader) readCells(f *excelize.File, sheet string) ([][]model.Cell, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", model.ErrFormat, sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows := make([][]model.Cell, len(raw))
	for r, values := range raw {
		row := make([]model.Cell, len(values))
		for c, v := range values {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", model.ErrFormat, err)
			}
			row[c] = typedCell(f, sheet, name, v, date1904)
		}
		rows[r] = row
	}
	return rows, nil
}

// typedCell builds a Cell from a raw value using the cell's stored type and
// number format.
func typedCell(f *excelize.File, sheet, name, v string, date1904 bool) model.Cell {
	if strings.TrimSpace(v) == "" {
		return model.TextCell(v)
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return model.TextCell(v)
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
	default:
		return model.TextCell(v)
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return model.TextCell(v)
	}
	if typ == excelize.CellTypeDate || isDateStyle(f, sheet, name) {
		serial, _ := d.Float64()
		if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
			return model.DateCell(v, t)
		}
	}
	return model.NumberCell(v, d)
}

func isDateStyle(f *excelize.File, sheet, name string) bool {
	idx, err := f.GetCellStyle(sheet, name)
	if err != nil || idx == 0 {
		return false
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		code := quotedText.ReplaceAllString(*style.CustomNumFmt, "")
		return dateFmtCode.MatchString(code)
	}
	return dateNumFmts[style.NumFmt]
}
