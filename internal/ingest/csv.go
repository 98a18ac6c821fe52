package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

// CSVReader reads delimited text. It first tries a strict dialect that
// also types Brazilian-formatted numbers, then a plain dialect that
// accepts ragged rows and stray quotes.
type CSVReader struct {
	Delimiter rune
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// brNumber matches "1.234,56", "-50,00" and "1500" but not "1,234.56".
var brNumber = regexp.MustCompile(`^[+-]?(\d{1,3}(\.\d{3})+|\d+)(,\d+)?$`)

var sniffCandidates = []rune{';', ',', '\t', '|'}

// Kind returns model.KindDelimited.
func (c *CSVReader) Kind() model.SourceKind { return model.KindDelimited }

// Read parses content into a RawTable.
func (c *CSVReader) Read(content []byte) (model.RawTable, error) {
	text := decode(content)
	delim := c.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(text)
	}

	records, lines, strictErr := readRecords(text, delim, true)
	hinted := strictErr == nil
	if strictErr != nil {
		var plainErr error
		records, lines, plainErr = readRecords(text, delim, false)
		if plainErr != nil {
			return model.RawTable{}, fmt.Errorf("%w: delimited text: strict dialect: %v; plain dialect: %v", model.ErrFormat, strictErr, plainErr)
		}
	}
	if len(records) == 0 {
		return model.RawTable{}, fmt.Errorf("%w: delimited text: no header row", model.ErrFormat)
	}

	table := model.RawTable{Headers: make([]string, len(records[0])), Lines: lines[1:]}
	for i, h := range records[0] {
		table.Headers[i] = strings.TrimSpace(h)
	}
	for _, rec := range records[1:] {
		row := make([]model.Cell, len(rec))
		for i, v := range rec {
			row[i] = textCell(v, hinted)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// readRecords returns every record with the line it starts on. Blank lines
// and multi-line quoted fields make the two diverge.
func readRecords(text string, delim rune, strict bool) ([][]string, []int, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.TrimLeadingSpace = true
	if strict {
		r.FieldsPerRecord = 0
	} else {
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
	}

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
}

// textCell types a field. With hints on, Brazilian-formatted numbers become
// number cells.
func textCell(v string, hinted bool) model.Cell {
	trimmed := strings.TrimSpace(v)
	if hinted && brNumber.MatchString(trimmed) {
		plain := strings.Replace(strings.ReplaceAll(trimmed, ".", ""), ",", ".", 1)
		if d, err := decimal.NewFromString(plain); err == nil {
			return model.NumberCell(trimmed, d)
		}
	}
	return model.TextCell(v)
}

// decode strips a UTF-8 BOM and converts Windows-1252 content to UTF-8.
func decode(content []byte) string {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return string(content)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}

// sniffDelimiter picks the candidate that occurs most often on the first
// line, preferring ';' on ties.
func sniffDelimiter(text string) rune {
	line, _, _ := strings.Cut(text, "\n")
	best, bestCount := sniffCandidates[0], 0
	for _, c := range sniffCandidates {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
