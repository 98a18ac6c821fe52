package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/schema"
)

// maxListedRows caps the row numbers quoted in one warning.
const maxListedRows = 10

var missingEffect = map[schema.Field]string{
	schema.FieldType:        "transactions classified by amount sign",
	schema.FieldAccount:     "byAccount " + NotApplicable,
	schema.FieldDescription: "descriptions left empty",
}

// Warnings summarizes dropped rows, one message per field, followed by one
// message per unresolved optional column.
//
//	2 rows dropped: invalid amount (rows 3, 7)
//	type column not found (tried: tipo, categoria, natureza, type); transactions classified by amount sign
func Warnings(rowErrs []model.RowError, missing []schema.Field, aliases schema.Aliases) []string {
	var order []string
	rows := make(map[string][]int)
	for _, e := range rowErrs {
		if _, ok := rows[e.Field]; !ok {
			order = append(order, e.Field)
		}
		rows[e.Field] = append(rows[e.Field], e.Row)
	}

	var out []string
	for _, field := range order {
		out = append(out, droppedMessage(field, rows[field]))
	}
	for _, f := range missing {
		msg := fmt.Sprintf("%s column not found", f)
		if tried := aliases[f]; len(tried) > 0 {
			msg += fmt.Sprintf(" (tried: %s)", strings.Join(tried, ", "))
		}
		if effect, ok := missingEffect[f]; ok {
			msg += "; " + effect
		}
		out = append(out, msg)
	}
	return out
}

func droppedMessage(field string, rows []int) string {
	noun := "rows"
	if len(rows) == 1 {
		noun = "row"
	}
	listed := rows
	if len(listed) > maxListedRows {
		listed = listed[:maxListedRows]
	}
	nums := make([]string, len(listed))
	for i, r := range listed {
		nums[i] = strconv.Itoa(r)
	}
	list := strings.Join(nums, ", ")
	if extra := len(rows) - len(listed); extra > 0 {
		list += fmt.Sprintf(" and %d more", extra)
	}
	return fmt.Sprintf("%d %s dropped: invalid %s (%s %s)", len(rows), noun, field, noun, list)
}
