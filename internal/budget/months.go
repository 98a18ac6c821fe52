package budget

import (
	"strings"

	"github.com/Wozniak7/Analisador-Financeiro/internal/schema"
)

var monthNames = map[string]int{
	"janeiro": 1, "fevereiro": 2, "marco": 3, "abril": 4, "maio": 5, "junho": 6,
	"julho": 7, "agosto": 8, "setembro": 9, "outubro": 10, "novembro": 11, "dezembro": 12,

	"jan": 1, "fev": 2, "mar": 3, "abr": 4, "mai": 5, "jun": 6,
	"jul": 7, "ago": 8, "set": 9, "out": 10, "nov": 11, "dez": 12,

	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,

	"feb": 2, "apr": 4, "aug": 8, "sep": 9, "oct": 10, "dec": 12,
}

// MonthNumber maps a month label to 1-12. Case, diacritics, surrounding
// space and a trailing period are ignored: "Março", "MAR." and "march" are
// all 3.
func MonthNumber(label string) (int, bool) {
	key := strings.TrimSuffix(strings.TrimSpace(schema.Fold(strings.ToLower(label))), ".")
	n, ok := monthNames[key]
	return n, ok
}
