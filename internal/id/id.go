// Package id numbers transactions within their month: "2024-01-003" is the
// third transaction dated January 2024, counted in input order.
package id

import (
	"fmt"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

// Format returns an ID like "2024-01-001".
func Format(p model.Period, seq int) string {
	return fmt.Sprintf("%s-%03d", p, seq)
}

// Assign returns one ID per transaction, aligned with txns.
func Assign(txns []model.Transaction) []string {
	next := make(map[model.Period]int)
	ids := make([]string, len(txns))
	for i, t := range txns {
		p := t.Period()
		next[p]++
		ids[i] = Format(p, next[p])
	}
	return ids
}
