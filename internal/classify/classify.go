// Package classify assigns the final transaction type of a row.
package classify

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/schema"
)

// Synonyms lists the declared-type spellings that map to Income and Expense.
type Synonyms struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// DefaultSynonyms returns the built-in synonym table.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		Income:  []string{"receita", "entrada", "ganho"},
		Expense: []string{"pagamento", "despesa", "saida", "gasto"},
	}
}

// Classifier maps declared type text to a TxType.
type Classifier struct {
	lookup map[string]model.TxType
}

// New builds a Classifier. Synonyms are normalized with NormalizeType, and
// an entry listed under both Income and Expense resolves to Income.
func New(s Synonyms) *Classifier {
	c := &Classifier{lookup: make(map[string]model.TxType)}
	for _, e := range s.Expense {
		c.lookup[NormalizeType(e)] = model.TxExpense
	}
	for _, i := range s.Income {
		c.lookup[NormalizeType(i)] = model.TxIncome
	}
	return c
}

// Classify returns the final type for a row. When the type column was not
// resolved the sign decides; otherwise text is mapped through the synonym
// table with Other as the default. Override is applied last in both cases.
func (c *Classifier) Classify(amount decimal.Decimal, text string, resolved bool) model.TxType {
	var t model.TxType
	switch {
	case !resolved && amount.IsNegative():
		t = model.TxExpense
	case !resolved:
		t = model.TxIncome
	default:
		t = c.Declared(text)
	}
	return Override(t, amount)
}

// Declared maps type text alone, without looking at the amount.
func (c *Classifier) Declared(text string) model.TxType {
	if t, ok := c.lookup[NormalizeType(text)]; ok {
		return t
	}
	return model.TxOther
}

// Override forces Expense for negative amounts. Positive amounts never
// change t.
func Override(t model.TxType, amount decimal.Decimal) model.TxType {
	if amount.IsNegative() {
		return model.TxExpense
	}
	return t
}

// NormalizeType lowercases s, folds diacritics, keeps only letters and
// spaces and trims: " Saída! " -> "saida".
func NormalizeType(s string) string {
	folded := schema.Fold(strings.ToLower(s))
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || r == ' ' {
			return r
		}
		return -1
	}, folded)
	return strings.Join(strings.Fields(kept), " ")
}
