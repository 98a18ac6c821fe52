// Package aggregate reduces a set of Transactions to totals, grouped sums
// and bounded detail listings. All arithmetic is on exact decimals.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

// Options controls the reduction.
type Options struct {
	DetailLimit     int  // rows per type in the detail listings; 0 = all
	AccountResolved bool // whether the account dimension exists
}

// Summary holds the headline totals. TotalPayable is signed (negative).
type Summary struct {
	TotalReceivable decimal.Decimal
	TotalPayable    decimal.Decimal
	Balance         decimal.Decimal
}

// Group is one labeled sum.
type Group struct {
	Label  string
	Amount decimal.Decimal
}

// MonthGroup is the sum for one calendar month.
type MonthGroup struct {
	Period model.Period
	Amount decimal.Decimal
}

// Result is the output of Aggregate.
type Result struct {
	Summary           Summary
	ByType            []Group // enum order, present types only
	AccountApplicable bool
	ByAccount         []Group      // label order
	ByMonth           []MonthGroup // ascending
	ByDescription     []Group      // Expense only, magnitudes, descending
	Details           map[model.TxType][]model.Transaction
	Count             int
}

// Aggregate reduces txns. The input slice is not modified.
func Aggregate(txns []model.Transaction, opts Options) Result {
	res := Result{
		Summary: Summary{
			TotalReceivable: decimal.Zero,
			TotalPayable:    decimal.Zero,
			Balance:         decimal.Zero,
		},
		AccountApplicable: opts.AccountResolved,
		Details:           make(map[model.TxType][]model.Transaction),
		Count:             len(txns),
	}

	byType := make(map[model.TxType]decimal.Decimal)
	byAccount := newSums()
	byMonth := make(map[model.Period]decimal.Decimal)
	byDesc := newSums()

	for _, txn := range txns {
		switch txn.Type {
		case model.TxIncome:
			res.Summary.TotalReceivable = res.Summary.TotalReceivable.Add(txn.Amount)
		case model.TxExpense:
			res.Summary.TotalPayable = res.Summary.TotalPayable.Add(txn.Amount)
			byDesc.add(txn.Description, txn.Amount.Abs())
		}

		byType[txn.Type] = byType[txn.Type].Add(txn.Amount)

		if opts.AccountResolved {
			byAccount.add(txn.Account, txn.Amount)
		}

		p := txn.Period()
		byMonth[p] = byMonth[p].Add(txn.Amount)

		if opts.DetailLimit == 0 || len(res.Details[txn.Type]) < opts.DetailLimit {
			res.Details[txn.Type] = append(res.Details[txn.Type], txn)
		}
	}
	res.Summary.Balance = res.Summary.TotalReceivable.Add(res.Summary.TotalPayable)

	for _, t := range model.TxTypes() {
		if sum, ok := byType[t]; ok {
			res.ByType = append(res.ByType, Group{Label: string(t), Amount: sum})
		}
	}

	res.ByAccount = byAccount.groups()
	sort.Slice(res.ByAccount, func(i, j int) bool { return res.ByAccount[i].Label < res.ByAccount[j].Label })

	for p, sum := range byMonth {
		res.ByMonth = append(res.ByMonth, MonthGroup{Period: p, Amount: sum})
	}
	sort.Slice(res.ByMonth, func(i, j int) bool { return res.ByMonth[i].Period.Before(res.ByMonth[j].Period) })

	res.ByDescription = byDesc.groups()
	sort.SliceStable(res.ByDescription, func(i, j int) bool {
		a, b := res.ByDescription[i], res.ByDescription[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Label < b.Label
	})

	return res
}

// sums accumulates per-label totals.
type sums map[string]decimal.Decimal

func newSums() sums { return make(sums) }

func (s sums) add(label string, amount decimal.Decimal) {
	s[label] = s[label].Add(amount)
}

func (s sums) groups() []Group {
	if len(s) == 0 {
		return nil
	}
	out := make([]Group, 0, len(s))
	for label, sum := range s {
		out = append(out, Group{Label: label, Amount: sum})
	}
	return out
}
