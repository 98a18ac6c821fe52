// Package report assembles the final, display-ready Report from aggregated
// results. Currency formatting happens here and nowhere earlier.
package report

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Wozniak7/Analisador-Financeiro/internal/aggregate"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/money"
)

// NotApplicable marks a dimension that was never resolved.
const NotApplicable = "not applicable"

const detailDateLayout = "02/01/2006"

// Report is the single output artifact of an analysis run.
type Report struct {
	Summary        Summary         `json:"summary"`
	ByType         []Entry         `json:"byType"`
	ByMonth        []Entry         `json:"byMonth"`
	ByAccount      AccountGrouping `json:"byAccount"`
	ByDescription  []Entry         `json:"byDescription"`
	IncomeDetails  []Detail        `json:"incomeDetails"`
	ExpenseDetails []Detail        `json:"expenseDetails"`
	Warnings       []string        `json:"warnings"`
	Error          *ErrorInfo      `json:"error,omitempty"`
}

// Summary holds the headline totals as currency strings. TotalPayable is a
// magnitude.
type Summary struct {
	TotalReceivable string `json:"totalReceivable"`
	TotalPayable    string `json:"totalPayable"`
	Balance         string `json:"balance"`
}

// Entry is one labeled, formatted amount.
type Entry struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Detail is one transaction in a detail listing.
type Detail struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Account     string `json:"account,omitempty"`
	Description string `json:"description,omitempty"`
}

// ErrorInfo describes the terminal error of a failed run.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AccountGrouping is the by-account dimension. It marshals to an array of
// entries, or to the string "not applicable" when the account column was
// never resolved.
type AccountGrouping struct {
	Applicable bool
	Entries    []Entry
}

// MarshalJSON implements json.Marshaler.
func (g AccountGrouping) MarshalJSON() ([]byte, error) {
	if !g.Applicable {
		return json.Marshal(NotApplicable)
	}
	if g.Entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.Entries)
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *AccountGrouping) UnmarshalJSON(data []byte) error {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		if marker != NotApplicable {
			return fmt.Errorf("unexpected byAccount marker %q", marker)
		}
		*g = AccountGrouping{}
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decoding byAccount: %w", err)
	}
	*g = AccountGrouping{Applicable: true, Entries: entries}
	return nil
}

// MarshalJSON emits only the error object for a failed report.
func (r Report) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			Error *ErrorInfo `json:"error"`
		}{r.Error})
	}
	type plain Report
	out := plain(r)
	for _, s := range []*[]Entry{&out.ByType, &out.ByMonth, &out.ByDescription} {
		if *s == nil {
			*s = []Entry{}
		}
	}
	for _, s := range []*[]Detail{&out.IncomeDetails, &out.ExpenseDetails} {
		if *s == nil {
			*s = []Detail{}
		}
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	return json.Marshal(out)
}

// Failed returns the error-only report for a terminal error.
func Failed(err error) Report {
	kind := model.Kind(err)
	if kind == "" {
		kind = "Error"
	}
	return Report{Error: &ErrorInfo{Kind: kind, Message: err.Error()}}
}

// HasError reports whether the run ended in a terminal error.
func (r Report) HasError() bool {
	return r.Error != nil
}

// Err returns the terminal error as an error value, or nil.
func (r Report) Err() error {
	if r.Error == nil {
		return nil
	}
	return errors.New(r.Error.Kind + ": " + r.Error.Message)
}

// Assemble formats an aggregation result. An empty symbol uses
// money.DefaultSymbol.
func Assemble(res aggregate.Result, warnings []string, symbol string) Report {
	if symbol == "" {
		symbol = money.DefaultSymbol
	}
	r := Report{
		Summary: Summary{
			TotalReceivable: money.FormatWith(symbol, res.Summary.TotalReceivable),
			TotalPayable:    money.FormatWith(symbol, res.Summary.TotalPayable.Abs()),
			Balance:         money.FormatWith(symbol, res.Summary.Balance),
		},
		ByAccount: AccountGrouping{Applicable: res.AccountApplicable},
		Warnings:  append([]string(nil), warnings...),
	}

	for _, g := range res.ByType {
		r.ByType = append(r.ByType, Entry{Label: g.Label, Amount: money.FormatWith(symbol, g.Amount)})
	}
	for _, m := range res.ByMonth {
		r.ByMonth = append(r.ByMonth, Entry{Label: m.Period.String(), Amount: money.FormatWith(symbol, m.Amount)})
	}
	if res.AccountApplicable {
		r.ByAccount.Entries = []Entry{}
		for _, g := range res.ByAccount {
			r.ByAccount.Entries = append(r.ByAccount.Entries, Entry{Label: g.Label, Amount: money.FormatWith(symbol, g.Amount)})
		}
	}
	for _, g := range res.ByDescription {
		r.ByDescription = append(r.ByDescription, Entry{Label: g.Label, Amount: money.FormatWith(symbol, g.Amount)})
	}
	r.IncomeDetails = details(res.Details[model.TxIncome], symbol)
	r.ExpenseDetails = details(res.Details[model.TxExpense], symbol)
	return r
}

func details(txns []model.Transaction, symbol string) []Detail {
	var out []Detail
	for _, t := range txns {
		out = append(out, Detail{
			Date:        t.Date.Format(detailDateLayout),
			Amount:      money.FormatWith(symbol, t.Amount),
			Type:        string(t.Type),
			Account:     t.Account,
			Description: t.Description,
		})
	}
	return out
}
