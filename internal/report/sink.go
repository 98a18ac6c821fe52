package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// PresentationSink renders a Report. Sinks only read the report.
type PresentationSink interface {
	Present(r Report) error
}

// JSONSink writes the report as JSON.
type JSONSink struct {
	W      io.Writer
	Indent bool
}

// Present implements PresentationSink.
func (s JSONSink) Present(r Report) error {
	enc := json.NewEncoder(s.W)
	if s.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	amountStyle  = cellStyle.Align(lipgloss.Right)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// TextSink renders the report as terminal tables.
type TextSink struct {
	W     io.Writer
	Title string // usually the source file name
}

// Present implements PresentationSink.
func (s TextSink) Present(r Report) error {
	var b strings.Builder
	if s.Title != "" {
		b.WriteString(titleStyle.Render(s.Title) + "\n")
	}

	if r.HasError() {
		b.WriteString(errorStyle.Render(r.Error.Kind) + ": " + r.Error.Message + "\n")
		return s.flush(b.String())
	}

	section(&b, "Summary", []string{"", "Amount"}, [][]string{
		{"Total receivable", r.Summary.TotalReceivable},
		{"Total payable", r.Summary.TotalPayable},
		{"Balance", r.Summary.Balance},
	})
	section(&b, "By type", []string{"Type", "Amount"}, entryRows(r.ByType))
	section(&b, "By month", []string{"Month", "Amount"}, entryRows(r.ByMonth))
	if r.ByAccount.Applicable {
		section(&b, "By account", []string{"Account", "Amount"}, entryRows(r.ByAccount.Entries))
	} else {
		b.WriteString(titleStyle.Render("By account") + "\n" + mutedStyle.Render(NotApplicable) + "\n\n")
	}
	section(&b, "Expenses by description", []string{"Description", "Amount"}, entryRows(r.ByDescription))
	section(&b, "Income", detailHeaders, detailRows(r.IncomeDetails))
	section(&b, "Expenses", detailHeaders, detailRows(r.ExpenseDetails))

	if len(r.Warnings) > 0 {
		b.WriteString(titleStyle.Render("Warnings") + "\n")
		for _, w := range r.Warnings {
			b.WriteString(warningStyle.Render("! "+w) + "\n")
		}
	}
	return s.flush(b.String())
}

func (s TextSink) flush(out string) error {
	if _, err := io.WriteString(s.W, out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

var detailHeaders = []string{"Date", "Amount", "Account", "Description"}

func section(b *strings.Builder, title string, headers []string, rows [][]string) {
	b.WriteString(titleStyle.Render(title) + "\n")
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("(none)") + "\n\n")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return amountStyle
			}
			return cellStyle
		})
	b.WriteString(t.Render() + "\n\n")
}

func entryRows(entries []Entry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		label := e.Label
		if label == "" {
			label = "(blank)"
		}
		rows[i] = []string{label, e.Amount}
	}
	return rows
}

func detailRows(details []Detail) [][]string {
	rows := make([][]string, len(details))
	for i, d := range details {
		rows[i] = []string{d.Date, d.Amount, d.Account, d.Description}
	}
	return rows
}
