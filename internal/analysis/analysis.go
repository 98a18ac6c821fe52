// Package analysis runs the full pipeline: read, resolve columns,
// normalize and classify (or reshape a budget grid), aggregate and
// assemble a Report.
//
// An Analyzer holds only immutable configuration, so one instance may
// serve concurrent runs; every run owns the table and transactions it
// creates.
package analysis

import (
	"bytes"
	"io"

	"github.com/rs/zerolog"

	"github.com/Wozniak7/Analisador-Financeiro/internal/aggregate"
	"github.com/Wozniak7/Analisador-Financeiro/internal/budget"
	"github.com/Wozniak7/Analisador-Financeiro/internal/classify"
	"github.com/Wozniak7/Analisador-Financeiro/internal/config"
	"github.com/Wozniak7/Analisador-Financeiro/internal/ingest"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/normalize"
	"github.com/Wozniak7/Analisador-Financeiro/internal/report"
	"github.com/Wozniak7/Analisador-Financeiro/internal/schema"
)

// Analyzer runs analyses with a fixed configuration.
type Analyzer struct {
	registry   *ingest.Registry
	aliases    schema.Aliases
	classifier *classify.Classifier
	layout     budget.Layout
	symbol     string
	log        zerolog.Logger
}

// Outcome is the result of one run: the Report plus the normalized
// transactions it was computed from.
type Outcome struct {
	Report       report.Report
	Transactions []model.Transaction
	RowErrors    []model.RowError
	Rows         int // data rows read, blank rows included
}

// New builds an Analyzer from cfg.
func New(cfg *config.Config, log zerolog.Logger) *Analyzer {
	synonyms := classify.DefaultSynonyms()
	if len(cfg.Types.Income) > 0 {
		synonyms.Income = cfg.Types.Income
	}
	if len(cfg.Types.Expense) > 0 {
		synonyms.Expense = cfg.Types.Expense
	}

	layout := budget.DefaultLayout()
	layout.ReferenceYear = cfg.Budget.ReferenceYear
	layout.ExpenseHeaderRow = cfg.Budget.ExpenseHeaderRow - 1
	layout.IncomeHeaderRow = cfg.Budget.IncomeHeaderRow - 1
	if cfg.Budget.TotalLabel != "" {
		layout.TotalLabel = cfg.Budget.TotalLabel
	}

	return &Analyzer{
		registry:   ingest.DefaultRegistry(ingest.Options{Delimiter: cfg.DelimiterRune(), Sheet: cfg.Input.Sheet}),
		aliases:    schema.DefaultAliases().Merge(cfg.Aliases),
		classifier: classify.New(synonyms),
		layout:     layout,
		symbol:     cfg.Report.CurrencySymbol,
		log:        log,
	}
}

// Analyze reads src as kind and returns its Report. limit bounds the
// detail listings per type; 0 lists every row.
func (a *Analyzer) Analyze(src io.Reader, kind model.SourceKind, limit int) report.Report {
	return a.Run(src, kind, limit).Report
}

// AnalyzeBytes is Analyze over in-memory content.
func (a *Analyzer) AnalyzeBytes(content []byte, kind model.SourceKind, limit int) report.Report {
	return a.Analyze(bytes.NewReader(content), kind, limit)
}

// Run performs one full pass and returns the Report with the data behind
// it. Terminal errors yield an error-only Report and no transactions.
func (a *Analyzer) Run(src io.Reader, kind model.SourceKind, limit int) Outcome {
	log := a.log.With().Str("kind", string(kind)).Logger()
	if limit < 0 {
		limit = 0
	}

	table, err := a.registry.Read(src, kind)
	if err != nil {
		log.Warn().Err(err).Msg("reading content failed")
		return Outcome{Report: report.Failed(err)}
	}
	log.Debug().Int("rows", len(table.Rows)).Int("columns", len(table.Headers)).Msg("table read")

	var (
		txns      []model.Transaction
		rowErrs   []model.RowError
		missing   []schema.Field
		accountOK bool
	)

	if kind == model.KindBudgetGrid {
		res, err := budget.Reshape(kind, table, a.layout)
		if err != nil {
			log.Warn().Err(err).Msg("reshaping budget grid failed")
			return Outcome{Report: report.Failed(err), Rows: len(table.Rows)}
		}
		txns, rowErrs = res.Transactions, res.RowErrors
		log.Debug().Int("records", len(txns)).Int("skipped_cells", len(rowErrs)).Msg("budget grid melted")
	} else {
		s, err := schema.Resolve(table.Headers, a.aliases)
		if err != nil {
			log.Warn().Err(err).Strs("headers", table.Headers).Msg("resolving columns failed")
			return Outcome{Report: report.Failed(err), Rows: len(table.Rows)}
		}
		logBindings(log, s)

		res := normalize.Normalizer{Schema: s, Classifier: a.classifier}.Run(table)
		txns, rowErrs = res.Transactions, res.RowErrors
		missing = s.Missing()
		accountOK = s.Has(schema.FieldAccount)
		log.Debug().Int("kept", len(txns)).Int("dropped", len(rowErrs)).Int("blank", res.Blank).Msg("rows normalized")
		for _, e := range rowErrs {
			log.Debug().Int("row", e.Row).Str("field", e.Field).Str("value", e.Value).Err(e.Err).Msg("row dropped")
		}
	}

	agg := aggregate.Aggregate(txns, aggregate.Options{DetailLimit: limit, AccountResolved: accountOK})
	rep := report.Assemble(agg, report.Warnings(rowErrs, missing, a.aliases), a.symbol)

	log.Info().
		Int("transactions", len(txns)).
		Int("dropped", len(rowErrs)).
		Str("balance", rep.Summary.Balance).
		Msg("analysis complete")

	return Outcome{Report: rep, Transactions: txns, RowErrors: rowErrs, Rows: len(table.Rows)}
}

func logBindings(log zerolog.Logger, s schema.Schema) {
	ev := log.Debug()
	for _, f := range schema.Fields() {
		if b, ok := s.Binding(f); ok {
			ev = ev.Str(string(f), b.Header)
		}
	}
	ev.Msg("columns resolved")
}
