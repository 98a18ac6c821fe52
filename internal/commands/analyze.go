package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Wozniak7/Analisador-Financeiro/internal/analysis"
	"github.com/Wozniak7/Analisador-Financeiro/internal/export"
	"github.com/Wozniak7/Analisador-Financeiro/internal/ingest"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/report"
	"github.com/Wozniak7/Analisador-Financeiro/internal/runlog"
)

type analyzeOptions struct {
	dir     string
	kind    string
	budget  bool
	limit   int
	format  string
	export  string
	history bool
	jobs    int
}

func newAnalyzeCommand(global *globalOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze statements and print a financial report for each",
		Long: `Analyze reads each file, normalizes its rows into transactions and prints
a report with totals per type, month, account and description.

With no files, every .csv, .txt and .xlsx file in the import directory is
analyzed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				opts.limit = -1
			}
			return runAnalyze(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "analyze every supported file in this directory (default: input.import_dir)")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "source kind: csv, xlsx or budget (default: inferred from the extension)")
	cmd.Flags().BoolVar(&opts.budget, "budget", false, "read workbooks as budget grids")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "detail rows listed per type, 0 for all (default: report.detail_limit)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text or json")
	cmd.Flags().StringVar(&opts.export, "export", "", "write the normalized transactions to this CSV file")
	cmd.Flags().BoolVar(&opts.history, "history", false, "append each run to logs/analysis-log.csv")
	cmd.Flags().IntVar(&opts.jobs, "jobs", runtime.NumCPU(), "files analyzed concurrently")

	return cmd
}

func runAnalyze(cmd *cobra.Command, global *globalOptions, opts *analyzeOptions, files []string) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", opts.format)
	}

	cfg, log, err := global.setup(cmd)
	if err != nil {
		return err
	}

	var kind model.SourceKind
	if opts.kind != "" {
		if kind, err = model.ParseSourceKind(opts.kind); err != nil {
			return err
		}
	}

	limit := opts.limit
	if limit < 0 {
		limit = cfg.Report.DetailLimit
	}

	if len(files) == 0 || opts.dir != "" {
		dir := opts.dir
		if dir == "" {
			dir = cfg.Input.ImportDir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(global.projectDir(), dir)
			}
		}
		found, err := ingest.Scan(dir)
		if err != nil {
			return err
		}
		if len(found) == 0 && len(files) == 0 {
			return fmt.Errorf("no files to analyze in %s", dir)
		}
		for _, f := range found {
			files = append(files, f.Path)
		}
	}

	analyzer := analysis.New(cfg, log)
	outcomes := make([]analysis.Outcome, len(files))

	var g errgroup.Group
	g.SetLimit(max(opts.jobs, 1))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = analyzer.RunSource(analysis.FileProvider{Path: path, Kind: kind, Budget: opts.budget}, limit)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, o := range outcomes {
		if err := o.Report.Err(); err != nil {
			log.Error().Err(err).Str("file", files[i]).Msg("analysis failed")
			failed++
		}
		if err := present(cmd.OutOrStdout(), opts.format, filepath.Base(files[i]), o.Report); err != nil {
			return err
		}
	}

	if opts.export != "" {
		var txns []model.Transaction
		for _, o := range outcomes {
			txns = append(txns, o.Transactions...)
		}
		if err := export.WriteFile(opts.export, txns); err != nil {
			return err
		}
		log.Info().Str("path", opts.export).Int("transactions", len(txns)).Msg("exported transactions")
	}

	if opts.history {
		if err := runlog.Append(global.projectDir(), historyEntries(files, outcomes, kind, opts.budget)); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func present(w io.Writer, format, title string, r report.Report) error {
	var sink report.PresentationSink = report.TextSink{W: w, Title: title}
	if format == "json" {
		sink = report.JSONSink{W: w, Indent: true}
	}
	return sink.Present(r)
}

func historyEntries(files []string, outcomes []analysis.Outcome, kind model.SourceKind, budget bool) []runlog.Entry {
	now := time.Now().UTC()
	entries := make([]runlog.Entry, 0, len(files))
	for i, o := range outcomes {
		k := kind
		if k == "" {
			k, _ = ingest.KindFromPath(files[i], budget)
		}
		e := runlog.Entry{
			Timestamp: now,
			Source:    filepath.Base(files[i]),
			Kind:      string(k),
			Rows:      o.Rows,
			Dropped:   len(o.RowErrors),
			Balance:   o.Report.Summary.Balance,
		}
		if o.Report.HasError() {
			e.Error = o.Report.Error.Message
		}
		entries = append(entries, e)
	}
	return entries
}
