package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Wozniak7/Analisador-Financeiro/internal/ingest"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/report"
)

// ContentProvider supplies raw content and its declared kind.
type ContentProvider interface {
	Name() string
	Open() (io.ReadCloser, model.SourceKind, error)
}

// FileProvider serves a file from disk. Kind overrides inference from the
// extension; Budget reads workbooks as budget grids.
type FileProvider struct {
	Path   string
	Kind   model.SourceKind
	Budget bool
}

// Name returns the file's base name.
func (p FileProvider) Name() string { return filepath.Base(p.Path) }

// Open opens the file and resolves its kind.
func (p FileProvider) Open() (io.ReadCloser, model.SourceKind, error) {
	kind := p.Kind
	if kind == "" {
		k, err := ingest.KindFromPath(p.Path, p.Budget)
		if err != nil {
			return nil, "", err
		}
		kind = k
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", model.ErrIO, err)
	}
	return f, kind, nil
}

// RunSource opens p and runs the pipeline over its content.
func (a *Analyzer) RunSource(p ContentProvider, limit int) Outcome {
	rc, kind, err := p.Open()
	if err != nil {
		a.log.Warn().Err(err).Str("source", p.Name()).Msg("opening source failed")
		return Outcome{Report: report.Failed(err)}
	}
	defer rc.Close()

	a.log.Debug().Str("source", p.Name()).Msg("analyzing")
	return a.Run(rc, kind, limit)
}
