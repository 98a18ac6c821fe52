// Package ingest reads raw file content into a model.RawTable according to
// a declared source kind.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

// Reader converts content of one source kind into a RawTable.
type Reader interface {
	Read(content []byte) (model.RawTable, error)
	Kind() model.SourceKind
}

// Options configures the built-in readers.
type Options struct {
	Delimiter rune   // 0 sniffs the delimiter from the header line
	Sheet     string // empty selects the first sheet
}

// Registry holds readers keyed by source kind.
type Registry struct {
	readers map[model.SourceKind]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[model.SourceKind]Reader)}
}

// Register adds a reader. Panics on duplicate kind.
func (r *Registry) Register(rd Reader) {
	kind := rd.Kind()
	if _, ok := r.readers[kind]; ok {
		panic("duplicate reader kind: " + string(kind))
	}
	r.readers[kind] = rd
}

// Get returns the reader for kind, or nil.
func (r *Registry) Get(kind model.SourceKind) Reader {
	return r.readers[kind]
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{Delimiter: opts.Delimiter})
	r.Register(&SheetReader{Sheet: opts.Sheet})
	r.Register(&SheetReader{Sheet: opts.Sheet, Grid: true})
	return r
}

// Read consumes src and dispatches it to the reader registered for kind.
func (r *Registry) Read(src io.Reader, kind model.SourceKind) (model.RawTable, error) {
	rd := r.Get(kind)
	if rd == nil {
		return model.RawTable{}, fmt.Errorf("%w: unsupported source kind %q", model.ErrFormat, kind)
	}
	if src == nil {
		return model.RawTable{}, fmt.Errorf("%w: no content", model.ErrIO)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return model.RawTable{}, fmt.Errorf("%w: reading content: %v", model.ErrIO, err)
	}
	return rd.Read(buf.Bytes())
}

// FileInfo describes an importable file.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

var extensions = map[string]bool{".csv": true, ".txt": true, ".xlsx": true}

// KindFromPath infers the source kind from a file extension. Workbooks are
// read as budget grids when budget is set.
func KindFromPath(path string, budget bool) (model.SourceKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return model.KindDelimited, nil
	case ".xlsx", ".xlsm":
		if budget {
			return model.KindBudgetGrid, nil
		}
		return model.KindFlatSheet, nil
	}
	return "", fmt.Errorf("%w: cannot infer source kind of %s", model.ErrFormat, filepath.Base(path))
}

// Scan returns the importable files in dir, sorted by name. A missing
// directory yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
