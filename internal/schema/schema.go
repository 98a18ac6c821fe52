package schema

import (
	"fmt"
	"strings"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

// Field is a canonical semantic column.
type Field string

const (
	FieldAmount      Field = "amount"
	FieldDate        Field = "date"
	FieldType        Field = "type"
	FieldAccount     Field = "account"
	FieldDescription Field = "description"
)

// Fields returns the canonical fields in resolution order.
func Fields() []Field {
	return []Field{FieldAmount, FieldDate, FieldType, FieldAccount, FieldDescription}
}

// Required reports whether resolution fails without this field.
func (f Field) Required() bool {
	return f == FieldAmount || f == FieldDate
}

// Aliases maps each field to its accepted header spellings, highest
// priority first.
type Aliases map[Field][]string

// DefaultAliases returns the built-in alias table.
func DefaultAliases() Aliases {
	return Aliases{
		FieldAmount:      {"valor", "quantia", "montante", "amount", "value"},
		FieldDate:        {"data", "data_transacao", "data_pagamento", "data_recebimento", "date"},
		FieldType:        {"tipo", "categoria", "natureza", "type"},
		FieldAccount:     {"conta", "conta_bancaria", "banco", "account"},
		FieldDescription: {"descricao", "historico", "descricao_transacao", "detalhes", "estabelecimento", "description", "memo"},
	}
}

// Merge returns a copy of a where every field present in overrides has
// its list replaced.
func (a Aliases) Merge(overrides map[string][]string) Aliases {
	out := make(Aliases, len(a))
	for f, list := range a {
		out[f] = append([]string(nil), list...)
	}
	for name, list := range overrides {
		if len(list) == 0 {
			continue
		}
		out[Field(strings.ToLower(name))] = append([]string(nil), list...)
	}
	return out
}

// Binding ties a field to a source column.
type Binding struct {
	Field  Field
	Column int
	Header string // raw header text
}

// Schema is the result of resolving a header row.
type Schema struct {
	bindings map[Field]Binding
}

// Binding returns the binding for f.
func (s Schema) Binding(f Field) (Binding, bool) {
	b, ok := s.bindings[f]
	return b, ok
}

// Has reports whether f was resolved.
func (s Schema) Has(f Field) bool {
	_, ok := s.bindings[f]
	return ok
}

// Missing returns the unresolved optional fields in canonical order.
func (s Schema) Missing() []Field {
	var out []Field
	for _, f := range Fields() {
		if !s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Resolve binds canonical fields to columns of headers. Fields resolve in
// canonical order and a column taken by an earlier field is never re-bound.
// A missing required field fails with model.ErrSchema.
func Resolve(headers []string, aliases Aliases) (Schema, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	s := Schema{bindings: make(map[Field]Binding)}
	taken := make(map[int]bool)
	var missing []string

	for _, f := range Fields() {
		col := find(normalized, aliases[f], taken)
		if col < 0 {
			if f.Required() {
				missing = append(missing, fmt.Sprintf("%s (tried: %s)", f, strings.Join(aliases[f], ", ")))
			}
			continue
		}
		taken[col] = true
		s.bindings[f] = Binding{Field: f, Column: col, Header: headers[col]}
	}

	if len(missing) > 0 {
		return Schema{}, fmt.Errorf("%w: required column not found: %s", model.ErrSchema, strings.Join(missing, "; "))
	}
	return s, nil
}

func find(normalized, aliases []string, taken map[int]bool) int {
	for _, alias := range aliases {
		want := NormalizeHeader(alias)
		for i, h := range normalized {
			if h == want && !taken[i] {
				return i
			}
		}
	}
	return -1
}
