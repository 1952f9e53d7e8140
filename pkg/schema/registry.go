// Package schema holds the immutable catalog of tables, columns, and
// enumerated values that generated SQL is validated against. The registry is
// loaded once at startup and never mutated, so concurrent reads need no
// synchronization.
package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var schemaYAML []byte

// Column describes one column in the catalog.
type Column struct {
	Type       string   `yaml:"type"`
	PrimaryKey bool     `yaml:"primary_key"`
	Nullable   bool     `yaml:"nullable"`
	ForeignKey string   `yaml:"foreign_key"` // "table.column" if set
	EnumValues []string `yaml:"enum_values"`
}

// Relationship describes how one table relates to another.
type Relationship struct {
	Type   string `yaml:"type"` // many_to_one, one_to_many
	Target string `yaml:"target"`
	Via    string `yaml:"via"` // foreign key column
}

// Table describes one table in the catalog.
type Table struct {
	Description   string            `yaml:"description"`
	Alias         string            `yaml:"alias"`
	Columns       map[string]Column `yaml:"columns"`
	Relationships []Relationship    `yaml:"relationships"`
}

// ColumnNames returns the table's column names in sorted order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for name := range t.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrimaryKey returns the name of the table's primary key column, or empty.
func (t *Table) PrimaryKey() string {
	for name, col := range t.Columns {
		if col.PrimaryKey {
			return name
		}
	}
	return ""
}

// Registry is the loaded catalog. Immutable after Load.
type Registry struct {
	Tables map[string]Table `yaml:"tables"`
}

// Load parses the embedded catalog. Called once at startup.
func Load() (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(schemaYAML, &reg); err != nil {
		return nil, fmt.Errorf("parse schema catalog: %w", err)
	}
	if len(reg.Tables) == 0 {
		return nil, fmt.Errorf("schema catalog has no tables")
	}
	return &reg, nil
}

// MustLoad is Load for main wiring; panics on a broken embedded catalog.
func MustLoad() *Registry {
	reg, err := Load()
	if err != nil {
		panic(err)
	}
	return reg
}

// TableNames returns all table names in sorted order.
func (r *Registry) TableNames() []string {
	names := make([]string, 0, len(r.Tables))
	for name := range r.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTable reports whether the table exists in the catalog.
func (r *Registry) HasTable(name string) bool {
	_, ok := r.Tables[name]
	return ok
}

// Table returns the named table.
func (r *Registry) Table(name string) (Table, bool) {
	t, ok := r.Tables[name]
	return t, ok
}

// HasColumn reports whether the column exists on the table.
func (r *Registry) HasColumn(table, column string) bool {
	t, ok := r.Tables[table]
	if !ok {
		return false
	}
	_, ok = t.Columns[column]
	return ok
}

// IsPrimaryKey reports whether the column is the table's primary key.
func (r *Registry) IsPrimaryKey(table, column string) bool {
	t, ok := r.Tables[table]
	if !ok {
		return false
	}
	col, ok := t.Columns[column]
	return ok && col.PrimaryKey
}

// EnumValues returns the enumerated values for a column, or nil if the
// column is unconstrained.
func (r *Registry) EnumValues(table, column string) []string {
	t, ok := r.Tables[table]
	if !ok {
		return nil
	}
	col, ok := t.Columns[column]
	if !ok {
		return nil
	}
	return col.EnumValues
}

// ValidateValue checks a value against a column's enumerated values. For
// unconstrained columns any value is accepted as-is. For enum columns an
// exact match passes through; a case-insensitive match is corrected to the
// canonical casing; anything else is rejected. Rejected values must never be
// forwarded into a typed SQL predicate.
func (r *Registry) ValidateValue(table, column, value string) (string, bool) {
	values := r.EnumValues(table, column)
	if len(values) == 0 {
		return value, true
	}

	for _, v := range values {
		if v == value {
			return v, true
		}
	}
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return v, true
		}
	}

	return "", false
}
