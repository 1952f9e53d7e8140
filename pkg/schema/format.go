package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FormatForSQL renders the catalog as exact table/column text for SQL
// generation prompts. The model is told to use only these names.
func (r *Registry) FormatForSQL(tables []string) string {
	var b strings.Builder

	for _, name := range sortedSubset(r, tables) {
		t := r.Tables[name]

		if t.Alias != "" {
			fmt.Fprintf(&b, "TABLE: %s (alias: %s)\n", name, t.Alias)
		} else {
			fmt.Fprintf(&b, "TABLE: %s\n", name)
		}
		fmt.Fprintf(&b, "  Description: %s\n", t.Description)
		b.WriteString("  COLUMNS:\n")

		for _, colName := range t.ColumnNames() {
			col := t.Columns[colName]
			flags := ""
			if col.PrimaryKey {
				flags += " [PK]"
			}
			if col.ForeignKey != "" {
				flags += fmt.Sprintf(" [FK -> %s]", col.ForeignKey)
			}
			fmt.Fprintf(&b, "    %s: %s%s\n", colName, col.Type, flags)
		}

		if len(t.Relationships) > 0 {
			b.WriteString("  RELATIONSHIPS:\n")
			for _, rel := range t.Relationships {
				fmt.Fprintf(&b, "    %s %s via %s\n", rel.Type, rel.Target, rel.Via)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatEnumValues renders the enumerated valid values for the given tables.
// Values are case-sensitive; the model must use them verbatim.
func (r *Registry) FormatEnumValues(tables []string) string {
	var b strings.Builder

	for _, name := range sortedSubset(r, tables) {
		t := r.Tables[name]
		for _, colName := range t.ColumnNames() {
			col := t.Columns[colName]
			if len(col.EnumValues) == 0 {
				continue
			}
			quoted := make([]string, len(col.EnumValues))
			for i, v := range col.EnumValues {
				quoted[i] = "'" + v + "'"
			}
			fmt.Fprintf(&b, "%s.%s: %s\n", name, colName, strings.Join(quoted, ", "))
		}
	}

	return b.String()
}

// FormatForUpdates renders only the updateable columns (primary keys and
// auto-generated timestamps excluded) for structured update prompts.
func (r *Registry) FormatForUpdates(tables []string) string {
	var b strings.Builder

	for _, name := range sortedSubset(r, tables) {
		t := r.Tables[name]

		fmt.Fprintf(&b, "TABLE: %s\n", name)
		fmt.Fprintf(&b, "  Description: %s\n", t.Description)
		b.WriteString("  UPDATEABLE COLUMNS:\n")

		for _, colName := range t.ColumnNames() {
			col := t.Columns[colName]
			if col.PrimaryKey || colName == "created_at" || colName == "last_modified" {
				continue
			}
			fmt.Fprintf(&b, "    %s: %s (%s)\n", colName, col.Type, typeHint(col.Type))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// typeHint maps a SQL type to the JSON value kind the model should emit.
func typeHint(sqlType string) string {
	upper := strings.ToUpper(sqlType)
	switch {
	case strings.Contains(upper, "BOOLEAN"):
		return "boolean"
	case strings.Contains(upper, "BIGINT"), strings.Contains(upper, "INTEGER"):
		return "integer"
	case strings.Contains(upper, "DOUBLE"), strings.Contains(upper, "NUMERIC"):
		return "number"
	case strings.Contains(upper, "TIMESTAMP"):
		return "string (ISO format)"
	case strings.Contains(upper, "JSONB"):
		return "object"
	default:
		return "string"
	}
}

// sortedSubset returns the given table names that exist in the catalog, in
// sorted order. An empty input means every table.
func sortedSubset(r *Registry, tables []string) []string {
	if len(tables) == 0 {
		return r.TableNames()
	}
	var names []string
	for _, name := range tables {
		if r.HasTable(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
