package executor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/models"
)

// operatorSQL maps the structured condition operators to their SQL form.
// "in" and "is" need special argument handling and are compiled separately.
var operatorSQL = map[string]string{
	"eq":    "=",
	"neq":   "!=",
	"gt":    ">",
	"gte":   ">=",
	"lt":    "<",
	"lte":   "<=",
	"like":  "LIKE",
	"ilike": "ILIKE",
}

// CompileUpdate turns a structured update into a parameterized UPDATE
// statement with positional arguments. SET columns are emitted in sorted
// order so the same spec always compiles to the same SQL.
func CompileUpdate(spec *models.UpdateSpec) (string, []any, error) {
	if spec.Table == "" {
		return "", nil, fmt.Errorf("update spec has no table")
	}
	if len(spec.UpdateData) == 0 {
		return "", nil, fmt.Errorf("update spec for %s has no columns to set", spec.Table)
	}
	if len(spec.WhereConditions) == 0 {
		return "", nil, apperrors.ErrMissingWhereClause
	}

	var b strings.Builder
	var args []any

	fmt.Fprintf(&b, "UPDATE %s SET ", spec.Table)

	columns := make([]string, 0, len(spec.UpdateData))
	for col := range spec.UpdateData {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		args = append(args, spec.UpdateData[col])
		fmt.Fprintf(&b, "%s = $%d", col, len(args))
	}

	b.WriteString(" WHERE ")
	for i, cond := range spec.WhereConditions {
		if i > 0 {
			b.WriteString(" AND ")
		}
		clause, err := compileCondition(cond, &args)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(clause)
	}

	return b.String(), args, nil
}

// compileCondition renders one WHERE condition, appending its arguments.
func compileCondition(cond models.Condition, args *[]any) (string, error) {
	switch cond.Operator {
	case "in":
		*args = append(*args, cond.Value)
		return fmt.Sprintf("%s = ANY($%d)", cond.Column, len(*args)), nil
	case "is":
		return compileNullCheck(cond)
	default:
		op, ok := operatorSQL[cond.Operator]
		if !ok {
			return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidOperator, cond.Operator)
		}
		*args = append(*args, cond.Value)
		return fmt.Sprintf("%s %s $%d", cond.Column, op, len(*args)), nil
	}
}

// compileNullCheck handles the "is" operator, which only supports NULL tests.
func compileNullCheck(cond models.Condition) (string, error) {
	switch v := cond.Value.(type) {
	case nil:
		return fmt.Sprintf("%s IS NULL", cond.Column), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "null":
			return fmt.Sprintf("%s IS NULL", cond.Column), nil
		case "not null":
			return fmt.Sprintf("%s IS NOT NULL", cond.Column), nil
		}
	}
	return "", fmt.Errorf("%w: operator \"is\" requires null or not null, got %v",
		apperrors.ErrInvalidOperator, cond.Value)
}
