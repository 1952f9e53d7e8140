package models

import "encoding/json"

// SQLSpec is the generator's output: SQL text plus the metadata needed to
// validate it against the schema and permission whitelist. Once a spec has
// passed validation, SQLText contains a single statement with no banned
// keywords and, for UPDATE, at least one WHERE condition.
type SQLSpec struct {
	SQLText          string   `json:"sql"`
	TablesUsed       []string `json:"tables_used,omitempty"`
	Explanation      string   `json:"explanation,omitempty"`
	EstimatedRows    int      `json:"estimated_rows,omitempty"`
	ValidationErrors []string `json:"-"`
	Regenerated      bool     `json:"-"`
}

// Operators accepted in structured update conditions.
var ValidConditionOperators = []string{
	"eq", "neq", "gt", "gte", "lt", "lte", "like", "ilike", "in", "is",
}

// IsValidConditionOperator reports whether op is an accepted operator.
func IsValidConditionOperator(op string) bool {
	for _, v := range ValidConditionOperators {
		if op == v {
			return true
		}
	}
	return false
}

// Condition is one WHERE predicate in a structured update:
// column, operator, value. The wire form is a 3-element array.
type Condition struct {
	Column   string `json:"-"`
	Operator string `json:"-"`
	Value    any    `json:"-"`
}

// UnmarshalJSON accepts the [column, operator, value] array form.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var arr [3]any
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	col, _ := arr[0].(string)
	op, _ := arr[1].(string)
	c.Column = col
	c.Operator = op
	c.Value = arr[2]
	return nil
}

// MarshalJSON renders the [column, operator, value] array form.
func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{c.Column, c.Operator, c.Value})
}

// UpdateSpec is a structured update request. It is compiled to a
// parameterized UPDATE by the executor; free-text UPDATE SQL is never built
// from it. WhereConditions must be non-empty before execution.
type UpdateSpec struct {
	Table           string         `json:"table"`
	UpdateData      map[string]any `json:"update_data"`
	WhereConditions []Condition    `json:"where_conditions"`
	Explanation     string         `json:"explanation"`
	EstimatedRows   int            `json:"estimated_rows,omitempty"`
}
