package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery         = errors.New("query text is empty")
	ErrFunctionNotFound   = errors.New("function not found in registry")
	ErrUnroutableQuery    = errors.New("query matches no registered function")
	ErrForbiddenKeyword   = errors.New("forbidden SQL keyword")
	ErrMissingWhereClause = errors.New("UPDATE statement requires a WHERE clause")
	ErrPrimaryKeyUpdate   = errors.New("cannot update primary key column")
	ErrTableNotAllowed    = errors.New("table not allowed for this permission level")
	ErrUnknownTable       = errors.New("table does not exist in schema")
	ErrUnknownColumn      = errors.New("column does not exist in table")
	ErrUnknownInsightType = errors.New("unknown insight type")
	ErrInvalidOperator    = errors.New("invalid condition operator")
	ErrNoSQLGenerated     = errors.New("no SQL statement in model response")
	ErrInjectionDetected  = errors.New("SQL injection pattern detected in value")
)

// FunctionNotFoundError reports a routing decision naming a function outside
// the registry. Its message is the exact text shown in the response envelope.
type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("Function '%s' not found in registry", e.Name)
}

// Unwrap lets errors.Is match against ErrFunctionNotFound.
func (e *FunctionNotFoundError) Unwrap() error {
	return ErrFunctionNotFound
}
