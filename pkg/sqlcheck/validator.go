// Package sqlcheck validates generated SQL before it can reach the store.
// Destructive keywords and undisciplined UPDATE statements are fatal;
// references to tables outside the caller's whitelist are warnings that the
// generator uses to drive its single regeneration attempt.
package sqlcheck

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/schema"
)

var (
	// ErrMultipleStatements indicates the query contains multiple SQL statements.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
)

// ForbiddenKeywords are never allowed in generated SQL, in any position.
var ForbiddenKeywords = []string{"DROP", "TRUNCATE", "ALTER", "CREATE", "EXEC", "EXECUTE"}

var (
	forbiddenPattern = regexp.MustCompile(`(?i)\b(DROP|TRUNCATE|ALTER|CREATE|EXEC|EXECUTE)\b`)

	// tableRefPattern captures identifiers in table positions.
	tableRefPattern = regexp.MustCompile(`(?i)\b(?:FROM|JOIN|UPDATE|INTO)\s+([A-Za-z_][A-Za-z0-9_]*)`)

	updatePattern    = regexp.MustCompile(`(?i)^\s*UPDATE\s+([A-Za-z_][A-Za-z0-9_]*)`)
	wherePattern     = regexp.MustCompile(`(?i)\bWHERE\b`)
	setClausePattern = regexp.MustCompile(`(?i)\bSET\b(.*?)(?:\bWHERE\b|$)`)
	assignPattern    = regexp.MustCompile(`(?i)(?:^|,)\s*([A-Za-z_][A-Za-z0-9_]*)\s*=`)
)

// Result is the outcome of validating one statement. Fatal violations mean
// the statement must never execute. Warnings are recoverable through a
// single regeneration.
type Result struct {
	NormalizedSQL string
	Fatal         []error
	Warnings      []string
}

// OK reports whether the statement passed with no fatal violations.
func (r *Result) OK() bool {
	return len(r.Fatal) == 0
}

// Clean reports whether the statement passed with no violations at all.
func (r *Result) Clean() bool {
	return len(r.Fatal) == 0 && len(r.Warnings) == 0
}

// FatalError joins the fatal violations into one error, or nil.
func (r *Result) FatalError() error {
	if len(r.Fatal) == 0 {
		return nil
	}
	return errors.Join(r.Fatal...)
}

// Validator checks generated SQL against the catalog and a permission-based
// table whitelist.
type Validator struct {
	registry *schema.Registry
}

// NewValidator creates a validator over the given catalog.
func NewValidator(registry *schema.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate normalizes the statement and applies every check:
// single statement, forbidden keywords, UPDATE discipline, and the table
// whitelist. Whitelist violations land in Warnings; everything else is Fatal.
func (v *Validator) Validate(sqlText string, allowedTables []string) *Result {
	result := &Result{}

	normalized := ValidateAndNormalize(sqlText)
	if normalized.Error != nil {
		result.Fatal = append(result.Fatal, normalized.Error)
		return result
	}
	result.NormalizedSQL = normalized.NormalizedSQL

	if result.NormalizedSQL == "" {
		result.Fatal = append(result.Fatal, apperrors.ErrNoSQLGenerated)
		return result
	}

	if kw := FindForbiddenKeyword(result.NormalizedSQL); kw != "" {
		result.Fatal = append(result.Fatal,
			fmt.Errorf("%w: %s", apperrors.ErrForbiddenKeyword, kw))
	}

	if errs := v.checkUpdateDiscipline(result.NormalizedSQL); len(errs) > 0 {
		result.Fatal = append(result.Fatal, errs...)
	}

	for _, table := range TableRefs(result.NormalizedSQL) {
		if !schema.IsTableAllowed(table, allowedTables) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("table %q is outside the allowed set %v", table, allowedTables))
		}
	}

	return result
}

// checkUpdateDiscipline enforces the UPDATE rules: at least one WHERE
// condition, and no assignment to the target table's primary key.
func (v *Validator) checkUpdateDiscipline(sqlText string) []error {
	m := updatePattern.FindStringSubmatch(sqlText)
	if m == nil {
		return nil
	}
	table := m[1]

	var errs []error

	if !wherePattern.MatchString(sqlText) {
		errs = append(errs, apperrors.ErrMissingWhereClause)
	}

	if set := setClausePattern.FindStringSubmatch(sqlText); set != nil {
		for _, assign := range assignPattern.FindAllStringSubmatch(set[1], -1) {
			column := assign[1]
			if v.registry.IsPrimaryKey(table, column) {
				errs = append(errs, fmt.Errorf("%w: %s.%s", apperrors.ErrPrimaryKeyUpdate, table, column))
			}
		}
	}

	return errs
}

// FindForbiddenKeyword returns the first forbidden keyword present in the
// statement, or empty. The match is case-insensitive on word boundaries, so
// column names like "created_at" never trip it.
func FindForbiddenKeyword(sqlText string) string {
	m := forbiddenPattern.FindString(sqlText)
	return strings.ToUpper(m)
}

// TableRefs returns the distinct identifiers appearing in table positions
// (FROM/JOIN/UPDATE/INTO), in order of first appearance.
func TableRefs(sqlText string) []string {
	seen := make(map[string]bool)
	var tables []string
	for _, m := range tableRefPattern.FindAllStringSubmatch(sqlText, -1) {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			tables = append(tables, name)
		}
	}
	return tables
}

// ValidationResult contains the normalized SQL and any normalization error.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateAndNormalize checks SQL for multiple statements and strips the
// trailing semicolon.
func ValidateAndNormalize(sqlQuery string) ValidationResult {
	sqlQuery = strings.TrimSpace(sqlQuery)

	if sqlQuery == "" {
		return ValidationResult{NormalizedSQL: sqlQuery}
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	// Any semicolon remaining after normalization means multiple statements
	if hasSemicolonOutsideStrings(normalized) {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handle both backslash escape (\') and SQL standard escape ('')
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes a trailing semicolon and surrounding whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")

	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}

	return sqlQuery
}
