// Package executor runs validated SQL against PostgreSQL and returns rows in
// the shape the pipeline works with.
package executor

import (
	"context"

	"github.com/homewiz/query-engine/pkg/models"
)

// Executor is the contract between the query pipeline and the store.
// Implementations never return a Go error for a statement that ran and
// failed; failures are reported inside the ExecutionResult so the pipeline
// can degrade instead of crashing.
type Executor interface {
	// Execute runs one read statement with positional arguments.
	Execute(ctx context.Context, sqlText string, args ...any) (*models.ExecutionResult, error)

	// ExecuteUpdate compiles and runs a structured update, returning the
	// number of rows affected in RowCount.
	ExecuteUpdate(ctx context.Context, spec *models.UpdateSpec) (*models.ExecutionResult, error)

	// Close releases the underlying pool.
	Close()
}
