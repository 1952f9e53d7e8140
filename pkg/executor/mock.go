package executor

import (
	"context"

	"github.com/homewiz/query-engine/pkg/models"
)

// MockExecutor is a test double for the Executor interface. Behavior is
// customized by setting the function fields; unset fields return an empty
// successful result.
type MockExecutor struct {
	ExecuteFunc       func(ctx context.Context, sqlText string, args ...any) (*models.ExecutionResult, error)
	ExecuteUpdateFunc func(ctx context.Context, spec *models.UpdateSpec) (*models.ExecutionResult, error)

	// Call tracking
	ExecuteCalls       int
	ExecuteUpdateCalls int
	ExecutedSQL        []string
	UpdateSpecs        []*models.UpdateSpec
}

var _ Executor = (*MockExecutor)(nil)

// NewMockExecutor creates a mock that succeeds with no rows by default.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// Execute records the call and delegates to ExecuteFunc.
func (m *MockExecutor) Execute(ctx context.Context, sqlText string, args ...any) (*models.ExecutionResult, error) {
	m.ExecuteCalls++
	m.ExecutedSQL = append(m.ExecutedSQL, sqlText)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, sqlText, args...)
	}
	return &models.ExecutionResult{Success: true, Columns: []string{}}, nil
}

// ExecuteUpdate records the call and delegates to ExecuteUpdateFunc.
func (m *MockExecutor) ExecuteUpdate(ctx context.Context, spec *models.UpdateSpec) (*models.ExecutionResult, error) {
	m.ExecuteUpdateCalls++
	m.UpdateSpecs = append(m.UpdateSpecs, spec)
	if m.ExecuteUpdateFunc != nil {
		return m.ExecuteUpdateFunc(ctx, spec)
	}
	return &models.ExecutionResult{Success: true}, nil
}

// Close is a no-op.
func (m *MockExecutor) Close() {}

// Reset clears call tracking between test cases.
func (m *MockExecutor) Reset() {
	m.ExecuteCalls = 0
	m.ExecuteUpdateCalls = 0
	m.ExecutedSQL = nil
	m.UpdateSpecs = nil
}

// ReturnRows configures the mock to return the given rows for every Execute.
func (m *MockExecutor) ReturnRows(rows []map[string]any, columns []string) *MockExecutor {
	m.ExecuteFunc = func(ctx context.Context, sqlText string, args ...any) (*models.ExecutionResult, error) {
		return &models.ExecutionResult{
			Success:  true,
			Data:     rows,
			RowCount: len(rows),
			Columns:  columns,
		}, nil
	}
	return m
}

// FailWith configures the mock to report a failed execution.
func (m *MockExecutor) FailWith(message string) *MockExecutor {
	m.ExecuteFunc = func(ctx context.Context, sqlText string, args ...any) (*models.ExecutionResult, error) {
		return &models.ExecutionResult{Success: false, Error: message}, nil
	}
	return m
}
