package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/models"
)

func TestCompileUpdateBasic(t *testing.T) {
	spec := &models.UpdateSpec{
		Table: "rooms",
		UpdateData: map[string]any{
			"status": "Maintenance",
		},
		WhereConditions: []models.Condition{
			{Column: "room_number", Operator: "eq", Value: "301"},
		},
	}

	sqlText, args, err := CompileUpdate(spec)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE rooms SET status = $1 WHERE room_number = $2", sqlText)
	assert.Equal(t, []any{"Maintenance", "301"}, args)
}

func TestCompileUpdateMultipleColumnsSorted(t *testing.T) {
	spec := &models.UpdateSpec{
		Table: "rooms",
		UpdateData: map[string]any{
			"status":        "Available",
			"ready_to_rent": true,
		},
		WhereConditions: []models.Condition{
			{Column: "room_id", Operator: "eq", Value: "r1"},
		},
	}

	sqlText, args, err := CompileUpdate(spec)
	require.NoError(t, err)

	// Columns are emitted in sorted order regardless of map iteration
	assert.Equal(t, "UPDATE rooms SET ready_to_rent = $1, status = $2 WHERE room_id = $3", sqlText)
	assert.Equal(t, []any{true, "Available", "r1"}, args)
}

func TestCompileUpdateOperators(t *testing.T) {
	tests := []struct {
		name       string
		cond       models.Condition
		wantClause string
		wantArg    any
	}{
		{
			name:       "neq",
			cond:       models.Condition{Column: "status", Operator: "neq", Value: "Occupied"},
			wantClause: "WHERE status != $2",
			wantArg:    "Occupied",
		},
		{
			name:       "gte",
			cond:       models.Condition{Column: "floor_number", Operator: "gte", Value: 3},
			wantClause: "WHERE floor_number >= $2",
			wantArg:    3,
		},
		{
			name:       "ilike",
			cond:       models.Condition{Column: "room_number", Operator: "ilike", Value: "3%"},
			wantClause: "WHERE room_number ILIKE $2",
			wantArg:    "3%",
		},
		{
			name:       "in uses ANY",
			cond:       models.Condition{Column: "status", Operator: "in", Value: []string{"Available", "Occupied"}},
			wantClause: "WHERE status = ANY($2)",
			wantArg:    []string{"Available", "Occupied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &models.UpdateSpec{
				Table:           "rooms",
				UpdateData:      map[string]any{"public_notes": "x"},
				WhereConditions: []models.Condition{tt.cond},
			}
			sqlText, args, err := CompileUpdate(spec)
			require.NoError(t, err)
			assert.Contains(t, sqlText, tt.wantClause)
			require.Len(t, args, 2)
			assert.Equal(t, tt.wantArg, args[1])
		})
	}
}

func TestCompileUpdateNullChecks(t *testing.T) {
	spec := &models.UpdateSpec{
		Table:      "tenants",
		UpdateData: map[string]any{"payment_status": "Current"},
		WhereConditions: []models.Condition{
			{Column: "lease_end_date", Operator: "is", Value: nil},
		},
	}
	sqlText, args, err := CompileUpdate(spec)
	require.NoError(t, err)
	assert.Contains(t, sqlText, "lease_end_date IS NULL")
	assert.Len(t, args, 1)

	spec.WhereConditions[0].Value = "not null"
	sqlText, _, err = CompileUpdate(spec)
	require.NoError(t, err)
	assert.Contains(t, sqlText, "lease_end_date IS NOT NULL")
}

func TestCompileUpdateMultipleConditions(t *testing.T) {
	spec := &models.UpdateSpec{
		Table:      "rooms",
		UpdateData: map[string]any{"status": "Available"},
		WhereConditions: []models.Condition{
			{Column: "building_id", Operator: "eq", Value: "BLDG_1080_FOLSOM"},
			{Column: "floor_number", Operator: "gt", Value: 2},
		},
	}

	sqlText, args, err := CompileUpdate(spec)
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE rooms SET status = $1 WHERE building_id = $2 AND floor_number > $3",
		sqlText)
	assert.Equal(t, []any{"Available", "BLDG_1080_FOLSOM", 2}, args)
}

func TestCompileUpdateRejections(t *testing.T) {
	t.Run("no table", func(t *testing.T) {
		_, _, err := CompileUpdate(&models.UpdateSpec{
			UpdateData:      map[string]any{"a": 1},
			WhereConditions: []models.Condition{{Column: "x", Operator: "eq", Value: 1}},
		})
		assert.Error(t, err)
	})

	t.Run("no update data", func(t *testing.T) {
		_, _, err := CompileUpdate(&models.UpdateSpec{
			Table:           "rooms",
			WhereConditions: []models.Condition{{Column: "x", Operator: "eq", Value: 1}},
		})
		assert.Error(t, err)
	})

	t.Run("no conditions", func(t *testing.T) {
		_, _, err := CompileUpdate(&models.UpdateSpec{
			Table:      "rooms",
			UpdateData: map[string]any{"status": "Available"},
		})
		assert.ErrorIs(t, err, apperrors.ErrMissingWhereClause)
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, _, err := CompileUpdate(&models.UpdateSpec{
			Table:           "rooms",
			UpdateData:      map[string]any{"status": "Available"},
			WhereConditions: []models.Condition{{Column: "x", Operator: "between", Value: 1}},
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidOperator)
	})

	t.Run("is with non-null value", func(t *testing.T) {
		_, _, err := CompileUpdate(&models.UpdateSpec{
			Table:           "rooms",
			UpdateData:      map[string]any{"status": "Available"},
			WhereConditions: []models.Condition{{Column: "x", Operator: "is", Value: "something"}},
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidOperator)
	})
}
