package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/schema"
)

func newTestUpdateGenerator(client llm.LLMClient) *UpdateGenerator {
	return NewUpdateGenerator(client, schema.MustLoad(), zap.NewNop())
}

func TestUpdateGenerateParsesConditionArrays(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith(`{
		"table": "rooms",
		"update_data": {"status": "Maintenance"},
		"where_conditions": [
			["room_number", "eq", "301"],
			["building_id", "eq", "BLDG_1080_FOLSOM"]
		],
		"explanation": "Sets room 301 to Maintenance.",
		"estimated_rows": 1
	}`)
	g := newTestUpdateGenerator(mock)

	spec, err := g.Generate(context.Background(), "mark room 301 as maintenance", []string{"rooms"})
	require.NoError(t, err)
	assert.Equal(t, "rooms", spec.Table)
	assert.Equal(t, "Maintenance", spec.UpdateData["status"])
	require.Len(t, spec.WhereConditions, 2)
	assert.Equal(t, "room_number", spec.WhereConditions[0].Column)
	assert.Equal(t, "eq", spec.WhereConditions[0].Operator)
	assert.Equal(t, "301", spec.WhereConditions[0].Value)
}

func TestUpdateGenerateNoRightsFailsClosed(t *testing.T) {
	mock := llm.NewMockLLMClient()
	g := newTestUpdateGenerator(mock)

	_, err := g.Generate(context.Background(), "update something", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTableNotAllowed)
	assert.Zero(t, mock.GenerateResponseCalls, "no rights means no model call")
}

func TestUpdateGenerateCorrectsEnumCasing(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith(`{
		"table": "rooms",
		"update_data": {"status": "maintenance"},
		"where_conditions": [["room_number", "eq", "301"]],
		"explanation": "x"
	}`)
	g := newTestUpdateGenerator(mock)

	spec, err := g.Generate(context.Background(), "set room 301 to maintenance", []string{"rooms"})
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", spec.UpdateData["status"])
}

func TestPreprocessQuery(t *testing.T) {
	assert.Equal(t,
		"Update building B so it fitness_area to true",
		preprocessQuery("Modify building B so it has fitness center set true"))
	assert.Equal(t,
		"mark wifi_included for 1080 Folsom",
		preprocessQuery("mark wifi included for 1080 Folsom"))
}

func TestValidateSpecRejections(t *testing.T) {
	g := newTestUpdateGenerator(llm.NewMockLLMClient())
	allowed := []string{"rooms", "tenants"}

	valid := func() *models.UpdateSpec {
		return &models.UpdateSpec{
			Table:      "rooms",
			UpdateData: map[string]any{"status": "Available"},
			WhereConditions: []models.Condition{
				{Column: "room_number", Operator: "eq", Value: "301"},
			},
		}
	}

	t.Run("valid spec passes", func(t *testing.T) {
		assert.NoError(t, g.ValidateSpec(valid(), allowed))
	})

	t.Run("unknown table", func(t *testing.T) {
		spec := valid()
		spec.Table = "apartments"
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrUnknownTable)
	})

	t.Run("table outside whitelist", func(t *testing.T) {
		spec := valid()
		spec.Table = "leads"
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrTableNotAllowed)
	})

	t.Run("unknown column", func(t *testing.T) {
		spec := valid()
		spec.UpdateData = map[string]any{"price": 2000}
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrUnknownColumn)
	})

	t.Run("primary key assignment", func(t *testing.T) {
		spec := valid()
		spec.UpdateData = map[string]any{"room_id": "r2"}
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrPrimaryKeyUpdate)
	})

	t.Run("invalid enum value", func(t *testing.T) {
		spec := valid()
		spec.UpdateData = map[string]any{"status": "Demolished"}
		assert.Error(t, g.ValidateSpec(spec, allowed))
	})

	t.Run("missing where conditions", func(t *testing.T) {
		spec := valid()
		spec.WhereConditions = nil
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrMissingWhereClause)
	})

	t.Run("unknown condition column", func(t *testing.T) {
		spec := valid()
		spec.WhereConditions = []models.Condition{{Column: "nonexistent", Operator: "eq", Value: 1}}
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrUnknownColumn)
	})

	t.Run("invalid operator", func(t *testing.T) {
		spec := valid()
		spec.WhereConditions = []models.Condition{{Column: "room_number", Operator: "between", Value: 1}}
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrInvalidOperator)
	})

	t.Run("injection in update value", func(t *testing.T) {
		spec := valid()
		spec.UpdateData = map[string]any{"public_notes": "' OR '1'='1"}
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrInjectionDetected)
	})

	t.Run("injection in condition value", func(t *testing.T) {
		spec := valid()
		spec.WhereConditions = []models.Condition{
			{Column: "room_number", Operator: "eq", Value: "301' OR '1'='1"},
		}
		assert.ErrorIs(t, g.ValidateSpec(spec, allowed), apperrors.ErrInjectionDetected)
	})
}
