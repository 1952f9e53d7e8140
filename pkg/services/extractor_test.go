package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/schema"
)

func newTestExtractor(client llm.LLMClient) *CriteriaExtractor {
	return NewCriteriaExtractor(client, schema.MustLoad(), zap.NewNop())
}

func TestExtractRoomCriteriaFromModel(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith(`{
		"price_max": 2000,
		"bathroom_type": "Private",
		"availability": {"available_now": true}
	}`)
	e := newTestExtractor(mock)

	c := e.ExtractRoomCriteria(context.Background(), "available rooms under $2000 with private bathroom")
	require.NotNil(t, c.PriceMax)
	assert.Equal(t, 2000.0, *c.PriceMax)
	assert.Equal(t, "Private", c.BathroomType)
	assert.True(t, c.Availability.AvailableNow)
	assert.False(t, c.Invalid)
	assert.Empty(t, c.Warnings)
}

func TestExtractRoomCriteriaCorrectsEnumCasing(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith(`{
		"bathroom_type": "private",
		"bed_size": "QUEEN",
		"view_types": ["city view"]
	}`)
	e := newTestExtractor(mock)

	c := e.ExtractRoomCriteria(context.Background(), "private bath, queen bed, city view")
	assert.Equal(t, "Private", c.BathroomType)
	assert.Equal(t, "Queen", c.BedSize)
	assert.Equal(t, []string{"City View"}, c.ViewTypes)
}

func TestExtractRoomCriteriaDropsUnknownEnums(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith(`{
		"bathroom_type": "Ensuite Deluxe",
		"view_types": ["Ocean View"],
		"budget_level": "ultra-premium"
	}`)
	e := newTestExtractor(mock)

	c := e.ExtractRoomCriteria(context.Background(), "fancy room")
	assert.Empty(t, c.BathroomType)
	assert.Empty(t, c.ViewTypes)
	assert.Empty(t, c.BudgetLevel)
	assert.Len(t, c.Warnings, 3)
}

func TestExtractRoomCriteriaInvertedPriceRange(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith(`{
		"price_min": 3000,
		"price_max": 1500
	}`)
	e := newTestExtractor(mock)

	c := e.ExtractRoomCriteria(context.Background(), "rooms between $3000 and $1500")

	// The bounds are flagged, never silently swapped
	assert.True(t, c.Invalid)
	assert.Equal(t, 3000.0, *c.PriceMin)
	assert.Equal(t, 1500.0, *c.PriceMax)
	assert.Contains(t, c.Warnings, "price_min exceeds price_max")
}

func TestExtractRoomCriteriaKeywordFallback(t *testing.T) {
	mock := llm.NewMockLLMClient().FailWith(errors.New("connection refused"))
	e := newTestExtractor(mock)

	c := e.ExtractRoomCriteria(context.Background(),
		"quiet furnished room under $1800, available now, private bathroom")

	require.NotNil(t, c.PriceMax)
	assert.Equal(t, 1800.0, *c.PriceMax)
	assert.Equal(t, "Private", c.BathroomType)
	assert.True(t, c.Special.Quiet)
	assert.True(t, c.Special.Furnished)
	assert.True(t, c.Availability.AvailableNow)
	assert.Contains(t, c.Warnings, "criteria extracted by keyword fallback")
}

func TestExtractRoomCriteriaFallbackPriceRange(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith("not json at all")
	e := newTestExtractor(mock)

	c := e.ExtractRoomCriteria(context.Background(), "rooms from $1500 to $2200")
	require.NotNil(t, c.PriceMin)
	require.NotNil(t, c.PriceMax)
	assert.Equal(t, 1500.0, *c.PriceMin)
	assert.Equal(t, 2200.0, *c.PriceMax)
}

func TestExtractRoomCriteriaBudgetLevelImpliesPrice(t *testing.T) {
	e := newTestExtractor(llm.NewMockLLMClient().RespondWith(`{"budget_level": "budget"}`))
	c := e.ExtractRoomCriteria(context.Background(), "cheap rooms")
	require.NotNil(t, c.PriceMax)
	assert.Equal(t, 1800.0, *c.PriceMax)

	e = newTestExtractor(llm.NewMockLLMClient().RespondWith(`{"budget_level": "luxury"}`))
	c = e.ExtractRoomCriteria(context.Background(), "luxury rooms")
	require.NotNil(t, c.PriceMin)
	assert.Equal(t, 3500.0, *c.PriceMin)

	// An explicit price always wins over the implied bound
	e = newTestExtractor(llm.NewMockLLMClient().RespondWith(`{"budget_level": "budget", "price_max": 1500}`))
	c = e.ExtractRoomCriteria(context.Background(), "cheap rooms under $1500")
	require.NotNil(t, c.PriceMax)
	assert.Equal(t, 1500.0, *c.PriceMax)
}

func TestExtractBuildingCriteria(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWith(`{
		"building_features": {"gym": true, "pet_friendly": true},
		"location_preferences": {"area": "soma", "near_transit": true}
	}`)
	e := newTestExtractor(mock)

	c := e.ExtractBuildingCriteria(context.Background(), "pet friendly building with gym near transit in soma")
	assert.True(t, c.Features.Gym)
	assert.True(t, c.Features.PetFriendly)
	assert.True(t, c.Location.NearTransit)
	assert.Equal(t, "SOMA", c.Location.Area)
}

func TestExtractBuildingCriteriaKeywordFallback(t *testing.T) {
	mock := llm.NewMockLLMClient().FailWith(errors.New("timeout"))
	e := newTestExtractor(mock)

	c := e.ExtractBuildingCriteria(context.Background(), "building with gym and laundry near bart")
	assert.True(t, c.Features.Gym)
	assert.True(t, c.Features.Laundry)
	assert.True(t, c.Location.NearTransit)
}
