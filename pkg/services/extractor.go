package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/logging"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/prompts"
	"github.com/homewiz/query-engine/pkg/schema"
)

// Rent bounds implied by a phrased budget level when the query names no
// explicit price.
const (
	budgetRentCeiling = 1800.0
	luxuryRentFloor   = 3500.0
)

var (
	priceUnderPattern = regexp.MustCompile(`(?i)\b(?:under|below|less than|at most|up to|max)\s*\$?\s*(\d+(?:\.\d+)?)`)
	priceOverPattern  = regexp.MustCompile(`(?i)\b(?:over|above|more than|at least|min(?:imum)?)\s*\$?\s*(\d+(?:\.\d+)?)`)
	priceRangePattern = regexp.MustCompile(`(?i)\$?\s*(\d+(?:\.\d+)?)\s*(?:-|to)\s*\$?\s*(\d+(?:\.\d+)?)`)
)

// CriteriaExtractor turns a natural language room or building search into
// typed criteria. The model does the heavy lifting; a keyword extractor
// covers model failures, and every enum value passes through the schema
// catalog before it can reach SQL generation.
type CriteriaExtractor struct {
	client   llm.LLMClient
	registry *schema.Registry
	logger   *zap.Logger
}

// NewCriteriaExtractor creates an extractor over the given catalog.
func NewCriteriaExtractor(client llm.LLMClient, registry *schema.Registry, logger *zap.Logger) *CriteriaExtractor {
	return &CriteriaExtractor{
		client:   client,
		registry: registry,
		logger:   logger.Named("extractor"),
	}
}

// ExtractRoomCriteria extracts room search criteria. It never returns an
// error: when the model is unavailable or unparseable, the keyword fallback
// produces a best-effort result instead.
func (e *CriteriaExtractor) ExtractRoomCriteria(ctx context.Context, query string) *models.RoomCriteria {
	criteria := e.extractWithModel(ctx, query)
	if criteria == nil {
		criteria = fallbackRoomCriteria(query)
	}

	e.validateRoomEnums(criteria)
	applyBudgetLevel(criteria)
	criteria.CheckPriceRange()

	return criteria
}

// applyBudgetLevel turns a phrased budget level into a concrete rent bound
// when the query gave no explicit price.
func applyBudgetLevel(c *models.RoomCriteria) {
	switch c.BudgetLevel {
	case models.BudgetLevelBudget:
		if c.PriceMax == nil {
			max := budgetRentCeiling
			c.PriceMax = &max
		}
	case models.BudgetLevelLuxury:
		if c.PriceMin == nil {
			min := luxuryRentFloor
			c.PriceMin = &min
		}
	}
}

func (e *CriteriaExtractor) extractWithModel(ctx context.Context, query string) *models.RoomCriteria {
	prompt := prompts.BuildRoomCriteriaPrompt(query, e.roomEnumConstraints())

	resp, err := e.client.GenerateResponse(ctx, &llm.GenerateRequest{
		SystemPrompt: prompts.BuildCriteriaSystemMessage(),
		UserPrompt:   prompt,
		Temperature:  0.0,
	})
	if err != nil {
		e.logger.Warn("criteria model call failed, using keyword fallback",
			zap.String("query", logging.SanitizeQuery(query)),
			zap.Error(err))
		return nil
	}

	criteria, err := llm.ParseJSONResponse[models.RoomCriteria](resp.Content)
	if err != nil {
		e.logger.Warn("criteria response unparseable, using keyword fallback",
			zap.Error(err))
		return nil
	}
	return &criteria
}

// validateRoomEnums corrects or drops enum fields against the catalog.
// Case-mismatched values are corrected to canonical casing; values outside
// the set are dropped with a warning rather than forwarded into SQL.
func (e *CriteriaExtractor) validateRoomEnums(c *models.RoomCriteria) {
	if c.BathroomType != "" {
		if canonical, ok := e.registry.ValidateValue("rooms", "bathroom_type", c.BathroomType); ok {
			c.BathroomType = canonical
		} else {
			c.AddWarning("unrecognized bathroom_type " + strconv.Quote(c.BathroomType) + " dropped")
			c.BathroomType = ""
		}
	}

	if c.BedSize != "" {
		if canonical, ok := e.registry.ValidateValue("rooms", "bed_size", c.BedSize); ok {
			c.BedSize = canonical
		} else {
			c.AddWarning("unrecognized bed_size " + strconv.Quote(c.BedSize) + " dropped")
			c.BedSize = ""
		}
	}

	if len(c.ViewTypes) > 0 {
		var kept []string
		for _, v := range c.ViewTypes {
			if canonical, ok := e.registry.ValidateValue("rooms", "view", v); ok {
				kept = append(kept, canonical)
			} else {
				c.AddWarning("unrecognized view " + strconv.Quote(v) + " dropped")
			}
		}
		c.ViewTypes = kept
	}

	switch c.BudgetLevel {
	case "", models.BudgetLevelBudget, models.BudgetLevelModerate, models.BudgetLevelLuxury:
	default:
		c.AddWarning("unrecognized budget_level " + strconv.Quote(c.BudgetLevel) + " dropped")
		c.BudgetLevel = ""
	}
}

// ExtractBuildingCriteria extracts building-level criteria with the same
// model-then-fallback strategy.
func (e *CriteriaExtractor) ExtractBuildingCriteria(ctx context.Context, query string) *models.BuildingCriteria {
	prompt := prompts.BuildBuildingCriteriaPrompt(query, e.buildingEnumConstraints())

	resp, err := e.client.GenerateResponse(ctx, &llm.GenerateRequest{
		SystemPrompt: prompts.BuildCriteriaSystemMessage(),
		UserPrompt:   prompt,
		Temperature:  0.0,
	})
	if err == nil {
		if criteria, perr := llm.ParseJSONResponse[models.BuildingCriteria](resp.Content); perr == nil {
			e.validateBuildingEnums(&criteria)
			return &criteria
		}
	}

	e.logger.Warn("building criteria extraction failed, using keyword fallback",
		zap.String("query", logging.SanitizeQuery(query)))
	return fallbackBuildingCriteria(query)
}

func (e *CriteriaExtractor) validateBuildingEnums(c *models.BuildingCriteria) {
	if c.Location.Area != "" {
		if canonical, ok := e.registry.ValidateValue("buildings", "area", c.Location.Area); ok {
			c.Location.Area = canonical
		} else {
			c.AddWarning("unrecognized area " + strconv.Quote(c.Location.Area) + " dropped")
			c.Location.Area = ""
		}
	}
}

func (e *CriteriaExtractor) roomEnumConstraints() []prompts.EnumConstraint {
	var constraints []prompts.EnumConstraint
	for _, col := range []string{"bathroom_type", "bed_size", "view", "status", "noise_level"} {
		if values := e.registry.EnumValues("rooms", col); len(values) > 0 {
			constraints = append(constraints, prompts.EnumConstraint{Field: col, Values: values})
		}
	}
	return constraints
}

func (e *CriteriaExtractor) buildingEnumConstraints() []prompts.EnumConstraint {
	var constraints []prompts.EnumConstraint
	for _, col := range []string{"area", "building_name"} {
		if values := e.registry.EnumValues("buildings", col); len(values) > 0 {
			constraints = append(constraints, prompts.EnumConstraint{Field: col, Values: values})
		}
	}
	return constraints
}

// fallbackRoomCriteria is the deterministic keyword extractor used when the
// model cannot produce criteria. It covers prices and the most common
// preference phrases.
func fallbackRoomCriteria(query string) *models.RoomCriteria {
	q := strings.ToLower(query)
	c := &models.RoomCriteria{}
	c.AddWarning("criteria extracted by keyword fallback")

	if m := priceRangePattern.FindStringSubmatch(q); m != nil {
		if lo := parseFloat(m[1]); lo != nil {
			c.PriceMin = lo
		}
		if hi := parseFloat(m[2]); hi != nil {
			c.PriceMax = hi
		}
	} else {
		if m := priceUnderPattern.FindStringSubmatch(q); m != nil {
			c.PriceMax = parseFloat(m[1])
		}
		if m := priceOverPattern.FindStringSubmatch(q); m != nil {
			c.PriceMin = parseFloat(m[1])
		}
	}

	if strings.Contains(q, "private bath") || strings.Contains(q, "own bath") ||
		strings.Contains(q, "en-suite") || strings.Contains(q, "ensuite") {
		c.BathroomType = "Private"
	}
	if strings.Contains(q, "quiet") {
		c.Special.Quiet = true
	}
	if strings.Contains(q, "furnished") {
		c.Special.Furnished = true
	}
	if strings.Contains(q, "spacious") || strings.Contains(q, "large room") || strings.Contains(q, "big room") {
		c.Size.Spacious = true
	}
	if strings.Contains(q, "available now") || strings.Contains(q, "immediately") ||
		strings.Contains(q, "right away") || strings.Contains(q, "asap") {
		c.Availability.AvailableNow = true
	}
	if strings.Contains(q, "high floor") || strings.Contains(q, "top floor") || strings.Contains(q, "upper floor") {
		c.Floor.PreferHighFloors = true
	}
	if strings.Contains(q, "cheap") || strings.Contains(q, "affordable") || strings.Contains(q, "budget") {
		c.BudgetLevel = models.BudgetLevelBudget
	} else if strings.Contains(q, "luxury") || strings.Contains(q, "high-end") || strings.Contains(q, "premium") {
		c.BudgetLevel = models.BudgetLevelLuxury
	}

	return c
}

func fallbackBuildingCriteria(query string) *models.BuildingCriteria {
	q := strings.ToLower(query)
	c := &models.BuildingCriteria{}
	c.AddWarning("criteria extracted by keyword fallback")

	if strings.Contains(q, "gym") || strings.Contains(q, "fitness") {
		c.Features.Gym = true
	}
	if strings.Contains(q, "rooftop") {
		c.Features.Rooftop = true
	}
	if strings.Contains(q, "laundry") {
		c.Features.Laundry = true
	}
	if strings.Contains(q, "pet") {
		c.Features.PetFriendly = true
	}
	if strings.Contains(q, "transit") || strings.Contains(q, "bart") || strings.Contains(q, "muni") {
		c.Location.NearTransit = true
	}
	if strings.Contains(q, "walkable") {
		c.Location.Walkable = true
	}

	return c
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
