package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/homewiz/query-engine/pkg/models"
)

// Amenity weights for the equipment subtotal. The subtotal only counts when
// it clears the well-equipped threshold, so a room with just a sink does not
// pick up noise points.
var amenityWeights = []struct {
	column string
	points float64
}{
	{"mini_fridge", 8},
	{"sink", 6},
	{"air_conditioning", 10},
	{"heating", 8},
	{"cable_tv", 5},
}

const wellEquippedThreshold = 15

var bedSizePoints = map[string]float64{
	"King":  20,
	"Queen": 15,
	"Full":  10,
	"Twin":  5,
}

// RoomScorer ranks executed room rows. Most bonuses are properties of the
// room itself so a better room always outranks a worse one; the extracted
// criteria add the floor preference and shape the reason text. Scoring is
// pure arithmetic over the row values: same rows, same criteria, same
// reference time, same order.
type RoomScorer struct {
	now time.Time
}

// NewRoomScorer creates a scorer with the given reference time. The clock is
// injected, never read, so ranking is reproducible.
func NewRoomScorer(now time.Time) *RoomScorer {
	return &RoomScorer{now: now}
}

// Score ranks the rows descending by score. Sorting is stable: rows with
// equal scores keep their SQL result order.
func (s *RoomScorer) Score(rows []map[string]any, criteria *models.RoomCriteria) []models.ScoredRoom {
	scored := make([]models.ScoredRoom, len(rows))
	for i, row := range rows {
		score, reasons := s.scoreRoom(row, criteria)
		scored[i] = models.ScoredRoom{Room: row, Score: score, Reasons: reasons}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (s *RoomScorer) scoreRoom(room map[string]any, c *models.RoomCriteria) (float64, []string) {
	var score float64
	var reasons []string

	// The bathroom tier is a property of the room, not of the request: a
	// private bathroom outranks a shared one in every ranking.
	requested := c.BathroomType == "Private"
	switch cast.ToString(room["bathroom_type"]) {
	case "Private":
		score += 35
		if requested {
			reasons = append(reasons, "Private bathroom as requested")
		} else {
			reasons = append(reasons, "Private bathroom")
		}
	case "Semi-Private":
		score += 25
		if requested {
			reasons = append(reasons, "Semi-private bathroom, close to requested")
		} else {
			reasons = append(reasons, "Semi-private bathroom")
		}
	}

	if c.Floor.PreferHighFloors {
		floor := cast.ToFloat64(room["floor_number"])
		points := floor * 4
		if points > 40 {
			points = 40
		}
		score += points
		if floor >= 5 {
			reasons = append(reasons, fmt.Sprintf("High floor (%d)", int(floor)))
		}
	}

	sqft := cast.ToFloat64(room["sq_footage"])
	switch {
	case sqft >= 280:
		score += 30
		reasons = append(reasons, fmt.Sprintf("Spacious at %.0f sq ft", sqft))
	case sqft >= 250:
		score += 20
		reasons = append(reasons, fmt.Sprintf("Roomy at %.0f sq ft", sqft))
	}
	if sqft > 200 {
		bonus := (sqft - 200) / 10
		if bonus > 25 {
			bonus = 25
		}
		score += bonus
	}

	if cast.ToString(room["status"]) == "Available" && cast.ToBool(room["ready_to_rent"]) {
		score += 25
		reasons = append(reasons, "Available and ready to rent now")
	}

	if cast.ToBool(room["work_desk"]) && cast.ToBool(room["work_chair"]) && cast.ToBool(room["bedding_provided"]) {
		score += 30
		reasons = append(reasons, "Fully furnished with desk, chair, and bedding")
	}

	view := cast.ToString(room["view"])
	if view != "" && !strings.Contains(view, "Street") {
		score += 20
		reasons = append(reasons, "Away from street noise")
	}

	var amenitySubtotal float64
	for _, a := range amenityWeights {
		if cast.ToBool(room[a.column]) {
			amenitySubtotal += a.points
		}
	}
	if amenitySubtotal > wellEquippedThreshold {
		score += amenitySubtotal
		reasons = append(reasons, "Well-equipped room")
	}

	if strings.Contains(view, "City") || strings.Contains(view, "Bay") {
		score += 25
		reasons = append(reasons, view)
	} else if strings.Contains(view, "Garden") {
		score += 15
		reasons = append(reasons, view)
	}

	if points, ok := bedSizePoints[cast.ToString(room["bed_size"])]; ok {
		score += points
	}

	if lastCheck, err := cast.ToTimeE(room["last_check"]); err == nil && !lastCheck.IsZero() {
		if s.now.Sub(lastCheck) <= 30*24*time.Hour {
			score += 10
			reasons = append(reasons, "Recently inspected")
		}
	}

	return score, reasons
}

// BuildingScorer ranks building rows against building criteria. Points are
// awarded per requested feature the building actually has.
type BuildingScorer struct{}

// NewBuildingScorer creates a building scorer.
func NewBuildingScorer() *BuildingScorer {
	return &BuildingScorer{}
}

// Score ranks the rows descending by score with a stable sort.
func (s *BuildingScorer) Score(rows []map[string]any, criteria *models.BuildingCriteria) []models.ScoredBuilding {
	scored := make([]models.ScoredBuilding, len(rows))
	for i, row := range rows {
		score, reasons := s.scoreBuilding(row, criteria)
		scored[i] = models.ScoredBuilding{Building: row, Score: score, Reasons: reasons}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (s *BuildingScorer) scoreBuilding(b map[string]any, c *models.BuildingCriteria) (float64, []string) {
	var score float64
	var reasons []string

	award := func(points float64, reason string) {
		score += points
		reasons = append(reasons, reason)
	}

	if c.Features.Gym && cast.ToBool(b["fitness_area"]) {
		award(25, "On-site fitness area")
	}
	if c.Features.Rooftop && cast.ToBool(b["rooftop_access"]) {
		award(20, "Rooftop access")
	}
	if c.Features.StudyArea && cast.ToBool(b["work_study_area"]) {
		award(20, "Dedicated work and study area")
	}
	if c.Features.Laundry && cast.ToBool(b["laundry_onsite"]) {
		award(15, "On-site laundry")
	}
	if c.Features.WifiIncluded && cast.ToBool(b["wifi_included"]) {
		award(15, "WiFi included")
	}
	if c.Features.UtilitiesIncluded && cast.ToBool(b["utilities_included"]) {
		award(15, "Utilities included")
	}
	if c.Features.SecureAccess && cast.ToBool(b["secure_access"]) {
		award(15, "Secure building access")
	}
	if c.Features.BikeStorage && cast.ToBool(b["bike_storage"]) {
		award(10, "Bike storage")
	}
	if c.Features.Events && cast.ToBool(b["social_events"]) {
		award(10, "Resident social events")
	}
	if c.Features.CommonArea && hasText(b["common_area"]) {
		award(8, "Common area")
	}
	if c.Features.PetFriendly {
		if pets := cast.ToString(b["pet_friendly"]); pets != "" && pets != "No pets" {
			award(12, "Pet friendly: "+pets)
		}
	}
	if c.Features.KitchenType != "" {
		switch cast.ToString(b["common_kitchen"]) {
		case "Full", "Premium":
			award(12, "Full common kitchen")
		case "Basic":
			award(8, "Basic common kitchen")
		}
	}
	if c.Location.NearTransit && hasText(b["nearby_transportation"]) {
		award(18, "Near public transit")
	}
	if c.Location.Walkable && hasText(b["nearby_conveniences_walk"]) {
		award(12, "Walkable to conveniences")
	}
	if c.Requirements.MaxLeaseMonths != nil {
		if lease := cast.ToInt(b["min_lease_term"]); lease > 0 && lease <= 6 {
			award(10, fmt.Sprintf("Short minimum lease (%d months)", lease))
		}
	}

	return score, reasons
}

func hasText(v any) bool {
	s := strings.TrimSpace(cast.ToString(v))
	return s != "" && !strings.EqualFold(s, "none")
}
