package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homewiz/query-engine/pkg/models"
)

var scoringNow = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

// neutralRoom returns a room that earns zero points on its own: no premium
// view, no scored bed size, small, unchecked.
func neutralRoom() map[string]any {
	return map[string]any{
		"room_number":   "101",
		"bathroom_type": "Shared",
		"view":          "Street View",
		"sq_footage":    180.0,
	}
}

func scoreOne(c *models.RoomCriteria, room map[string]any) (float64, []string) {
	scored := NewRoomScorer(scoringNow).Score([]map[string]any{room}, c)
	return scored[0].Score, scored[0].Reasons
}

func TestRoomScoreBathroomMatch(t *testing.T) {
	c := &models.RoomCriteria{BathroomType: "Private"}

	room := neutralRoom()
	room["bathroom_type"] = "Private"
	score, reasons := scoreOne(c, room)
	assert.Equal(t, 35.0, score)
	assert.Contains(t, reasons, "Private bathroom as requested")

	room["bathroom_type"] = "Semi-Private"
	score, _ = scoreOne(c, room)
	assert.Equal(t, 25.0, score)

	room["bathroom_type"] = "Shared"
	score, _ = scoreOne(c, room)
	assert.Equal(t, 0.0, score)
}

func TestRoomScoreBathroomWithoutRequest(t *testing.T) {
	shared := neutralRoom()
	private := neutralRoom()
	private["room_number"] = "102"
	private["bathroom_type"] = "Private"

	// The tier applies whether or not the query asked for it, so the private
	// room always ranks above an otherwise identical shared one
	scored := NewRoomScorer(scoringNow).Score([]map[string]any{shared, private}, &models.RoomCriteria{})
	require.Len(t, scored, 2)
	assert.Equal(t, "102", scored[0].Room["room_number"])
	assert.Greater(t, scored[0].Score, scored[1].Score)
	assert.Contains(t, scored[0].Reasons, "Private bathroom")
}

func TestRoomScoreHighFloors(t *testing.T) {
	c := &models.RoomCriteria{Floor: models.FloorPreferences{PreferHighFloors: true}}

	room := neutralRoom()
	room["floor_number"] = 6
	score, reasons := scoreOne(c, room)
	assert.Equal(t, 24.0, score)
	assert.Contains(t, reasons, "High floor (6)")

	// Capped at 40
	room["floor_number"] = 15
	score, _ = scoreOne(c, room)
	assert.Equal(t, 40.0, score)

	// Below 5 scores but earns no reason
	room["floor_number"] = 4
	score, reasons = scoreOne(c, room)
	assert.Equal(t, 16.0, score)
	assert.Empty(t, reasons)
}

func TestRoomScoreSize(t *testing.T) {
	c := &models.RoomCriteria{Size: models.SizeRequirements{Spacious: true}}

	room := neutralRoom()
	room["sq_footage"] = 300.0
	score, _ := scoreOne(c, room)
	// 30 spacious tier + (300-200)/10 size bonus
	assert.Equal(t, 40.0, score)

	room["sq_footage"] = 260.0
	score, _ = scoreOne(c, room)
	// 20 roomy tier + 6 size bonus
	assert.Equal(t, 26.0, score)

	// Tier and bonus apply without the spacious request; bonus capped at 25
	room["sq_footage"] = 500.0
	score, _ = scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 55.0, score)
}

func TestRoomScoreAvailability(t *testing.T) {
	c := &models.RoomCriteria{Availability: models.Availability{AvailableNow: true}}

	room := neutralRoom()
	room["status"] = "Available"
	room["ready_to_rent"] = true
	score, _ := scoreOne(c, room)
	assert.Equal(t, 25.0, score)

	// Available but not ready earns nothing
	room["ready_to_rent"] = false
	score, _ = scoreOne(c, room)
	assert.Equal(t, 0.0, score)
}

func TestRoomScoreFurnished(t *testing.T) {
	c := &models.RoomCriteria{Special: models.SpecialRequirements{Furnished: true}}

	room := neutralRoom()
	room["work_desk"] = true
	room["work_chair"] = true
	room["bedding_provided"] = true
	score, _ := scoreOne(c, room)
	assert.Equal(t, 30.0, score)

	// All three are required
	room["work_chair"] = false
	score, _ = scoreOne(c, room)
	assert.Equal(t, 0.0, score)
}

func TestRoomScoreQuiet(t *testing.T) {
	c := &models.RoomCriteria{Special: models.SpecialRequirements{Quiet: true}}

	room := neutralRoom()
	room["view"] = "Courtyard"
	score, reasons := scoreOne(c, room)
	assert.Equal(t, 20.0, score)
	assert.Contains(t, reasons, "Away from street noise")

	room["view"] = "Street View"
	score, _ = scoreOne(c, room)
	assert.Equal(t, 0.0, score)
}

func TestRoomScoreAmenitySubtotal(t *testing.T) {
	room := neutralRoom()
	room["mini_fridge"] = true
	room["sink"] = true
	// 8 + 6 = 14, below the well-equipped threshold
	score, _ := scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 0.0, score)

	room["air_conditioning"] = true
	// 8 + 6 + 10 = 24, counts in full
	score, reasons := scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 24.0, score)
	assert.Contains(t, reasons, "Well-equipped room")
}

func TestRoomScoreViewAndBed(t *testing.T) {
	room := neutralRoom()
	room["view"] = "City View"
	// 25 premium view + 20 away from street
	score, _ := scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 45.0, score)

	room["view"] = "Street View"
	room["bed_size"] = "Queen"
	score, _ = scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 15.0, score)

	room["bed_size"] = "Twin"
	score, _ = scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 5.0, score)
}

func TestRoomScoreRecentInspection(t *testing.T) {
	room := neutralRoom()
	room["last_check"] = "2024-03-01"
	score, reasons := scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 10.0, score)
	assert.Contains(t, reasons, "Recently inspected")

	room["last_check"] = "2024-01-01"
	score, _ = scoreOne(&models.RoomCriteria{}, room)
	assert.Equal(t, 0.0, score)
}

func TestRoomScoreStableOrdering(t *testing.T) {
	c := &models.RoomCriteria{BathroomType: "Private"}

	a := neutralRoom()
	a["room_number"] = "A"
	b := neutralRoom()
	b["room_number"] = "B"
	b["bathroom_type"] = "Private"
	d := neutralRoom()
	d["room_number"] = "D"

	scored := NewRoomScorer(scoringNow).Score([]map[string]any{a, b, d}, c)
	require.Len(t, scored, 3)

	// Highest first; ties keep their input order
	assert.Equal(t, "B", scored[0].Room["room_number"])
	assert.Equal(t, "A", scored[1].Room["room_number"])
	assert.Equal(t, "D", scored[2].Room["room_number"])
}

func TestBuildingScoreFeatureMatch(t *testing.T) {
	c := &models.BuildingCriteria{
		Features: models.BuildingFeatures{Gym: true, Rooftop: true},
	}
	building := map[string]any{
		"building_name":  "1080 Folsom Residences",
		"fitness_area":   true,
		"rooftop_access": true,
	}

	scored := NewBuildingScorer().Score([]map[string]any{building}, c)
	require.Len(t, scored, 1)
	assert.Equal(t, 45.0, scored[0].Score)
	assert.Len(t, scored[0].Reasons, 2)
}

func TestBuildingScorePetPolicy(t *testing.T) {
	c := &models.BuildingCriteria{Features: models.BuildingFeatures{PetFriendly: true}}

	scored := NewBuildingScorer().Score([]map[string]any{
		{"building_name": "x", "pet_friendly": "Cats only"},
	}, c)
	assert.Equal(t, 12.0, scored[0].Score)

	scored = NewBuildingScorer().Score([]map[string]any{
		{"building_name": "x", "pet_friendly": "No pets"},
	}, c)
	assert.Equal(t, 0.0, scored[0].Score)
}

func TestBuildingScoreKitchenTiers(t *testing.T) {
	c := &models.BuildingCriteria{Features: models.BuildingFeatures{KitchenType: "full"}}

	scored := NewBuildingScorer().Score([]map[string]any{
		{"common_kitchen": "Full"},
	}, c)
	assert.Equal(t, 12.0, scored[0].Score)

	scored = NewBuildingScorer().Score([]map[string]any{
		{"common_kitchen": "Basic"},
	}, c)
	assert.Equal(t, 8.0, scored[0].Score)
}

func TestBuildingScoreLocationAndLease(t *testing.T) {
	six := 6
	c := &models.BuildingCriteria{
		Location:     models.LocationPreferences{NearTransit: true, Walkable: true},
		Requirements: models.BuildingRequirements{MaxLeaseMonths: &six},
	}
	building := map[string]any{
		"nearby_transportation":    "BART Civic Center 5 min walk",
		"nearby_conveniences_walk": "Groceries, pharmacy, cafes",
		"min_lease_term":           3,
	}

	scored := NewBuildingScorer().Score([]map[string]any{building}, c)
	// 18 transit + 12 walkable + 10 short lease
	assert.Equal(t, 40.0, scored[0].Score)
}
