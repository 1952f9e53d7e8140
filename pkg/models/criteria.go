package models

import (
	"encoding/json"

	"github.com/homewiz/query-engine/pkg/jsonutil"
)

// Budget levels inferred from phrasing rather than explicit amounts.
const (
	BudgetLevelBudget   = "budget"
	BudgetLevelModerate = "moderate"
	BudgetLevelLuxury   = "luxury"
)

// FloorPreferences captures floor-related filters.
type FloorPreferences struct {
	PreferHighFloors bool `json:"prefer_high_floors,omitempty"`
	MinFloor         *int `json:"min_floor,omitempty"`
	MaxFloor         *int `json:"max_floor,omitempty"`
}

// SizeRequirements captures room size filters.
type SizeRequirements struct {
	MinSqft  *float64 `json:"min_sqft,omitempty"`
	Spacious bool     `json:"spacious,omitempty"`
}

// Availability captures move-in timing filters.
type Availability struct {
	AvailableNow bool   `json:"available_now,omitempty"`
	MoveInDate   string `json:"move_in_date,omitempty"`
}

// SpecialRequirements captures soft preferences that affect scoring rather
// than filtering.
type SpecialRequirements struct {
	Quiet             bool `json:"quiet,omitempty"`
	Furnished         bool `json:"furnished,omitempty"`
	RecentlyRenovated bool `json:"recently_renovated,omitempty"`
}

// RoomCriteria is the typed filter structure extracted from a room-search
// query. Optional numeric bounds are pointers so an absent value can be told
// apart from zero; absent fields keep their defaults when merging the model's
// partial output.
type RoomCriteria struct {
	PriceMin          *float64            `json:"price_min,omitempty"`
	PriceMax          *float64            `json:"price_max,omitempty"`
	ViewTypes         []string            `json:"view_types,omitempty"`
	BathroomType      string              `json:"bathroom_type,omitempty"`
	BedSize           string              `json:"bed_size,omitempty"`
	RoomType          string              `json:"room_type,omitempty"`
	AmenitiesRequired []string            `json:"amenities_required,omitempty"`
	BudgetLevel       string              `json:"budget_level,omitempty"`
	Floor             FloorPreferences    `json:"floor_preferences,omitempty"`
	Size              SizeRequirements    `json:"size_requirements,omitempty"`
	Availability      Availability        `json:"availability,omitempty"`
	Occupancy         *int                `json:"occupancy,omitempty"`
	Special           SpecialRequirements `json:"special_requirements,omitempty"`
	Building          string              `json:"building,omitempty"`

	// Warnings accumulates enum values that were corrected or dropped during
	// validation. Never forwarded into SQL.
	Warnings []string `json:"-"`
	// Invalid marks criteria that failed a hard consistency check, such as
	// price_min > price_max. Invalid criteria must not drive SQL generation.
	Invalid bool `json:"-"`
}

// UnmarshalJSON tolerates the loose typing LLMs produce: quoted numbers for
// the price bounds and numeric or boolean values where a string is expected.
func (c *RoomCriteria) UnmarshalJSON(data []byte) error {
	type alias RoomCriteria
	aux := struct {
		PriceMin     json.RawMessage `json:"price_min"`
		PriceMax     json.RawMessage `json:"price_max"`
		BathroomType json.RawMessage `json:"bathroom_type"`
		BedSize      json.RawMessage `json:"bed_size"`
		*alias
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.PriceMin = jsonutil.FlexibleFloatValue(aux.PriceMin)
	c.PriceMax = jsonutil.FlexibleFloatValue(aux.PriceMax)
	c.BathroomType = jsonutil.FlexibleStringValue(aux.BathroomType)
	c.BedSize = jsonutil.FlexibleStringValue(aux.BedSize)
	return nil
}

// AddWarning records a validation warning on the criteria.
func (c *RoomCriteria) AddWarning(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

// CheckPriceRange flags an inconsistent price range. The bounds are never
// swapped; an inverted range means the extraction is untrustworthy.
func (c *RoomCriteria) CheckPriceRange() {
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		c.Invalid = true
		c.AddWarning("price_min exceeds price_max")
	}
}

// BuildingFeatures captures building-level amenity filters.
type BuildingFeatures struct {
	Gym               bool   `json:"gym,omitempty"`
	Rooftop           bool   `json:"rooftop,omitempty"`
	Laundry           bool   `json:"laundry,omitempty"`
	WifiIncluded      bool   `json:"wifi_included,omitempty"`
	UtilitiesIncluded bool   `json:"utilities_included,omitempty"`
	PetFriendly       bool   `json:"pet_friendly,omitempty"`
	SecureAccess      bool   `json:"secure_access,omitempty"`
	BikeStorage       bool   `json:"bike_storage,omitempty"`
	StudyArea         bool   `json:"study_area,omitempty"`
	CommonArea        bool   `json:"common_area,omitempty"`
	Events            bool   `json:"events,omitempty"`
	KitchenType       string `json:"kitchen_type,omitempty"`
}

// LocationPreferences captures neighborhood filters.
type LocationPreferences struct {
	Area        string `json:"area,omitempty"`
	NearTransit bool   `json:"near_transit,omitempty"`
	Walkable    bool   `json:"walkable,omitempty"`
}

// BuildingRequirements captures lease-term filters.
type BuildingRequirements struct {
	MaxLeaseMonths *int `json:"max_lease_months,omitempty"`
	MinLeaseMonths *int `json:"min_lease_months,omitempty"`
}

// BuildingCriteria is the typed filter structure for building-level search.
type BuildingCriteria struct {
	Features     BuildingFeatures     `json:"building_features,omitempty"`
	Location     LocationPreferences  `json:"location_preferences,omitempty"`
	Requirements BuildingRequirements `json:"building_requirements,omitempty"`

	Warnings []string `json:"-"`
}

// AddWarning records a validation warning on the criteria.
func (c *BuildingCriteria) AddWarning(msg string) {
	c.Warnings = append(c.Warnings, msg)
}
