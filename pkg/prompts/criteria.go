package prompts

import (
	"fmt"
	"strings"
)

// EnumConstraint lists the only values the model may emit for a field.
type EnumConstraint struct {
	Field  string
	Values []string
}

// BuildRoomCriteriaPrompt creates the extraction prompt for room-search
// criteria. The enum constraints come from the schema catalog so the model
// never sees values that do not exist in the data.
func BuildRoomCriteriaPrompt(query string, enums []EnumConstraint) string {
	var prompt strings.Builder

	prompt.WriteString("# Room Search Criteria Extraction\n\n")
	prompt.WriteString("Extract structured search criteria from the user's request. ")
	prompt.WriteString("Only include fields the user actually mentioned; omit everything else.\n\n")

	writeEnumConstraints(&prompt, enums)

	prompt.WriteString("## Field Reference\n\n")
	prompt.WriteString("- `price_min`, `price_max`: Monthly rent bounds in dollars (numbers)\n")
	prompt.WriteString("- `view_types`: Array of desired views\n")
	prompt.WriteString("- `bathroom_type`: Bathroom arrangement\n")
	prompt.WriteString("- `bed_size`: Bed size\n")
	prompt.WriteString("- `room_type`: Private or shared room\n")
	prompt.WriteString("- `amenities_required`: Array of required amenities (e.g., \"air_conditioning\", \"mini_fridge\", \"work_desk\")\n")
	prompt.WriteString("- `budget_level`: One of \"budget\", \"moderate\", \"luxury\" when phrasing implies it (\"cheap\", \"affordable\", \"high-end\")\n")
	prompt.WriteString("- `floor_preferences`: `{prefer_high_floors, min_floor, max_floor}`\n")
	prompt.WriteString("- `size_requirements`: `{min_sqft, spacious}` (\"spacious\" or \"large\" sets spacious)\n")
	prompt.WriteString("- `availability`: `{available_now, move_in_date}` (\"available now\", \"immediately\" set available_now)\n")
	prompt.WriteString("- `occupancy`: Number of people\n")
	prompt.WriteString("- `special_requirements`: `{quiet, furnished, recently_renovated}`\n")
	prompt.WriteString("- `building`: Building name if the user named one\n\n")

	prompt.WriteString("## Rules\n\n")
	prompt.WriteString("- \"under $X\" means price_max = X. \"over $X\" or \"at least $X\" means price_min = X.\n")
	prompt.WriteString("- Never guess values. A field the user did not mention must be absent.\n")
	prompt.WriteString("- Never invent enum values; use the listed values verbatim, including casing.\n\n")

	prompt.WriteString("Example:\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{
  "price_max": 2000,
  "bathroom_type": "Private",
  "availability": {"available_now": true}
}
`)
	prompt.WriteString("```\n\n")

	prompt.WriteString("## User Request\n\n")
	prompt.WriteString(query + "\n\n")
	prompt.WriteString("Return ONLY the JSON, no additional text.\n")

	return prompt.String()
}

// BuildBuildingCriteriaPrompt creates the extraction prompt for
// building-level search criteria.
func BuildBuildingCriteriaPrompt(query string, enums []EnumConstraint) string {
	var prompt strings.Builder

	prompt.WriteString("# Building Search Criteria Extraction\n\n")
	prompt.WriteString("Extract structured building criteria from the user's request. ")
	prompt.WriteString("Only include fields the user actually mentioned; omit everything else.\n\n")

	writeEnumConstraints(&prompt, enums)

	prompt.WriteString("## Field Reference\n\n")
	prompt.WriteString("- `building_features`: `{gym, rooftop, laundry, wifi_included, utilities_included, pet_friendly, secure_access, bike_storage, study_area, common_area, events, kitchen_type}`\n")
	prompt.WriteString("- `location_preferences`: `{area, near_transit, walkable}`\n")
	prompt.WriteString("- `building_requirements`: `{max_lease_months, min_lease_months}`\n\n")

	prompt.WriteString("## Rules\n\n")
	prompt.WriteString("- Booleans are set only when the user asked for the feature.\n")
	prompt.WriteString("- `kitchen_type` is \"full\" or \"basic\" when mentioned.\n")
	prompt.WriteString("- Lease bounds are months; \"short lease\" or \"flexible\" means max_lease_months = 6.\n\n")

	prompt.WriteString("Example:\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{
  "building_features": {"gym": true, "pet_friendly": true},
  "location_preferences": {"area": "SOMA", "near_transit": true}
}
`)
	prompt.WriteString("```\n\n")

	prompt.WriteString("## User Request\n\n")
	prompt.WriteString(query + "\n\n")
	prompt.WriteString("Return ONLY the JSON, no additional text.\n")

	return prompt.String()
}

// BuildCriteriaSystemMessage returns the system message for criteria
// extraction.
func BuildCriteriaSystemMessage() string {
	return `You are a precise information extractor for a housing search assistant. You emit only JSON matching the documented fields and never fabricate values the user did not state.`
}

func writeEnumConstraints(prompt *strings.Builder, enums []EnumConstraint) {
	if len(enums) == 0 {
		return
	}
	prompt.WriteString("## Valid Values\n\n")
	prompt.WriteString("These fields accept ONLY the listed values, verbatim:\n\n")
	for _, e := range enums {
		quoted := make([]string, len(e.Values))
		for i, v := range e.Values {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		prompt.WriteString(fmt.Sprintf("- `%s`: %s\n", e.Field, strings.Join(quoted, ", ")))
	}
	prompt.WriteString("\n")
}
