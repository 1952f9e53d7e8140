package prompts

import (
	"fmt"
	"strings"
)

// UpdateGenInput carries the structured update prompt inputs. SchemaText is
// the updateable-columns rendering for the tables the caller may modify.
type UpdateGenInput struct {
	Query         string
	SchemaText    string
	EnumText      string
	AllowedTables []string
}

// BuildUpdateGenPrompt creates the structured update prompt. The model never
// writes SQL for updates; it emits a declarative spec that is compiled into a
// parameterized statement server-side.
func BuildUpdateGenPrompt(in UpdateGenInput) string {
	var prompt strings.Builder

	prompt.WriteString("# Structured Update Generation\n\n")
	prompt.WriteString("Translate the user's request into a structured update spec. ")
	prompt.WriteString("Do NOT write SQL; fill in the JSON structure below.\n\n")

	prompt.WriteString("## Updateable Schema\n\n")
	prompt.WriteString("```\n")
	prompt.WriteString(in.SchemaText)
	prompt.WriteString("```\n\n")

	if in.EnumText != "" {
		prompt.WriteString("## Column Values\n\n")
		prompt.WriteString("These columns hold ONLY the listed values, verbatim:\n\n")
		prompt.WriteString("```\n")
		prompt.WriteString(in.EnumText)
		prompt.WriteString("```\n\n")
	}

	prompt.WriteString("## Allowed Tables\n\n")
	prompt.WriteString(fmt.Sprintf("You may modify ONLY these tables: %s\n\n", strings.Join(in.AllowedTables, ", ")))

	prompt.WriteString("## Rules\n\n")
	prompt.WriteString("- `where_conditions` must narrow the update to the intended rows. At least one condition is required.\n")
	prompt.WriteString("- Each condition is a three-element array: [column, operator, value].\n")
	prompt.WriteString("- Operators: eq, neq, gt, gte, lt, lte, like, ilike, in, is.\n")
	prompt.WriteString("- Building references: `building_id` values look like \"BLDG_1080_FOLSOM\". ")
	prompt.WriteString("When the user gives a building NAME (\"1080 Folsom Residences\"), match `building_name` with ilike instead of guessing an id.\n")
	prompt.WriteString("- Room references: users say room numbers (\"room 301\"), which map to `room_number`, not `room_id`.\n")
	prompt.WriteString("- Never set a primary key column.\n")
	prompt.WriteString("- `estimated_rows` is how many rows you expect the conditions to match.\n\n")

	prompt.WriteString("## Output Format\n\n")
	prompt.WriteString("Respond in JSON with `table`, `update_data`, `where_conditions`, `explanation`, `estimated_rows`.\n\n")

	prompt.WriteString("Example (\"mark room 301 in 1080 Folsom as under maintenance\"):\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{
  "table": "rooms",
  "update_data": {"status": "Maintenance"},
  "where_conditions": [
    ["room_number", "eq", "301"],
    ["building_id", "eq", "BLDG_1080_FOLSOM"]
  ],
  "explanation": "Sets room 301 in 1080 Folsom Residences to Maintenance.",
  "estimated_rows": 1
}
`)
	prompt.WriteString("```\n\n")

	prompt.WriteString("## User Request\n\n")
	prompt.WriteString(in.Query + "\n\n")
	prompt.WriteString("Return ONLY the JSON, no additional text.\n")

	return prompt.String()
}

// BuildUpdateGenSystemMessage returns the system message for update
// generation.
func BuildUpdateGenSystemMessage() string {
	return `You are a careful data maintenance assistant for a property management database. You emit structured update specs, never raw SQL, and you only touch rows the user clearly identified.`
}
