package prompts

import (
	"fmt"
	"strings"
)

// SQLGenInput carries everything the SQL generation prompt needs: the user's
// request, the rendered schema for the tables the caller may read, the
// enumerated column values, and the whitelist itself.
type SQLGenInput struct {
	Query         string
	SchemaText    string
	EnumText      string
	AllowedTables []string

	// Corrections holds validator warnings from a failed first attempt.
	// Non-empty corrections switch the prompt into regeneration mode.
	Corrections []string
}

// BuildSQLGenPrompt creates the SQL generation prompt. The schema text is the
// complete and only source of table and column names; the model is told that
// anything outside it does not exist.
func BuildSQLGenPrompt(in SQLGenInput) string {
	var prompt strings.Builder

	prompt.WriteString("# PostgreSQL Query Generation\n\n")
	prompt.WriteString("Write one PostgreSQL SELECT statement answering the user's request, ")
	prompt.WriteString("using ONLY the schema below.\n\n")

	prompt.WriteString("## Schema\n\n")
	prompt.WriteString("This is the COMPLETE schema. Tables and columns not listed here do not exist.\n\n")
	prompt.WriteString("```\n")
	prompt.WriteString(in.SchemaText)
	prompt.WriteString("```\n\n")

	if in.EnumText != "" {
		prompt.WriteString("## Column Values\n\n")
		prompt.WriteString("These columns hold ONLY the listed values. Comparisons are case-sensitive; use the values verbatim:\n\n")
		prompt.WriteString("```\n")
		prompt.WriteString(in.EnumText)
		prompt.WriteString("```\n\n")
	}

	prompt.WriteString("## Allowed Tables\n\n")
	prompt.WriteString(fmt.Sprintf("You may reference ONLY these tables: %s\n\n", strings.Join(in.AllowedTables, ", ")))

	prompt.WriteString("## Safety Rules\n\n")
	prompt.WriteString("- Exactly one statement, no semicolons.\n")
	prompt.WriteString("- SELECT only. Never DROP, TRUNCATE, ALTER, CREATE, EXEC, or EXECUTE.\n")
	prompt.WriteString("- Never invent a table or column name. If the request cannot be answered from the schema, return an empty sql field and explain why.\n")
	prompt.WriteString("- Use ILIKE with wildcards for free-text matching on names and notes.\n")
	prompt.WriteString("- Join through the foreign keys shown in the schema.\n\n")

	if len(in.Corrections) > 0 {
		prompt.WriteString("## Corrections Required\n\n")
		prompt.WriteString("Your previous attempt was rejected. Fix ALL of the following and regenerate:\n\n")
		for _, c := range in.Corrections {
			prompt.WriteString("- " + c + "\n")
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("## Output Format\n\n")
	prompt.WriteString("Respond in JSON with:\n")
	prompt.WriteString("- `sql`: The SELECT statement (empty string if the request cannot be answered)\n")
	prompt.WriteString("- `tables_used`: Array of table names the statement reads\n")
	prompt.WriteString("- `explanation`: One sentence describing what the query returns\n")
	prompt.WriteString("- `estimated_rows`: Rough expected row count (integer)\n\n")

	prompt.WriteString("Example:\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{
  "sql": "SELECT r.* FROM rooms r WHERE r.private_room_rent < 2000 AND r.bathroom_type = 'Private'",
  "tables_used": ["rooms"],
  "explanation": "Rooms under $2000 per month with a private bathroom.",
  "estimated_rows": 12
}
`)
	prompt.WriteString("```\n\n")

	prompt.WriteString("## User Request\n\n")
	prompt.WriteString(in.Query + "\n\n")
	prompt.WriteString("Return ONLY the JSON, no additional text.\n")

	return prompt.String()
}

// BuildSQLGenSystemMessage returns the system message for SQL generation.
func BuildSQLGenSystemMessage() string {
	return `You are a PostgreSQL query writer for a property management database. You work strictly from the schema you are given and refuse to reference anything outside it.`
}
