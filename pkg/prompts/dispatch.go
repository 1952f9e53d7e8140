// Package prompts builds the LLM prompts for intent dispatch, criteria
// extraction, SQL generation, and structured updates. Every builder is a pure
// function of its inputs so prompt text is stable across runs.
package prompts

import (
	"fmt"
	"strings"
)

// FunctionDescriptor describes one dispatchable function for the catalog.
type FunctionDescriptor struct {
	Name        string
	Description string
	Examples    []string
}

// BuildDispatchPrompt creates the intent classification prompt. The model
// picks exactly one function from the catalog and returns a JSON call.
func BuildDispatchPrompt(query string, functions []FunctionDescriptor) string {
	var prompt strings.Builder

	prompt.WriteString("# Query Intent Classification\n\n")
	prompt.WriteString("Classify the user's request and select exactly one function from the catalog below.\n\n")

	prompt.WriteString("## Function Catalog\n\n")
	for _, fn := range functions {
		prompt.WriteString(fmt.Sprintf("### %s\n", fn.Name))
		prompt.WriteString(fn.Description + "\n")
		if len(fn.Examples) > 0 {
			prompt.WriteString("Examples:\n")
			for _, ex := range fn.Examples {
				prompt.WriteString(fmt.Sprintf("- %q\n", ex))
			}
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("## Rules\n\n")
	prompt.WriteString("- Requests that read, search, count, or summarize data are queries.\n")
	prompt.WriteString("- Requests that change stored data (update, change, modify, set, mark, edit, fix, correct) are updates.\n")
	prompt.WriteString("- When in doubt, prefer the query function; updates must be clearly intended.\n\n")

	prompt.WriteString("## Output Format\n\n")
	prompt.WriteString("Respond in JSON with:\n")
	prompt.WriteString("- `function_name`: The function name, exactly as listed above\n")
	prompt.WriteString("- `parameters`: Object with a `query` key carrying the user's request text\n")
	prompt.WriteString("- `confidence`: 0.0-1.0\n")
	prompt.WriteString("- `reasoning`: Brief explanation (1 sentence)\n\n")

	prompt.WriteString("Example:\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{
  "function_name": "universal_query_function",
  "parameters": {"query": "show me available rooms under $2000"},
  "confidence": 0.95,
  "reasoning": "The user wants to search room listings, which is a read."
}
`)
	prompt.WriteString("```\n\n")

	prompt.WriteString("## User Request\n\n")
	prompt.WriteString(query + "\n\n")
	prompt.WriteString("Return ONLY the JSON, no additional text.\n")

	return prompt.String()
}

// BuildDispatchSystemMessage returns the system message for intent dispatch.
func BuildDispatchSystemMessage() string {
	return `You are an intent classifier for a property management assistant. You map natural language requests onto a fixed catalog of functions and never invent function names.`
}
