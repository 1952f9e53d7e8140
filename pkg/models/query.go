// Package models defines the data structures passed between pipeline stages.
package models

// UserContext carries the caller's identity attributes. It arrives with every
// request; the pipeline itself holds no per-user state.
type UserContext struct {
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}

// HasPermission reports whether the context carries the given permission.
func (c UserContext) HasPermission(p string) bool {
	for _, perm := range c.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// Query is a single natural-language request moving through the pipeline.
type Query struct {
	Text        string      `json:"query"`
	UserContext UserContext `json:"user_context"`
}

// FunctionCall is the dispatcher's routing decision: which registered
// function should handle the query, with what parameters, and how confident
// the model was. Consumed immediately, never persisted.
type FunctionCall struct {
	FunctionName string         `json:"function_name"`
	Parameters   map[string]any `json:"parameters"`
	Confidence   float64        `json:"confidence"`
	Reasoning    string         `json:"reasoning,omitempty"`
}

// FrontendResponse is the uniform response envelope. Every failure path still
// produces a well-formed FrontendResponse with Success=false; the pipeline
// never lets an error propagate past the processor.
type FrontendResponse struct {
	Success        bool             `json:"success"`
	QueryType      string           `json:"query_type,omitempty"`
	FunctionCalled string           `json:"function_called,omitempty"`
	Message        string           `json:"message,omitempty"`
	Data           []map[string]any `json:"data,omitempty"`
	TotalResults   int              `json:"total_results"`
	Confidence     float64          `json:"confidence,omitempty"`
	SQL            string           `json:"sql,omitempty"`
	Insights       map[string]any   `json:"insights,omitempty"`
	Suggestions    []string         `json:"suggestions,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// FailureResponse builds the standard failure envelope.
func FailureResponse(msg string) *FrontendResponse {
	return &FrontendResponse{Success: false, Error: msg}
}
