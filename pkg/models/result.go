package models

// ExecutionResult is the uniform shape returned by the executor boundary.
// Rows come back as flat maps keyed by column name; Columns preserves the
// select-list order. On failure Data is empty and Error carries the store's
// message.
type ExecutionResult struct {
	Success  bool             `json:"success"`
	Data     []map[string]any `json:"data"`
	RowCount int              `json:"row_count"`
	Columns  []string         `json:"columns"`
	Error    string           `json:"error,omitempty"`
}

// ScoredRoom is a room row annotated with its deterministic score and the
// human-readable reasons each factor contributed.
type ScoredRoom struct {
	Room    map[string]any `json:"room"`
	Score   float64        `json:"score"`
	Reasons []string       `json:"reasons"`
}

// ScoredBuilding is a building row annotated with its score and reasons.
type ScoredBuilding struct {
	Building map[string]any `json:"building"`
	Score    float64        `json:"score"`
	Reasons  []string       `json:"reasons"`
}
