package models

// InsightType enumerates the supported analytics categories.
type InsightType string

const (
	InsightOccupancy           InsightType = "OCCUPANCY"
	InsightFinancial           InsightType = "FINANCIAL"
	InsightLeadConversion      InsightType = "LEAD_CONVERSION"
	InsightMaintenance         InsightType = "MAINTENANCE"
	InsightRoomPerformance     InsightType = "ROOM_PERFORMANCE"
	InsightBuildingPerformance InsightType = "BUILDING_PERFORMANCE"
	InsightTenant              InsightType = "TENANT"
	InsightDashboard           InsightType = "DASHBOARD"
)

// DateRange is an absolute date window in ISO YYYY-MM-DD form, produced by
// the relative-date parser. Either bound may be empty.
type DateRange struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// IsZero reports whether no bound was parsed.
func (r DateRange) IsZero() bool {
	return r.StartDate == "" && r.EndDate == ""
}

// InsightSpec describes one analytics aggregation. Each spec maps 1:1 to a
// SQL statement built by the insight service.
type InsightSpec struct {
	InsightType  InsightType `json:"insight_type"`
	Tables       []string    `json:"tables"`
	Joins        []string    `json:"joins,omitempty"`
	Aggregations []string    `json:"aggregations"`
	Filters      []string    `json:"filters,omitempty"`
	GroupBy      []string    `json:"group_by,omitempty"`
	OrderBy      string      `json:"order_by,omitempty"`
	Limit        int         `json:"limit,omitempty"`
	DateRange    DateRange   `json:"date_range,omitempty"`
}
