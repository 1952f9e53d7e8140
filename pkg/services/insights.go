package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/dates"
	"github.com/homewiz/query-engine/pkg/executor"
	"github.com/homewiz/query-engine/pkg/models"
)

// insightKeywords maps trigger phrases to insight types. Earlier entries win
// so the more specific phrases come first.
var insightKeywords = []struct {
	insightType models.InsightType
	phrases     []string
}{
	{models.InsightLeadConversion, []string{"lead", "conversion", "converted"}},
	{models.InsightMaintenance, []string{"maintenance", "repair", "broken", "needs fixing"}},
	{models.InsightRoomPerformance, []string{"room performance", "best rooms", "top rooms", "worst rooms"}},
	{models.InsightBuildingPerformance, []string{"building performance", "best building", "compare buildings", "by building"}},
	{models.InsightOccupancy, []string{"occupancy", "occupied", "vacancy", "vacant", "how full"}},
	{models.InsightFinancial, []string{"revenue", "financial", "income", "earnings", "rent collected", "how much money"}},
	{models.InsightTenant, []string{"tenant", "payment status", "late payment", "overdue", "turnover"}},
	{models.InsightDashboard, []string{"dashboard", "overview", "summary", "how are we doing"}},
}

// InferInsightType maps a query onto an insight type by keyword. Returns
// false when the query asks for no recognizable analytics.
func InferInsightType(query string) (models.InsightType, bool) {
	q := strings.ToLower(query)
	for _, entry := range insightKeywords {
		for _, phrase := range entry.phrases {
			if strings.Contains(q, phrase) {
				return entry.insightType, true
			}
		}
	}
	return "", false
}

// InsightService computes aggregate analytics. Each insight type maps to one
// fixed aggregation spec; the only query-dependent part is the date window.
type InsightService struct {
	exec   executor.Executor
	logger *zap.Logger
}

// NewInsightService creates the service.
func NewInsightService(exec executor.Executor, logger *zap.Logger) *InsightService {
	return &InsightService{exec: exec, logger: logger.Named("insights")}
}

// Run infers the insight type from the query, builds and executes its
// aggregation, and returns the insight payload for the response envelope.
func (s *InsightService) Run(ctx context.Context, query string, now time.Time) (map[string]any, error) {
	insightType, ok := InferInsightType(query)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownInsightType, query)
	}
	return s.RunTyped(ctx, insightType, query, now)
}

// RunTyped executes the aggregation for an already-known insight type.
func (s *InsightService) RunTyped(ctx context.Context, insightType models.InsightType, query string, now time.Time) (map[string]any, error) {
	spec, err := BuildInsightSpec(insightType, query, now)
	if err != nil {
		return nil, err
	}
	sqlText := compileInsightSQL(spec)

	result, err := s.exec.Execute(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("insight aggregation failed: %s", result.Error)
	}

	s.logger.Debug("insight computed",
		zap.String("type", string(insightType)),
		zap.Int("rows", result.RowCount))

	payload := map[string]any{
		"insight_type": string(insightType),
		"data":         result.Data,
		"summary":      FormatSummary(insightType, result),
	}
	if !spec.DateRange.IsZero() {
		payload["date_range"] = spec.DateRange
	}
	return payload, nil
}

// BuildInsightSpec returns the aggregation spec for the insight type, with
// the date window parsed from the query relative to now. An insight type
// outside the catalog is an error, never a silent dashboard.
func BuildInsightSpec(insightType models.InsightType, query string, now time.Time) (*models.InsightSpec, error) {
	spec, err := baseInsightSpec(insightType)
	if err != nil {
		return nil, err
	}
	spec.InsightType = insightType

	if r, ok := dates.ParseRelativeRange(query, now); ok {
		spec.DateRange = *r
		if col := dateColumnFor(insightType); col != "" {
			spec.Filters = append(spec.Filters,
				fmt.Sprintf("%s >= '%s'", col, r.StartDate),
				fmt.Sprintf("%s <= '%s'", col, r.EndDate))
		}
	}

	return spec, nil
}

func baseInsightSpec(insightType models.InsightType) (*models.InsightSpec, error) {
	switch insightType {
	case models.InsightOccupancy:
		return &models.InsightSpec{
			Tables: []string{"rooms"},
			Aggregations: []string{
				"COUNT(*) AS total_rooms",
				"COUNT(*) FILTER (WHERE status = 'Occupied') AS occupied_rooms",
				"COUNT(*) FILTER (WHERE status = 'Available') AS available_rooms",
				"COUNT(*) FILTER (WHERE status = 'Maintenance') AS maintenance_rooms",
				"ROUND(100.0 * COUNT(*) FILTER (WHERE status = 'Occupied') / NULLIF(COUNT(*), 0), 1) AS occupancy_rate",
			},
		}, nil
	case models.InsightFinancial:
		return &models.InsightSpec{
			Tables: []string{"rooms"},
			Aggregations: []string{
				"SUM(private_room_rent) FILTER (WHERE status = 'Occupied') AS monthly_revenue",
				"SUM(private_room_rent) AS potential_revenue",
				"ROUND(AVG(private_room_rent)::numeric, 2) AS average_rent",
			},
		}, nil
	case models.InsightLeadConversion:
		return &models.InsightSpec{
			Tables: []string{"leads"},
			Aggregations: []string{
				"COUNT(*) AS total_leads",
				"COUNT(*) FILTER (WHERE status = 'Converted') AS converted_leads",
				"COUNT(*) FILTER (WHERE status = 'Lost') AS lost_leads",
				"ROUND(100.0 * COUNT(*) FILTER (WHERE status = 'Converted') / NULLIF(COUNT(*), 0), 1) AS conversion_rate",
			},
		}, nil
	case models.InsightMaintenance:
		return &models.InsightSpec{
			Tables: []string{"rooms"},
			Joins:  []string{"JOIN buildings ON rooms.building_id = buildings.building_id"},
			Aggregations: []string{
				"buildings.building_name",
				"COUNT(*) FILTER (WHERE rooms.status = 'Maintenance') AS maintenance_rooms",
			},
			GroupBy: []string{"buildings.building_name"},
			OrderBy: "maintenance_rooms DESC",
		}, nil
	case models.InsightRoomPerformance:
		return &models.InsightSpec{
			Tables: []string{"rooms"},
			Joins:  []string{"JOIN buildings ON rooms.building_id = buildings.building_id"},
			Aggregations: []string{
				"rooms.room_number",
				"buildings.building_name",
				"rooms.private_room_rent",
				"rooms.status",
			},
			OrderBy: "rooms.private_room_rent DESC",
			Limit:   10,
		}, nil
	case models.InsightBuildingPerformance:
		return &models.InsightSpec{
			Tables: []string{"rooms"},
			Joins:  []string{"JOIN buildings ON rooms.building_id = buildings.building_id"},
			Aggregations: []string{
				"buildings.building_name",
				"COUNT(*) AS total_rooms",
				"COUNT(*) FILTER (WHERE rooms.status = 'Occupied') AS occupied_rooms",
				"ROUND(100.0 * COUNT(*) FILTER (WHERE rooms.status = 'Occupied') / NULLIF(COUNT(*), 0), 1) AS occupancy_rate",
				"ROUND(AVG(rooms.private_room_rent)::numeric, 2) AS average_rent",
			},
			GroupBy: []string{"buildings.building_name"},
			OrderBy: "occupancy_rate DESC",
		}, nil
	case models.InsightTenant:
		return &models.InsightSpec{
			Tables: []string{"tenants"},
			Aggregations: []string{
				"COUNT(*) AS total_tenants",
				"COUNT(*) FILTER (WHERE payment_status = 'Current') AS current_tenants",
				"COUNT(*) FILTER (WHERE payment_status = 'Late') AS late_tenants",
				"COUNT(*) FILTER (WHERE payment_status = 'Overdue') AS overdue_tenants",
			},
		}, nil
	case models.InsightDashboard:
		return &models.InsightSpec{
			Tables: []string{"rooms"},
			Aggregations: []string{
				"COUNT(*) AS total_rooms",
				"COUNT(*) FILTER (WHERE status = 'Occupied') AS occupied_rooms",
				"COUNT(*) FILTER (WHERE status = 'Available') AS available_rooms",
				"SUM(private_room_rent) FILTER (WHERE status = 'Occupied') AS monthly_revenue",
				"ROUND(AVG(private_room_rent)::numeric, 2) AS average_rent",
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownInsightType, insightType)
	}
}

// dateColumnFor names the timestamp column the date window filters on.
// Aggregations over current state (occupancy, dashboards) have no history
// column, so their window is informational only.
func dateColumnFor(insightType models.InsightType) string {
	switch insightType {
	case models.InsightLeadConversion:
		return "created_at"
	case models.InsightTenant:
		return "created_at"
	default:
		return ""
	}
}

// compileInsightSQL renders the spec as one SELECT statement. Specs are
// built entirely from code and parsed dates, never from user text, so the
// rendering is plain string assembly.
func compileInsightSQL(spec *models.InsightSpec) string {
	var b strings.Builder

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(spec.Aggregations, ", "))
	b.WriteString(" FROM ")
	b.WriteString(spec.Tables[0])

	for _, join := range spec.Joins {
		b.WriteString(" ")
		b.WriteString(join)
	}
	if len(spec.Filters) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(spec.Filters, " AND "))
	}
	if len(spec.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(spec.GroupBy, ", "))
	}
	if spec.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(spec.OrderBy)
	}
	if spec.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", spec.Limit)
	}

	return b.String()
}

// FormatSummary renders a one-line human summary of an insight result.
// Single-row aggregates become "key: value" pairs; multi-row results report
// the row count with a pluralized noun.
func FormatSummary(insightType models.InsightType, result *models.ExecutionResult) string {
	if result.RowCount == 0 || len(result.Data) == 0 {
		return "No data for this period."
	}

	noun := summaryNoun(insightType)

	if result.RowCount == 1 {
		row := result.Data[0]
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if row[k] == nil {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ReplaceAll(k, "_", " "), cast.ToString(row[k])))
		}
		return strings.Join(parts, ", ")
	}

	return fmt.Sprintf("%d %s analyzed.", result.RowCount, inflection.Plural(noun))
}

func summaryNoun(insightType models.InsightType) string {
	switch insightType {
	case models.InsightLeadConversion:
		return "lead"
	case models.InsightTenant:
		return "tenant"
	case models.InsightBuildingPerformance, models.InsightMaintenance:
		return "building"
	default:
		return "room"
	}
}
