package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/executor"
	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/logging"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/prompts"
	"github.com/homewiz/query-engine/pkg/schema"
)

// Processor orchestrates the full pipeline: dispatch, extraction, SQL
// generation, execution, scoring, and insights. Process never returns a Go
// error; every failure becomes a well-formed response envelope.
type Processor struct {
	dispatcher *Dispatcher
	extractor  *CriteriaExtractor
	generator  *SQLGenerator
	updateGen  *UpdateGenerator
	insights   *InsightService
	exec       executor.Executor
	registry   *schema.Registry
	logger     *zap.Logger
	now        func() time.Time
}

// ProcessorOption customizes a Processor.
type ProcessorOption func(*Processor)

// WithClock injects the reference time source. Tests use a fixed clock so
// scoring and date windows are reproducible.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.now = now
	}
}

// NewProcessor wires the pipeline and registers the function catalog.
func NewProcessor(client llm.LLMClient, exec executor.Executor, registry *schema.Registry, logger *zap.Logger, opts ...ProcessorOption) *Processor {
	p := &Processor{
		dispatcher: NewDispatcher(client, logger),
		extractor:  NewCriteriaExtractor(client, registry, logger),
		generator:  NewSQLGenerator(client, registry, logger),
		updateGen:  NewUpdateGenerator(client, registry, logger),
		insights:   NewInsightService(exec, logger),
		exec:       exec,
		registry:   registry,
		logger:     logger.Named("processor"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.dispatcher.Register(prompts.FunctionDescriptor{
		Name:        FunctionUniversalQuery,
		Description: "Answers read-only questions about rooms, buildings, tenants, leads, and bookings: searches, counts, lists, and analytics.",
		Examples: []string{
			"show me available rooms under $2000",
			"which buildings have a gym",
			"occupancy for last month",
		},
	}, p.handleQuery)

	p.dispatcher.Register(prompts.FunctionDescriptor{
		Name:        FunctionUpdate,
		Description: "Modifies stored data when the user clearly asks for a change: status updates, corrections, reassignments.",
		Examples: []string{
			"mark room 301 as under maintenance",
			"change tenant Smith's payment status to Current",
		},
	}, p.handleUpdate)

	return p
}

// Process runs one query end to end. The returned envelope always has either
// Success=true with data or Success=false with an error message; callers
// never see a Go error.
func (p *Processor) Process(ctx context.Context, query *models.Query) *models.FrontendResponse {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		resp := models.FailureResponse("query is empty")
		resp.Suggestions = p.suggestionsFor(query.UserContext)
		return resp
	}
	query.Text = text

	p.logger.Info("processing query",
		zap.String("query", logging.SanitizeQuery(text)),
		zap.String("role", query.UserContext.Role))

	call, err := p.dispatcher.Dispatch(ctx, text)
	if err != nil {
		resp := models.FailureResponse(err.Error())
		resp.Suggestions = p.suggestionsFor(query.UserContext)
		return resp
	}

	resp := p.dispatcher.Handle(ctx, call, query)
	resp.FunctionCalled = call.FunctionName
	if resp.Confidence == 0 {
		resp.Confidence = call.Confidence
	}
	if !resp.Success && len(resp.Suggestions) == 0 {
		resp.Suggestions = p.suggestionsFor(query.UserContext)
	}
	return resp
}

// Validate runs dispatch and generation without touching the store. The
// response carries the SQL or update plan that would have executed.
func (p *Processor) Validate(ctx context.Context, query *models.Query) *models.FrontendResponse {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return models.FailureResponse("query is empty")
	}

	call, err := p.dispatcher.Dispatch(ctx, text)
	if err != nil {
		return models.FailureResponse(err.Error())
	}

	switch call.FunctionName {
	case FunctionUpdate:
		allowed := p.registry.UpdateTables(query.UserContext.Permissions)
		spec, err := p.updateGen.Generate(ctx, text, allowed)
		if err != nil {
			return models.FailureResponse(err.Error())
		}
		sqlText, _, cerr := executor.CompileUpdate(spec)
		if cerr != nil {
			return models.FailureResponse(cerr.Error())
		}
		return &models.FrontendResponse{
			Success:        true,
			QueryType:      "update",
			FunctionCalled: call.FunctionName,
			Message:        spec.Explanation,
			SQL:            sqlText,
			Confidence:     call.Confidence,
		}
	default:
		allowed := p.registry.QueryTables(query.UserContext.Permissions)
		spec, err := p.generator.Generate(ctx, text, allowed)
		if err != nil {
			return models.FailureResponse(err.Error())
		}
		return &models.FrontendResponse{
			Success:        true,
			QueryType:      "query",
			FunctionCalled: call.FunctionName,
			Message:        spec.Explanation,
			SQL:            spec.SQLText,
			Confidence:     call.Confidence,
			Warnings:       spec.ValidationErrors,
		}
	}
}

// handleQuery is the read path: criteria, SQL, execution, scoring, insights.
func (p *Processor) handleQuery(ctx context.Context, call *models.FunctionCall, query *models.Query) *models.FrontendResponse {
	text := query.Text
	allowed := p.registry.QueryTables(query.UserContext.Permissions)

	criteria := p.extractor.ExtractRoomCriteria(ctx, text)
	if criteria.Invalid {
		resp := models.FailureResponse("the price range in the request is inconsistent")
		resp.QueryType = "query"
		resp.Warnings = criteria.Warnings
		return resp
	}

	spec, err := p.generator.Generate(ctx, text, allowed)
	if err != nil {
		resp := models.FailureResponse(err.Error())
		resp.QueryType = "query"
		resp.Warnings = criteria.Warnings
		return resp
	}

	result, err := p.exec.Execute(ctx, spec.SQLText)
	if err != nil {
		resp := models.FailureResponse(err.Error())
		resp.QueryType = "query"
		resp.SQL = spec.SQLText
		return resp
	}
	if !result.Success {
		resp := models.FailureResponse(result.Error)
		resp.QueryType = "query"
		resp.SQL = spec.SQLText
		return resp
	}

	data := result.Data
	if isRoomResult(result.Columns) {
		data = p.scoreRooms(result.Data, criteria)
	}

	resp := &models.FrontendResponse{
		Success:      true,
		QueryType:    "query",
		Message:      spec.Explanation,
		Data:         data,
		TotalResults: result.RowCount,
		SQL:          spec.SQLText,
		Warnings:     append(criteria.Warnings, spec.ValidationErrors...),
	}

	if insightType, ok := InferInsightType(text); ok {
		insights, ierr := p.insights.RunTyped(ctx, insightType, text, p.now())
		if ierr != nil {
			p.logger.Warn("insight computation failed", zap.Error(ierr))
		} else {
			resp.Insights = insights
		}
	}

	if result.RowCount == 0 {
		resp.Message = "No results matched the request."
		resp.Suggestions = p.suggestionsFor(query.UserContext)
	}

	return resp
}

// handleUpdate is the write path: structured spec, validation, execution.
func (p *Processor) handleUpdate(ctx context.Context, call *models.FunctionCall, query *models.Query) *models.FrontendResponse {
	allowed := p.registry.UpdateTables(query.UserContext.Permissions)
	if len(allowed) == 0 {
		resp := models.FailureResponse("you do not have permission to modify data")
		resp.QueryType = "update"
		return resp
	}

	spec, err := p.updateGen.Generate(ctx, query.Text, allowed)
	if err != nil {
		resp := models.FailureResponse(err.Error())
		resp.QueryType = "update"
		return resp
	}

	result, err := p.exec.ExecuteUpdate(ctx, spec)
	if err != nil {
		resp := models.FailureResponse(err.Error())
		resp.QueryType = "update"
		return resp
	}
	if !result.Success {
		resp := models.FailureResponse(result.Error)
		resp.QueryType = "update"
		return resp
	}

	message := spec.Explanation
	if message == "" {
		message = fmt.Sprintf("Updated %s.", spec.Table)
	}

	return &models.FrontendResponse{
		Success:      true,
		QueryType:    "update",
		Message:      fmt.Sprintf("%s %d row(s) affected.", message, result.RowCount),
		TotalResults: result.RowCount,
	}
}

// scoreRooms ranks room rows and annotates each with its score and reasons.
func (p *Processor) scoreRooms(rows []map[string]any, criteria *models.RoomCriteria) []map[string]any {
	scorer := NewRoomScorer(p.now())
	scored := scorer.Score(rows, criteria)

	out := make([]map[string]any, len(scored))
	for i, s := range scored {
		row := make(map[string]any, len(s.Room)+2)
		for k, v := range s.Room {
			row[k] = v
		}
		row["match_score"] = s.Score
		if len(s.Reasons) > 0 {
			row["match_reasons"] = s.Reasons
		}
		out[i] = row
	}
	return out
}

// isRoomResult reports whether the result rows look like room rows. Scoring
// only makes sense when the select list carries room attributes.
func isRoomResult(columns []string) bool {
	for _, col := range columns {
		if col == "room_id" || col == "room_number" {
			return true
		}
	}
	return false
}

// suggestionsFor offers example queries matched to the caller's role.
func (p *Processor) suggestionsFor(userCtx models.UserContext) []string {
	switch {
	case userCtx.HasPermission(schema.PermissionAdmin), userCtx.HasPermission(schema.PermissionManager):
		return []string{
			"Show occupancy for last month",
			"Which tenants are late on payments?",
			"Revenue by building this quarter",
		}
	case userCtx.HasPermission(schema.PermissionAgent):
		return []string{
			"Show leads contacted last week",
			"Which rooms are available for viewing?",
			"Mark lead status as Interested",
		}
	default:
		return []string{
			"Show me available rooms under $2000",
			"Rooms with a private bathroom",
			"Which buildings have a gym?",
		}
	}
}
