// Package services implements the query pipeline: intent dispatch, criteria
// extraction, SQL generation, structured updates, scoring, and insights.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/logging"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/prompts"
)

// The two functions the pipeline dispatches to. The registry is closed: the
// model chooses from this catalog and nothing else.
const (
	FunctionUniversalQuery = "universal_query_function"
	FunctionUpdate         = "update_function"
)

// Keyword patterns drive the fallback classifier when the model's routing
// decision is unavailable or unparseable. Mutation verbs route to the update
// function; question and search words route to the read function.
var (
	updateKeywordPattern = regexp.MustCompile(`\b(update|change|modify|set|mark|edit|fix|correct)\b`)
	queryKeywordPattern  = regexp.MustCompile(`\b(find|show|search|list|display|get|count|what|which|who|where|how many|how much|rooms?|buildings?|tenants?|leads?|tours?|available|occupancy)\b`)
)

// HandlerFunc processes a dispatched call for one registered function.
type HandlerFunc func(ctx context.Context, call *models.FunctionCall, query *models.Query) *models.FrontendResponse

type registeredFunction struct {
	descriptor prompts.FunctionDescriptor
	handler    HandlerFunc
}

// Dispatcher routes a natural language query to one registered function. The
// model classifies intent; a deterministic keyword fallback covers model
// failures so routing itself never depends on the LLM being up.
type Dispatcher struct {
	client   llm.LLMClient
	logger   *zap.Logger
	registry map[string]registeredFunction
	order    []string
}

// NewDispatcher creates a dispatcher with an empty registry.
func NewDispatcher(client llm.LLMClient, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		logger:   logger.Named("dispatcher"),
		registry: make(map[string]registeredFunction),
	}
}

// Register adds a function to the registry. Registration order determines
// catalog order in the dispatch prompt.
func (d *Dispatcher) Register(desc prompts.FunctionDescriptor, handler HandlerFunc) {
	if _, exists := d.registry[desc.Name]; !exists {
		d.order = append(d.order, desc.Name)
	}
	d.registry[desc.Name] = registeredFunction{descriptor: desc, handler: handler}
}

// Dispatch classifies the query and returns the routing decision. The
// returned call always names a registered function; an unregistered name from
// the model is an error, never a silent pass-through.
func (d *Dispatcher) Dispatch(ctx context.Context, queryText string) (*models.FunctionCall, error) {
	call, err := d.classify(ctx, queryText)
	if err != nil {
		return nil, err
	}

	if _, ok := d.registry[call.FunctionName]; !ok {
		return nil, &apperrors.FunctionNotFoundError{Name: call.FunctionName}
	}

	// Handlers always see the query text, whatever the model returned
	if call.Parameters == nil {
		call.Parameters = map[string]any{}
	}
	if _, ok := call.Parameters["query"]; !ok {
		call.Parameters["query"] = queryText
	}

	return call, nil
}

// Handle invokes the registered handler for an already-dispatched call.
func (d *Dispatcher) Handle(ctx context.Context, call *models.FunctionCall, query *models.Query) *models.FrontendResponse {
	fn, ok := d.registry[call.FunctionName]
	if !ok {
		return models.FailureResponse(fmt.Sprintf("Function '%s' not found in registry", call.FunctionName))
	}
	return fn.handler(ctx, call, query)
}

// classify asks the model for a routing decision, falling back to keyword
// classification when the model fails or returns garbage.
func (d *Dispatcher) classify(ctx context.Context, queryText string) (*models.FunctionCall, error) {
	prompt := prompts.BuildDispatchPrompt(queryText, d.catalog())

	resp, err := d.client.GenerateResponse(ctx, &llm.GenerateRequest{
		SystemPrompt: prompts.BuildDispatchSystemMessage(),
		UserPrompt:   prompt,
		Temperature:  0.0,
	})
	if err != nil {
		d.logger.Warn("dispatch model call failed, using keyword fallback",
			zap.String("query", logging.SanitizeQuery(queryText)),
			zap.Error(err))
		return d.fallback(queryText)
	}

	call, err := llm.ParseJSONResponse[models.FunctionCall](resp.Content)
	if err != nil || call.FunctionName == "" {
		d.logger.Warn("dispatch response unparseable, using keyword fallback",
			zap.String("query", logging.SanitizeQuery(queryText)),
			zap.Error(err))
		return d.fallback(queryText)
	}

	d.logger.Debug("dispatched",
		zap.String("function", call.FunctionName),
		zap.Float64("confidence", call.Confidence))

	return &call, nil
}

// fallback is the deterministic keyword classifier. Mutation verbs route to
// the update function and question or search words route to the read
// function; a query matching neither keyword set is an error, never a guess.
func (d *Dispatcher) fallback(queryText string) (*models.FunctionCall, error) {
	q := strings.ToLower(queryText)

	var name string
	switch {
	case updateKeywordPattern.MatchString(q):
		name = FunctionUpdate
	case queryKeywordPattern.MatchString(q):
		name = FunctionUniversalQuery
	default:
		return nil, fmt.Errorf("%w: could not classify %q", apperrors.ErrUnroutableQuery, queryText)
	}

	return &models.FunctionCall{
		FunctionName: name,
		Parameters:   map[string]any{"query": queryText},
		Confidence:   0.3,
		Reasoning:    "keyword fallback",
	}, nil
}

func (d *Dispatcher) catalog() []prompts.FunctionDescriptor {
	descs := make([]prompts.FunctionDescriptor, 0, len(d.order))
	for _, name := range d.order {
		descs = append(descs, d.registry[name].descriptor)
	}
	return descs
}
