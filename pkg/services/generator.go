package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/logging"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/prompts"
	"github.com/homewiz/query-engine/pkg/schema"
	"github.com/homewiz/query-engine/pkg/sqlcheck"
)

// SQLGenerator turns a natural language query into one validated SELECT
// statement. Generation is a two-attempt state machine: a first attempt whose
// whitelist warnings feed one regeneration with explicit corrections, then
// fail closed. Fatal violations never get a second attempt.
type SQLGenerator struct {
	client    llm.LLMClient
	registry  *schema.Registry
	validator *sqlcheck.Validator
	logger    *zap.Logger
}

// NewSQLGenerator creates a generator over the given catalog.
func NewSQLGenerator(client llm.LLMClient, registry *schema.Registry, logger *zap.Logger) *SQLGenerator {
	return &SQLGenerator{
		client:    client,
		registry:  registry,
		validator: sqlcheck.NewValidator(registry),
		logger:    logger.Named("sqlgen"),
	}
}

// Generate produces a validated SQLSpec for the query, restricted to
// allowedTables. A non-JSON model response fails closed; nothing is ever
// guessed from free text.
func (g *SQLGenerator) Generate(ctx context.Context, query string, allowedTables []string) (*models.SQLSpec, error) {
	spec, result, err := g.attempt(ctx, query, allowedTables, nil)
	if err != nil {
		return nil, err
	}

	if !result.OK() {
		g.logger.Warn("generated SQL rejected",
			zap.String("query", logging.SanitizeQuery(query)),
			zap.Error(result.FatalError()))
		return nil, result.FatalError()
	}

	if result.Clean() {
		spec.SQLText = result.NormalizedSQL
		return spec, nil
	}

	// One regeneration with the validator's warnings as explicit corrections
	g.logger.Info("regenerating SQL with corrections",
		zap.Strings("corrections", result.Warnings))

	spec2, result2, err := g.attempt(ctx, query, allowedTables, result.Warnings)
	if err != nil {
		return nil, err
	}
	spec2.Regenerated = true

	if !result2.Clean() {
		if ferr := result2.FatalError(); ferr != nil {
			return nil, ferr
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTableNotAllowed, result2.Warnings)
	}

	spec2.SQLText = result2.NormalizedSQL
	return spec2, nil
}

// attempt runs one generation round: build the prompt, call the model, parse
// the spec, validate the SQL.
func (g *SQLGenerator) attempt(ctx context.Context, query string, allowedTables []string, corrections []string) (*models.SQLSpec, *sqlcheck.Result, error) {
	prompt := prompts.BuildSQLGenPrompt(prompts.SQLGenInput{
		Query:         query,
		SchemaText:    g.registry.FormatForSQL(allowedTables),
		EnumText:      g.registry.FormatEnumValues(allowedTables),
		AllowedTables: allowedTables,
		Corrections:   corrections,
	})

	resp, err := g.client.GenerateResponse(ctx, &llm.GenerateRequest{
		SystemPrompt: prompts.BuildSQLGenSystemMessage(),
		UserPrompt:   prompt,
		Temperature:  0.0,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("SQL generation call: %w", err)
	}

	spec, err := llm.ParseJSONResponse[models.SQLSpec](resp.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrNoSQLGenerated, err)
	}
	if spec.SQLText == "" {
		reason := spec.Explanation
		if reason == "" {
			reason = "model returned no SQL"
		}
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrNoSQLGenerated, reason)
	}

	result := g.validator.Validate(spec.SQLText, allowedTables)
	spec.ValidationErrors = append(spec.ValidationErrors, result.Warnings...)

	return &spec, result, nil
}
