package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/apperrors"
	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/logging"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/prompts"
	"github.com/homewiz/query-engine/pkg/schema"
	"github.com/homewiz/query-engine/pkg/sqlcheck"
)

// UpdateGenerator turns a natural language mutation request into a validated
// structured update. The model never writes UPDATE SQL; it emits a spec that
// is checked column by column against the catalog and compiled to a
// parameterized statement by the executor. There is no regeneration path for
// updates: any violation fails closed.
type UpdateGenerator struct {
	client   llm.LLMClient
	registry *schema.Registry
	logger   *zap.Logger
}

// NewUpdateGenerator creates a generator over the given catalog.
func NewUpdateGenerator(client llm.LLMClient, registry *schema.Registry, logger *zap.Logger) *UpdateGenerator {
	return &UpdateGenerator{
		client:   client,
		registry: registry,
		logger:   logger.Named("updategen"),
	}
}

// updatePhraseReplacements rewrites common phrasings into the column
// vocabulary the model sees in the prompt, applied in order.
var updatePhraseReplacements = [][2]string{
	{"has fitness center set", "fitness_area to"},
	{"wifi included", "wifi_included"},
	{"fitness center", "fitness_area"},
	{"Modify", "Update"},
	{"set True", "to true"},
	{"set False", "to false"},
}

// preprocessQuery normalizes an update request before prompting.
func preprocessQuery(query string) string {
	for _, r := range updatePhraseReplacements {
		query = strings.ReplaceAll(query, r[0], r[1])
	}
	return query
}

// Generate produces a validated UpdateSpec for the request, restricted to
// allowedTables.
func (g *UpdateGenerator) Generate(ctx context.Context, query string, allowedTables []string) (*models.UpdateSpec, error) {
	if len(allowedTables) == 0 {
		return nil, fmt.Errorf("%w: caller has no update rights", apperrors.ErrTableNotAllowed)
	}

	prompt := prompts.BuildUpdateGenPrompt(prompts.UpdateGenInput{
		Query:         preprocessQuery(query),
		SchemaText:    g.registry.FormatForUpdates(allowedTables),
		EnumText:      g.registry.FormatEnumValues(allowedTables),
		AllowedTables: allowedTables,
	})

	resp, err := g.client.GenerateResponse(ctx, &llm.GenerateRequest{
		SystemPrompt: prompts.BuildUpdateGenSystemMessage(),
		UserPrompt:   prompt,
		Temperature:  0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("update generation call: %w", err)
	}

	spec, err := llm.ParseJSONResponse[models.UpdateSpec](resp.Content)
	if err != nil {
		return nil, fmt.Errorf("update spec unparseable: %w", err)
	}

	if err := g.ValidateSpec(&spec, allowedTables); err != nil {
		g.logger.Warn("update spec rejected",
			zap.String("query", logging.SanitizeQuery(query)),
			zap.String("table", spec.Table),
			zap.Error(err))
		return nil, err
	}

	return &spec, nil
}

// ValidateSpec checks a structured update against the catalog and whitelist.
// Enum values with a case mismatch are corrected in place; everything else
// that deviates is a hard rejection.
func (g *UpdateGenerator) ValidateSpec(spec *models.UpdateSpec, allowedTables []string) error {
	if spec.Table == "" {
		return fmt.Errorf("%w: update spec names no table", apperrors.ErrUnknownTable)
	}
	if !g.registry.HasTable(spec.Table) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownTable, spec.Table)
	}
	if !schema.IsTableAllowed(spec.Table, allowedTables) {
		return fmt.Errorf("%w: %s", apperrors.ErrTableNotAllowed, spec.Table)
	}

	if len(spec.UpdateData) == 0 {
		return fmt.Errorf("update spec for %s sets no columns", spec.Table)
	}
	for column, value := range spec.UpdateData {
		if !g.registry.HasColumn(spec.Table, column) {
			return fmt.Errorf("%w: %s.%s", apperrors.ErrUnknownColumn, spec.Table, column)
		}
		if g.registry.IsPrimaryKey(spec.Table, column) {
			return fmt.Errorf("%w: %s.%s", apperrors.ErrPrimaryKeyUpdate, spec.Table, column)
		}
		if s, ok := value.(string); ok {
			canonical, valid := g.registry.ValidateValue(spec.Table, column, s)
			if !valid {
				return fmt.Errorf("invalid value %q for %s.%s", s, spec.Table, column)
			}
			spec.UpdateData[column] = canonical
		}
	}

	if len(spec.WhereConditions) == 0 {
		return apperrors.ErrMissingWhereClause
	}
	for i, cond := range spec.WhereConditions {
		if !g.registry.HasColumn(spec.Table, cond.Column) {
			return fmt.Errorf("%w: %s.%s in condition", apperrors.ErrUnknownColumn, spec.Table, cond.Column)
		}
		if !models.IsValidConditionOperator(cond.Operator) {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidOperator, cond.Operator)
		}
		if s, ok := cond.Value.(string); ok && cond.Operator == "eq" {
			if canonical, valid := g.registry.ValidateValue(spec.Table, cond.Column, s); valid {
				spec.WhereConditions[i].Value = canonical
			}
		}
	}

	if err := g.screenForInjection(spec); err != nil {
		return err
	}

	return nil
}

// screenForInjection runs every string value in the spec through the
// injection detector.
func (g *UpdateGenerator) screenForInjection(spec *models.UpdateSpec) error {
	if hits := sqlcheck.CheckAllValues(spec.UpdateData); len(hits) > 0 {
		return fmt.Errorf("%w: update value for %s", apperrors.ErrInjectionDetected, hits[0].Name)
	}
	for _, cond := range spec.WhereConditions {
		if hit := sqlcheck.CheckValueForInjection(cond.Column, cond.Value); hit != nil {
			return fmt.Errorf("%w: condition value for %s", apperrors.ErrInjectionDetected, cond.Column)
		}
	}
	return nil
}
