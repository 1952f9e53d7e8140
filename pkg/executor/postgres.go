package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/config"
	"github.com/homewiz/query-engine/pkg/logging"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/retry"
)

// PostgresExecutor runs statements against a pgx connection pool.
type PostgresExecutor struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ Executor = (*PostgresExecutor)(nil)

// NewPostgresExecutor connects to PostgreSQL using the given config. The
// initial ping is retried with backoff since the database may still be
// starting when the service comes up.
func NewPostgresExecutor(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*PostgresExecutor, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.MaxConnections
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = 5
	retryCfg.InitialDelay = 500 * time.Millisecond

	err = retry.Do(ctx, retryCfg, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pool.Ping(pingCtx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database at %s: %w",
			logging.SanitizeConnectionString(cfg.ConnectionString()), err)
	}

	logger.Info("connected to database",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresExecutor{
		pool:   pool,
		logger: logger.Named("executor"),
	}, nil
}

// Execute runs one read statement. Row values are returned as maps keyed by
// column name, with Columns preserving the select-list order.
func (e *PostgresExecutor) Execute(ctx context.Context, sqlText string, args ...any) (*models.ExecutionResult, error) {
	start := time.Now()

	rows, err := e.pool.Query(ctx, sqlText, args...)
	if err != nil {
		e.logger.Error("query failed",
			zap.String("sql", logging.TruncateString(sqlText, logging.MaxQueryLogLength)),
			zap.Error(err))
		return &models.ExecutionResult{
			Success: false,
			Error:   logging.SanitizeError(err),
		}, nil
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = string(f.Name)
	}

	var data []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return &models.ExecutionResult{
				Success: false,
				Columns: columns,
				Error:   logging.SanitizeError(err),
			}, nil
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return &models.ExecutionResult{
			Success: false,
			Columns: columns,
			Error:   logging.SanitizeError(err),
		}, nil
	}

	e.logger.Debug("query executed",
		zap.Int("rows", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	return &models.ExecutionResult{
		Success:  true,
		Data:     data,
		RowCount: len(data),
		Columns:  columns,
	}, nil
}

// ExecuteUpdate compiles the structured update and runs it, reporting the
// affected row count.
func (e *PostgresExecutor) ExecuteUpdate(ctx context.Context, spec *models.UpdateSpec) (*models.ExecutionResult, error) {
	sqlText, args, err := CompileUpdate(spec)
	if err != nil {
		return nil, err
	}

	tag, err := e.pool.Exec(ctx, sqlText, args...)
	if err != nil {
		e.logger.Error("update failed",
			zap.String("table", spec.Table),
			zap.Error(err))
		return &models.ExecutionResult{
			Success: false,
			Error:   logging.SanitizeError(err),
		}, nil
	}

	affected := int(tag.RowsAffected())
	e.logger.Info("update executed",
		zap.String("table", spec.Table),
		zap.Int("rows_affected", affected))

	return &models.ExecutionResult{
		Success:  true,
		RowCount: affected,
	}, nil
}

// Close releases the connection pool.
func (e *PostgresExecutor) Close() {
	e.pool.Close()
}
