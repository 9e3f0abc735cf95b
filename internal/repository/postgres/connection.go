package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"resumebank/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Banks     string
	Folders   string
	Resumes   string
	Blobs     string
	Companies string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Banks:     fmt.Sprintf("%sbanks", prefix),
		Folders:   fmt.Sprintf("%sfolders", prefix),
		Resumes:   fmt.Sprintf("%sresumes", prefix),
		Blobs:     fmt.Sprintf("%sblobs", prefix),
		Companies: fmt.Sprintf("%scompanies", prefix),
	}
}

// All returns the tables in dependency order (children last)
func (t *TableNames) All() []string {
	return []string{t.Banks, t.Folders, t.Resumes, t.Blobs, t.Companies}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Port 6543 is the Supabase transaction pooler (PgBouncer), which does not
// support prepared statements. For that port the pool switches to
// QueryExecModeCacheDescribe, which still uses the extended protocol so JSONB
// and array parameters encode correctly. An explicit default_query_exec_mode
// in the connection string takes precedence.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches the
// server, so each environment gets its own statement cache entries.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// Repositories call this so they join a surrounding ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
