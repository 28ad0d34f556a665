package loader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// PgQuerier is satisfied by *pgxpool.Pool and *pgx.Conn.
type PgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the plays and defense_allowed tables from PostgreSQL.
type PostgresSource struct {
	DB     PgQuerier
	Logger *zap.Logger
}

// OpenPostgres connects a pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) LoadPlays(ctx context.Context) ([]models.PlayRecord, error) {
	rows, err := s.DB.Query(ctx, selectPlaysSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlays(ctx, rows)
}

func (s *PostgresSource) LoadDefense(ctx context.Context) (models.DefenseTables, error) {
	rows, err := s.DB.Query(ctx, selectDefenseSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDefense(rows, s.Logger)
}
