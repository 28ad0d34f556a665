package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// ClickHouseSource reads the plays and defense_allowed tables from ClickHouse.
type ClickHouseSource struct {
	Conn   driver.Conn
	Logger *zap.Logger
}

// OpenClickHouse parses a clickhouse:// DSN, opens a connection and pings it.
func OpenClickHouse(ctx context.Context, dsn string) (driver.Conn, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return conn, nil
}

func (s *ClickHouseSource) Name() string { return "clickhouse" }

func (s *ClickHouseSource) LoadPlays(ctx context.Context) ([]models.PlayRecord, error) {
	rows, err := s.Conn.Query(ctx, selectPlaysSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlays(ctx, rows)
}

func (s *ClickHouseSource) LoadDefense(ctx context.Context) (models.DefenseTables, error) {
	rows, err := s.Conn.Query(ctx, selectDefenseSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDefense(rows, s.Logger)
}

// ApplyClickHouseSchema creates the tables one statement at a time.
func ApplyClickHouseSchema(ctx context.Context, conn driver.Conn) error {
	for _, stmt := range strings.Split(ClickHouseSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
