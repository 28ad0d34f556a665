package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/config"
	"github.com/playpredict/forecast-api/internal/models"
)

// Open builds the Source selected by cfg.DataSource. The returned close
// function releases any database handle and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Source, func(), error) {
	noop := func() {}
	defense := DefensePaths{
		models.CategoryRushing:   cfg.DefenseRushingPath,
		models.CategoryReceiving: cfg.DefenseReceivingPath,
		models.CategoryPassing:   cfg.DefensePassingPath,
	}

	switch cfg.DataSource {
	case config.SourceCSV:
		return &CSVSource{PlaysPath: cfg.PlaysPath, Defense: defense, Logger: logger}, noop, nil

	case config.SourceJSON:
		return &JSONSource{PlaysPath: cfg.PlaysPath, Defense: defense, Logger: logger}, noop, nil

	case config.SourcePostgres:
		pool, err := OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		return &PostgresSource{DB: pool, Logger: logger}, pool.Close, nil

	case config.SourceClickHouse:
		conn, err := OpenClickHouse(ctx, cfg.ClickHouseURL)
		if err != nil {
			return nil, noop, err
		}
		return &ClickHouseSource{Conn: conn, Logger: logger}, func() { conn.Close() }, nil

	case config.SourceSQLite, config.SourceMySQL:
		db, err := OpenSQL(ctx, cfg.DataSource, cfg.SQLDSN)
		if err != nil {
			return nil, noop, err
		}
		return &SQLSource{DB: db, Driver: cfg.DataSource, Logger: logger}, func() { db.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unsupported data source %q", cfg.DataSource)
}
