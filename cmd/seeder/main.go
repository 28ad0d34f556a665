// Command seeder imports a play-by-play CSV and the defense-allowed CSVs into
// a database the API can load from.
//
//	seeder -target sqlite -dsn forecast.db -plays data/play_by_play_2023.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/config"
	"github.com/playpredict/forecast-api/internal/loader"
	"github.com/playpredict/forecast-api/internal/models"
)

func main() {
	var (
		target    = flag.String("target", config.SourceSQLite, "postgres, clickhouse, sqlite or mysql")
		dsn       = flag.String("dsn", "", "connection string for the target")
		plays     = flag.String("plays", "data/play_by_play.csv", "play-by-play CSV")
		rushing   = flag.String("defense-rushing", "data/rb_defense.csv", "rushing yards allowed CSV")
		receiving = flag.String("defense-receiving", "data/wr_defense.csv", "receiving yards allowed CSV")
		passing   = flag.String("defense-passing", "data/qb_defense.csv", "passing yards allowed CSV")
		schema    = flag.Bool("schema", true, "create tables if missing")
	)
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	log := logger.Sugar()

	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "seeder: -dsn is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	src := &loader.CSVSource{
		PlaysPath: *plays,
		Defense: loader.DefensePaths{
			models.CategoryRushing:   *rushing,
			models.CategoryReceiving: *receiving,
			models.CategoryPassing:   *passing,
		},
		Logger: logger,
	}

	start := time.Now()
	records, err := src.LoadPlays(ctx)
	if err != nil {
		log.Fatalw("Failed to read plays", "path", *plays, "error", err)
	}
	defense, err := src.LoadDefense(ctx)
	if err != nil {
		log.Fatalw("Failed to read defense tables", "error", err)
	}
	if err := defense.Validate(); err != nil {
		log.Fatalw("Defense tables unusable", "error", err)
	}
	log.Infow("Read CSV input", "plays", len(records), "duration", time.Since(start))

	start = time.Now()
	if err := seed(ctx, *target, *dsn, *schema, records, defense); err != nil {
		log.Fatalw("Seeding failed", "target", *target, "error", err)
	}
	log.Infow("Seeding complete", "target", *target, "plays", len(records), "duration", time.Since(start))
}

func seed(ctx context.Context, target, dsn string, schema bool, plays []models.PlayRecord, defense models.DefenseTables) error {
	switch target {
	case config.SourcePostgres:
		pool, err := loader.OpenPostgres(ctx, dsn)
		if err != nil {
			return err
		}
		defer pool.Close()
		if schema {
			if _, err := pool.Exec(ctx, loader.PostgresSchema); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return loader.SeedPostgres(ctx, pool, plays, defense)

	case config.SourceClickHouse:
		conn, err := loader.OpenClickHouse(ctx, dsn)
		if err != nil {
			return err
		}
		defer conn.Close()
		if schema {
			if err := loader.ApplyClickHouseSchema(ctx, conn); err != nil {
				return err
			}
		}
		return loader.SeedClickHouse(ctx, conn, plays, defense)

	case config.SourceSQLite, config.SourceMySQL:
		db, err := loader.OpenSQL(ctx, target, dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		if schema {
			ddl := loader.SQLiteSchema
			if target == config.SourceMySQL {
				ddl = loader.MySQLSchema
			}
			if err := loader.ApplySchema(ctx, db, ddl); err != nil {
				return err
			}
		}
		return loader.SeedSQL(ctx, db, plays, defense)
	}
	return fmt.Errorf("unsupported target %q", target)
}
