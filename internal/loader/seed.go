package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/playpredict/forecast-api/internal/models"
)

var playColumns = []string{
	"week", "posteam", "defteam",
	"passer_player_name", "rusher_player_name", "receiver_player_name",
	"rushing_yards", "receiving_yards", "passing_yards",
	"rush_touchdown", "pass_touchdown",
}

// playRow flattens a record into playColumns order. Empty strings and absent
// yardage are stored as NULL.
func playRow(p models.PlayRecord) []any {
	return []any{
		int64(p.Week), nullString(p.PosTeam), nullString(p.DefTeam),
		nullString(p.PasserName), nullString(p.RusherName), nullString(p.ReceiverName),
		nullFloat(p.RushingYards), nullFloat(p.ReceivingYards), nullFloat(p.PassingYards),
		boolInt(p.RushTouchdown), boolInt(p.PassTouchdown),
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

type defenseRow struct {
	category models.Category
	team     string
	allowed  float64
}

func defenseRows(tables models.DefenseTables) []defenseRow {
	var rows []defenseRow
	for _, c := range models.Categories {
		for team, allowed := range tables[c] {
			rows = append(rows, defenseRow{category: c, team: team, allowed: allowed})
		}
	}
	return rows
}

// PgWriter is satisfied by *pgxpool.Pool and *pgx.Conn.
type PgWriter interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// SeedPostgres replaces the contents of both tables using COPY.
func SeedPostgres(ctx context.Context, db PgWriter, plays []models.PlayRecord, defense models.DefenseTables) error {
	if _, err := db.Exec(ctx, "TRUNCATE plays, defense_allowed RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{PlaysTable}, playColumns,
		pgx.CopyFromSlice(len(plays), func(i int) ([]any, error) {
			return playRow(plays[i]), nil
		}))
	if err != nil {
		return fmt.Errorf("copy plays: %w", err)
	}
	if int(n) != len(plays) {
		return fmt.Errorf("copy plays: wrote %d of %d rows", n, len(plays))
	}

	rows := defenseRows(defense)
	if _, err := db.CopyFrom(ctx, pgx.Identifier{DefenseTable}, []string{"category", "team", "allowed"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{string(rows[i].category), rows[i].team, rows[i].allowed}, nil
		})); err != nil {
		return fmt.Errorf("copy defense: %w", err)
	}
	return nil
}

// SeedSQL replaces the contents of both tables in one transaction.
func SeedSQL(ctx context.Context, db *sql.DB, plays []models.PlayRecord, defense models.DefenseTables) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{"DELETE FROM plays", "DELETE FROM defense_allowed"} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	insertPlay, err := tx.PrepareContext(ctx, `INSERT INTO plays (week, posteam, defteam, passer_player_name,
		rusher_player_name, receiver_player_name, rushing_yards, receiving_yards, passing_yards,
		rush_touchdown, pass_touchdown) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertPlay.Close()

	for i, p := range plays {
		if _, err = insertPlay.ExecContext(ctx, playRow(p)...); err != nil {
			return fmt.Errorf("insert play %d: %w", i, err)
		}
	}

	insertDefense, err := tx.PrepareContext(ctx, `INSERT INTO defense_allowed (category, team, allowed) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertDefense.Close()

	for _, row := range defenseRows(defense) {
		if _, err = insertDefense.ExecContext(ctx, string(row.category), row.team, row.allowed); err != nil {
			return fmt.Errorf("insert defense %s/%s: %w", row.category, row.team, err)
		}
	}

	return tx.Commit()
}

// SeedClickHouse replaces the contents of both tables with batch inserts.
func SeedClickHouse(ctx context.Context, conn driver.Conn, plays []models.PlayRecord, defense models.DefenseTables) error {
	for _, table := range []string{PlaysTable, DefenseTable} {
		if err := conn.Exec(ctx, "TRUNCATE TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	batch, err := conn.PrepareBatch(ctx, "INSERT INTO plays (id, week, posteam, defteam, passer_player_name, rusher_player_name, receiver_player_name, rushing_yards, receiving_yards, passing_yards, rush_touchdown, pass_touchdown)")
	if err != nil {
		return err
	}
	for i, p := range plays {
		if err := batch.Append(append([]any{uint64(i + 1)}, playRow(p)...)...); err != nil {
			return fmt.Errorf("append play %d: %w", i, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send plays: %w", err)
	}

	batch, err = conn.PrepareBatch(ctx, "INSERT INTO defense_allowed (category, team, allowed)")
	if err != nil {
		return err
	}
	for _, row := range defenseRows(defense) {
		if err := batch.Append(string(row.category), row.team, row.allowed); err != nil {
			return fmt.Errorf("append defense: %w", err)
		}
	}
	return batch.Send()
}
