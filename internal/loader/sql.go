package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/playpredict/forecast-api/internal/models"
)

// SQLSource reads the plays and defense_allowed tables through database/sql.
// Driver is "sqlite" or "mysql" and is only used for naming.
type SQLSource struct {
	DB     *sql.DB
	Driver string
	Logger *zap.Logger
}

// OpenSQL opens and pings a database/sql handle for the sqlite or mysql driver.
func OpenSQL(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}
	return db, nil
}

// ApplySchema runs each statement of a schema script in order.
func ApplySchema(ctx context.Context, db *sql.DB, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQLSource) Name() string { return s.Driver }

func (s *SQLSource) LoadPlays(ctx context.Context) ([]models.PlayRecord, error) {
	rows, err := s.DB.QueryContext(ctx, selectPlaysSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlays(ctx, rows)
}

func (s *SQLSource) LoadDefense(ctx context.Context) (models.DefenseTables, error) {
	rows, err := s.DB.QueryContext(ctx, selectDefenseSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDefense(rows, s.Logger)
}
