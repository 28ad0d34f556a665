// Package loader reads play-by-play history and defense-allowed tables from
// the configured data source and builds immutable snapshots from them.
package loader

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/playpredict/forecast-api/internal/logic"
	"github.com/playpredict/forecast-api/internal/models"
)

// Source delivers fully decoded records. Implementations must return the
// whole data set; snapshots never read lazily.
type Source interface {
	Name() string
	LoadPlays(ctx context.Context) ([]models.PlayRecord, error)
	LoadDefense(ctx context.Context) (models.DefenseTables, error)
}

// Build loads plays and defense tables concurrently and assembles a snapshot.
func Build(ctx context.Context, src Source, logger *zap.Logger) (*logic.Snapshot, error) {
	log := sugar(logger)
	start := time.Now()

	var plays []models.PlayRecord
	var defense models.DefenseTables

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if plays, err = src.LoadPlays(gctx); err != nil {
			return fmt.Errorf("load plays: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if defense, err = src.LoadDefense(gctx); err != nil {
			return fmt.Errorf("load defense: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s source: %w", src.Name(), err)
	}

	snap, err := logic.NewSnapshot(src.Name(), plays, defense)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", src.Name(), err)
	}

	log.Infow("Snapshot built",
		"source", src.Name(),
		"plays", len(plays),
		"duration", time.Since(start),
	)
	return snap, nil
}

// SnapshotLoader adapts a Source to the store's reload hook.
func SnapshotLoader(src Source, logger *zap.Logger) logic.LoadFunc {
	return func(ctx context.Context) (*logic.Snapshot, error) {
		return Build(ctx, src, logger)
	}
}

// defenseEntry normalizes the team code and reports whether the entry is
// usable: a known team and a positive, finite value.
func defenseEntry(team string, allowed float64) (string, bool) {
	team = models.NormalizeTeam(team)
	return team, team != "" && allowed > 0 && !math.IsInf(allowed, 1)
}

func parseCategory(s string) (models.Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch models.Category(s) {
	case models.CategoryRushing, models.CategoryReceiving, models.CategoryPassing:
		return models.Category(s), true
	}
	// Position-named tables (rb_defense.csv and friends)
	switch s {
	case "rb":
		return models.CategoryRushing, true
	case "wr":
		return models.CategoryReceiving, true
	case "qb":
		return models.CategoryPassing, true
	}
	return "", false
}

func sugar(logger *zap.Logger) *zap.SugaredLogger {
	if logger == nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
