package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// rowScanner is the subset of pgx.Rows, driver.Rows and *sql.Rows the
// database sources read through.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPlays(ctx context.Context, rows rowScanner) ([]models.PlayRecord, error) {
	var plays []models.PlayRecord
	for rows.Next() {
		if len(plays)%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		var (
			week                     int64
			posTeam, defTeam         *string
			passer, rusher, receiver *string
			rushing, receiving, pass *float64
			rushTD, passTD           int64
		)
		if err := rows.Scan(
			&week, &posTeam, &defTeam,
			&passer, &rusher, &receiver,
			&rushing, &receiving, &pass,
			&rushTD, &passTD,
		); err != nil {
			return nil, fmt.Errorf("scan play %d: %w", len(plays), err)
		}

		plays = append(plays, models.PlayRecord{
			Week:           int(week),
			PosTeam:        models.NormalizeTeam(deref(posTeam)),
			DefTeam:        models.NormalizeTeam(deref(defTeam)),
			PasserName:     deref(passer),
			RusherName:     deref(rusher),
			ReceiverName:   deref(receiver),
			RushingYards:   rushing,
			ReceivingYards: receiving,
			PassingYards:   pass,
			RushTouchdown:  rushTD != 0,
			PassTouchdown:  passTD != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plays: %w", err)
	}
	return plays, nil
}

func scanDefense(rows rowScanner, logger *zap.Logger) (models.DefenseTables, error) {
	log := sugar(logger)
	tables := make(models.DefenseTables, len(models.Categories))
	for _, c := range models.Categories {
		tables[c] = make(map[string]float64)
	}

	for rows.Next() {
		var (
			category, team string
			allowed        float64
		)
		if err := rows.Scan(&category, &team, &allowed); err != nil {
			return nil, fmt.Errorf("scan defense row: %w", err)
		}
		c, ok := parseCategory(category)
		if !ok {
			log.Warnw("Skipping defense row with unknown category", "category", category, "team", team)
			continue
		}
		key, ok := defenseEntry(team, allowed)
		if !ok {
			log.Warnw("Skipping invalid defense row", "category", category, "team", team, "allowed", allowed)
			continue
		}
		tables[c][key] = allowed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate defense rows: %w", err)
	}
	return tables, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
