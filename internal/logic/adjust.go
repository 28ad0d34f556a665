package logic

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/playpredict/forecast-api/internal/models"
)

// touchdownFactorCap bounds how far a soft defense can inflate touchdowns.
const touchdownFactorCap = 1.5

// LeagueAverage is the arithmetic mean of a category's defense table. Teams
// are summed in sorted order so the result is bit-for-bit repeatable.
func LeagueAverage(table map[string]float64) (float64, error) {
	if len(table) == 0 {
		return 0, ErrDefenseDataUnavailable
	}
	var sum float64
	for _, team := range slices.Sorted(maps.Keys(table)) {
		sum += table[team]
	}
	return sum / float64(len(table)), nil
}

// AdjustForOpponent scales an aggregate by opponent-allowed / league-average
// per category. Yards scale by the raw factor; touchdowns by the factor capped
// at 1.5. Results are rounded to two decimals.
func AdjustForOpponent(agg models.Aggregate, defense models.DefenseTables, opponent string) (models.StatLine, models.AdjustmentFactors, error) {
	var factors models.AdjustmentFactors
	var predicted models.StatLine

	averages := make(map[models.Category]float64, len(models.Categories))
	for _, c := range models.Categories {
		avg, err := LeagueAverage(defense[c])
		if err != nil {
			return predicted, factors, fmt.Errorf("%s: %w", c, err)
		}
		averages[c] = avg
	}

	for _, c := range models.Categories {
		allowed, ok := defense.Allowed(c, opponent)
		if !ok {
			return predicted, factors, fmt.Errorf("%w: %s has no %s defense entry", ErrOpponentNotFound, opponent, c)
		}

		factor := allowed / averages[c]
		factors.Set(c, round2(factor))
		predicted.Set(c,
			round2(agg.Yards(c)*factor),
			round2(agg.TDs(c)*math.Min(factor, touchdownFactorCap)),
		)
	}
	return predicted, factors, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
