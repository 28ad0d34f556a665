package models

import (
	"errors"
	"fmt"
)

// ErrLeagueAverageUndefined means a defense category has no teams, so no league
// average exists for it. It is a data error and must stop startup.
var ErrLeagueAverageUndefined = errors.New("league average undefined")

// DefenseTables maps each category to team code -> average allowed per game.
type DefenseTables map[Category]map[string]float64

// Validate checks that every category has at least one team.
func (d DefenseTables) Validate() error {
	for _, c := range Categories {
		if len(d[c]) == 0 {
			return fmt.Errorf("%w: no %s defense entries", ErrLeagueAverageUndefined, c)
		}
	}
	return nil
}

// Allowed returns the value allowed by team in category c.
func (d DefenseTables) Allowed(c Category, team string) (float64, bool) {
	v, ok := d[c][team]
	return v, ok
}

// Clone returns a deep copy so callers can't mutate a loaded snapshot.
func (d DefenseTables) Clone() DefenseTables {
	out := make(DefenseTables, len(d))
	for c, m := range d {
		cp := make(map[string]float64, len(m))
		for team, v := range m {
			cp[team] = v
		}
		out[c] = cp
	}
	return out
}
