package logic

import (
	"fmt"

	"github.com/playpredict/forecast-api/internal/models"
)

// sampleQuery is the resolver's view of a prediction query.
type sampleQuery struct {
	playerKey string
	opponent  string
}

// strategy selects candidate plays from history for one attempted week.
type strategy func(history []Play, q sampleQuery, week int) []Play

// cascadeStep is one named entry of the fallback cascade.
type cascadeStep struct {
	tier     models.Tier
	week     int
	strategy strategy
}

// resolution is the sample chosen by the cascade.
type resolution struct {
	tier     models.Tier
	usedWeek *int
	sample   []Play
	note     string
}

func weekAndOpponent(history []Play, q sampleQuery, week int) []Play {
	return filterPlays(history, func(p *Play) bool {
		return p.Involves(q.playerKey) && p.Week == week && p.DefTeam == q.opponent
	})
}

func weekOnly(history []Play, q sampleQuery, week int) []Play {
	return filterPlays(history, func(p *Play) bool {
		return p.Involves(q.playerKey) && p.Week == week
	})
}

func fullSeason(history []Play, q sampleQuery, _ int) []Play {
	return filterPlays(history, func(p *Play) bool {
		return p.Involves(q.playerKey)
	})
}

func filterPlays(history []Play, keep func(p *Play) bool) []Play {
	var out []Play
	for i := range history {
		if keep(&history[i]) {
			out = append(out, history[i])
		}
	}
	return out
}

// lastRegularWeek is the latest week the backward walk visits. Playoff weeks
// are still tried directly but the walk only covers the regular season.
const lastRegularWeek = 18

// cascadePlan lists the steps tried for a query, most specific first. With a
// requested week it tries that week, then walks back one week at a time down
// to week 1, and ends with the full season. Without a week, or with a week
// below 1, only the season step remains.
func cascadePlan(week *int) []cascadeStep {
	var plan []cascadeStep
	if week != nil && *week >= 1 {
		w := *week
		plan = append(plan,
			cascadeStep{tier: models.TierExact, week: w, strategy: weekAndOpponent},
			cascadeStep{tier: models.TierWeekOnly, week: w, strategy: weekOnly},
		)
		for attempt := min(w, lastRegularWeek+1); attempt > 1; {
			attempt--
			plan = append(plan,
				cascadeStep{tier: models.TierBackwardExact, week: attempt, strategy: weekAndOpponent},
				cascadeStep{tier: models.TierBackwardWeek, week: attempt, strategy: weekOnly},
			)
		}
	}
	return append(plan, cascadeStep{tier: models.TierSeason, strategy: fullSeason})
}

// resolveSample runs the cascade and returns the first non-empty sample. Tiers
// are never merged. ErrPlayerNotFound means the player has no plays at all.
func resolveSample(history []Play, q sampleQuery, week *int) (resolution, error) {
	for _, step := range cascadePlan(week) {
		sample := step.strategy(history, q, step.week)
		if len(sample) == 0 {
			continue
		}
		res := resolution{tier: step.tier, sample: sample}
		if step.tier != models.TierSeason {
			used := step.week
			res.usedWeek = &used
		}
		res.note = describeResolution(step, q, week, len(sample))
		return res, nil
	}
	return resolution{}, ErrPlayerNotFound
}

func describeResolution(step cascadeStep, q sampleQuery, requested *int, plays int) string {
	switch step.tier {
	case models.TierExact:
		return fmt.Sprintf("Week %d vs %s (%d plays)", step.week, q.opponent, plays)
	case models.TierWeekOnly:
		return fmt.Sprintf("No week %d plays vs %s; using all week %d plays (%d plays)", step.week, q.opponent, step.week, plays)
	case models.TierBackwardExact:
		return fmt.Sprintf("No data for week %d; using week %d vs %s (%d plays)", *requested, step.week, q.opponent, plays)
	case models.TierBackwardWeek:
		return fmt.Sprintf("No data for week %d; using week %d against any opponent (%d plays)", *requested, step.week, plays)
	}
	if requested != nil && *requested >= 1 {
		return fmt.Sprintf("No data for week %d or earlier; using full season (%d plays)", *requested, plays)
	}
	return fmt.Sprintf("Using full season (%d plays)", plays)
}
