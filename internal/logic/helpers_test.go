package logic

import (
	"github.com/playpredict/forecast-api/internal/models"
)

func rushPlay(week int, defteam, rusher string, yards float64, td bool) models.PlayRecord {
	return models.PlayRecord{
		Week:          week,
		PosTeam:       "ARI",
		DefTeam:       defteam,
		PasserName:    models.MissingMarker,
		RusherName:    rusher,
		ReceiverName:  models.MissingMarker,
		RushingYards:  models.Float(yards),
		RushTouchdown: td,
	}
}

func passPlay(week int, defteam, passer, receiver string, yards float64, td bool) models.PlayRecord {
	return models.PlayRecord{
		Week:           week,
		PosTeam:        "ARI",
		DefTeam:        defteam,
		PasserName:     passer,
		RusherName:     models.MissingMarker,
		ReceiverName:   receiver,
		PassingYards:   models.Float(yards),
		ReceivingYards: models.Float(yards),
		PassTouchdown:  td,
	}
}

func toPlays(records ...models.PlayRecord) []Play {
	out := make([]Play, len(records))
	for i, r := range records {
		out[i] = NewPlay(r)
	}
	return out
}

func evenDefense() models.DefenseTables {
	return models.DefenseTables{
		models.CategoryRushing:   {"BUF": 100, "KC": 100},
		models.CategoryReceiving: {"BUF": 150, "KC": 150},
		models.CategoryPassing:   {"BUF": 200, "KC": 200},
	}
}

func intPtr(v int) *int {
	return &v
}
