package logic

import "github.com/playpredict/forecast-api/internal/models"

// Aggregate sums the player's yards and touchdowns over sample. Each play is
// credited to at most one role (rusher, then receiver, then passer); missing
// yardage counts as zero. SampleSize is the size of the whole sample.
func Aggregate(sample []Play, playerKey string) models.Aggregate {
	agg := models.Aggregate{SampleSize: len(sample)}
	if playerKey == "" {
		return agg
	}

	for i := range sample {
		play := &sample[i]
		for _, spec := range categorySpecs {
			if play.KeyFor(spec.role) != playerKey {
				continue
			}
			var yards, tds float64
			if y := spec.yards(&play.PlayRecord); y != nil {
				yards = *y
			}
			if spec.touchdown(&play.PlayRecord) {
				tds = 1
			}
			agg.Add(spec.category, yards, tds)
			break
		}
	}
	return agg
}
