package logic

import "github.com/playpredict/forecast-api/internal/models"

const (
	highConfidenceSample   = 10
	mediumConfidenceSample = 5
)

// ConfidenceFor labels a sample size.
func ConfidenceFor(sampleSize int) models.Confidence {
	switch {
	case sampleSize >= highConfidenceSample:
		return models.ConfidenceHigh
	case sampleSize >= mediumConfidenceSample:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
