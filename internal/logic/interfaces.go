package logic

import (
	"context"
	"errors"

	"github.com/playpredict/forecast-api/internal/models"
)

// Outcomes that mean "no prediction" rather than a failure
var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrOpponentNotFound = errors.New("opponent defense data not found")
)

// ErrDefenseDataUnavailable means a defense category is empty. Loaders reject
// such data, so seeing it at query time points to a broken snapshot.
var ErrDefenseDataUnavailable = errors.New("defense data unavailable")

// PredictionService answers prediction and catalog queries against the
// current snapshot
type PredictionService interface {
	Predict(ctx context.Context, q models.PredictionQuery) (*models.PredictionResult, error)
	ListKnownPlayers(role models.Role) []models.KnownPlayer
	SearchPlayers(query string, limit int) []models.KnownPlayer
	ListKnownTeams() []string
	SnapshotInfo() models.SnapshotInfo
}

// SnapshotProvider hands out the snapshot currently in service
type SnapshotProvider interface {
	Current() *Snapshot
}
