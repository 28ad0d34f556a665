package logic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

const defaultSearchLimit = 10

// Prometheus metrics
var (
	predictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_predictions_total",
		Help: "Predictions served, by fallback tier",
	}, []string{"tier"})

	predictionsMissed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_predictions_missed_total",
		Help: "Queries that produced no prediction, by reason",
	}, []string{"reason"})

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forecast_prediction_duration_seconds",
		Help:    "Time spent resolving, aggregating and adjusting one prediction",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})
)

type predictionService struct {
	store  SnapshotProvider
	logger *zap.SugaredLogger
}

func NewPredictionService(store SnapshotProvider, logger *zap.Logger) PredictionService {
	return &predictionService{store: store, logger: logger.Sugar()}
}

// Predict resolves the most specific sample for the query, aggregates the
// player's production and scales it by the opponent's defense. The result is
// a pure function of the query and the snapshot.
func (s *predictionService) Predict(ctx context.Context, q models.PredictionQuery) (*models.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { predictionDuration.Observe(time.Since(start).Seconds()) }()

	snap := s.store.Current()
	key := NormalizeName(q.PlayerName)
	opponent := models.NormalizeTeam(q.Opponent)

	res, err := resolveSample(snap.History(key), sampleQuery{playerKey: key, opponent: opponent}, q.Week)
	if err != nil {
		predictionsMissed.WithLabelValues("player_not_found").Inc()
		s.logger.Debugw("No plays for player", "player", q.PlayerName, "key", key)
		return nil, err
	}

	agg := Aggregate(res.sample, key)
	predicted, factors, err := AdjustForOpponent(agg, snap.Defense(), opponent)
	if err != nil {
		reason := "defense_unavailable"
		if errors.Is(err, ErrOpponentNotFound) {
			reason = "opponent_not_found"
		} else {
			s.logger.Errorw("Snapshot has an empty defense table", "version", snap.Version(), "error", err)
		}
		predictionsMissed.WithLabelValues(reason).Inc()
		return nil, err
	}

	predictionsServed.WithLabelValues(string(res.tier)).Inc()

	return &models.PredictionResult{
		PlayerName:      q.PlayerName,
		Opponent:        opponent,
		RequestedWeek:   q.Week,
		UsedWeek:        res.usedWeek,
		Tier:            res.tier,
		Predicted:       predicted,
		Baseline:        agg.StatLine,
		Factors:         factors,
		SampleSize:      agg.SampleSize,
		Confidence:      ConfidenceFor(agg.SampleSize),
		Note:            res.note,
		SnapshotVersion: snap.Version(),
	}, nil
}

func (s *predictionService) ListKnownPlayers(role models.Role) []models.KnownPlayer {
	return s.store.Current().Players(role)
}

// SearchPlayers matches the normalized query against player keys and the
// lower-cased display name.
func (s *predictionService) SearchPlayers(query string, limit int) []models.KnownPlayer {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	needle := NormalizeName(query)
	if needle == "" {
		return []models.KnownPlayer{}
	}
	lowered := strings.ToLower(strings.TrimSpace(query))

	matches := make([]models.KnownPlayer, 0, limit)
	for _, p := range s.store.Current().Players("") {
		if strings.Contains(p.Key, needle) || strings.Contains(strings.ToLower(p.Name), lowered) {
			matches = append(matches, p)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}

func (s *predictionService) ListKnownTeams() []string {
	return s.store.Current().Teams()
}

func (s *predictionService) SnapshotInfo() models.SnapshotInfo {
	return s.store.Current().Info()
}
