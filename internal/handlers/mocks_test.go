package handlers

import (
	"context"

	"github.com/playpredict/forecast-api/internal/models"
)

// MockPredictionService
type MockPredictionService struct {
	PredictFunc          func(ctx context.Context, q models.PredictionQuery) (*models.PredictionResult, error)
	ListKnownPlayersFunc func(role models.Role) []models.KnownPlayer
	SearchPlayersFunc    func(query string, limit int) []models.KnownPlayer
	ListKnownTeamsFunc   func() []string
	SnapshotInfoFunc     func() models.SnapshotInfo
}

func (m *MockPredictionService) Predict(ctx context.Context, q models.PredictionQuery) (*models.PredictionResult, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, q)
	}
	return &models.PredictionResult{PlayerName: q.PlayerName, Opponent: q.Opponent}, nil
}

func (m *MockPredictionService) ListKnownPlayers(role models.Role) []models.KnownPlayer {
	if m.ListKnownPlayersFunc != nil {
		return m.ListKnownPlayersFunc(role)
	}
	return nil
}

func (m *MockPredictionService) SearchPlayers(query string, limit int) []models.KnownPlayer {
	if m.SearchPlayersFunc != nil {
		return m.SearchPlayersFunc(query, limit)
	}
	return nil
}

func (m *MockPredictionService) ListKnownTeams() []string {
	if m.ListKnownTeamsFunc != nil {
		return m.ListKnownTeamsFunc()
	}
	return nil
}

func (m *MockPredictionService) SnapshotInfo() models.SnapshotInfo {
	if m.SnapshotInfoFunc != nil {
		return m.SnapshotInfoFunc()
	}
	return models.SnapshotInfo{Version: "test-version", Source: "csv"}
}

// MockReloadQueue
type MockReloadQueue struct {
	EnqueueFunc func(reason string) (string, bool)
	Reasons     []string
}

func (m *MockReloadQueue) Enqueue(reason string) (string, bool) {
	m.Reasons = append(m.Reasons, reason)
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(reason)
	}
	return "req-1", true
}

func (m *MockReloadQueue) QueueDepth() int { return len(m.Reasons) }
