package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/logic"
	"github.com/playpredict/forecast-api/internal/models"
)

func newTestHandler(svc *MockPredictionService, reloads ReloadQueue) *Handler {
	return New(Config{
		Prediction: svc,
		Reloads:    reloads,
		Logger:     zap.NewNop(),
		AdminToken: "secret",
	})
}

func serve(h *Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.Router(RouterConfig{AllowedOrigins: []string{"*"}}).ServeHTTP(w, req)
	return w
}

func TestPredictPlayer_TableDriven(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		predictErr     error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Happy Path",
			target:         "/api/predict/player?player=J.Allen&opponent=NYJ&week=5",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Happy Path Without Week",
			target:         "/api/predict/player?player=J.Allen&opponent=NYJ",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Player",
			target:         "/api/predict/player?opponent=NYJ",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Opponent",
			target:         "/api/predict/player?player=J.Allen",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Non-numeric Week",
			target:         "/api/predict/player?player=J.Allen&opponent=NYJ&week=five",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "week must be an integer",
		},
		{
			name:           "Week Out Of Range",
			target:         "/api/predict/player?player=J.Allen&opponent=NYJ&week=0",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Player Not Found",
			target:         "/api/predict/player?player=Nobody&opponent=NYJ",
			predictErr:     fmt.Errorf("predict: %w", logic.ErrPlayerNotFound),
			expectedStatus: http.StatusNotFound,
			expectedError:  "No data found for player Nobody",
		},
		{
			name:           "Opponent Not Found",
			target:         "/api/predict/player?player=J.Allen&opponent=xyz",
			predictErr:     logic.ErrOpponentNotFound,
			expectedStatus: http.StatusNotFound,
			expectedError:  "No defense data found for opponent XYZ",
		},
		{
			name:           "Engine Failure",
			target:         "/api/predict/player?player=J.Allen&opponent=NYJ",
			predictErr:     logic.ErrDefenseDataUnavailable,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery models.PredictionQuery
			svc := &MockPredictionService{
				PredictFunc: func(ctx context.Context, q models.PredictionQuery) (*models.PredictionResult, error) {
					gotQuery = q
					if tt.predictErr != nil {
						return nil, tt.predictErr
					}
					return &models.PredictionResult{PlayerName: q.PlayerName, Opponent: q.Opponent, Confidence: models.ConfidenceHigh}, nil
				},
			}

			w := serve(newTestHandler(svc, nil), "GET", tt.target, "", nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" {
				var body map[string]string
				json.Unmarshal(w.Body.Bytes(), &body)
				if body["error"] != tt.expectedError {
					t.Errorf("error = %q, want %q", body["error"], tt.expectedError)
				}
			}
			if tt.expectedStatus == http.StatusOK && gotQuery.PlayerName != "J.Allen" {
				t.Errorf("query = %+v", gotQuery)
			}
		})
	}
}

func TestPredictPlayerPassesWeek(t *testing.T) {
	svc := &MockPredictionService{
		PredictFunc: func(ctx context.Context, q models.PredictionQuery) (*models.PredictionResult, error) {
			if q.Week == nil || *q.Week != 7 {
				t.Errorf("week = %v, want 7", q.Week)
			}
			return &models.PredictionResult{}, nil
		},
	}
	if w := serve(newTestHandler(svc, nil), "GET", "/api/predict/player?player=A&opponent=B&week=7", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPredictBatch(t *testing.T) {
	var calls atomic.Int32
	svc := &MockPredictionService{
		PredictFunc: func(ctx context.Context, q models.PredictionQuery) (*models.PredictionResult, error) {
			calls.Add(1)
			if q.PlayerName == "Ghost" {
				return nil, logic.ErrPlayerNotFound
			}
			return &models.PredictionResult{PlayerName: q.PlayerName, Opponent: q.Opponent}, nil
		},
	}
	body := `{"queries":[
		{"player":"J.Allen","opponent":"NYJ","week":3},
		{"player":"Ghost","opponent":"NYJ"},
		{"player":"J.Cook","opponent":"MIA"}
	]}`

	w := serve(newTestHandler(svc, nil), "POST", "/api/predict/batch", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp models.BatchPredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 3 || calls.Load() != 3 {
		t.Fatalf("results = %d, calls = %d", len(resp.Results), calls.Load())
	}
	if resp.Results[0].Result == nil || resp.Results[0].Result.PlayerName != "J.Allen" {
		t.Errorf("results out of order: %+v", resp.Results[0])
	}
	if resp.Results[1].Result != nil || resp.Results[1].Error == "" {
		t.Errorf("missing player should carry an error: %+v", resp.Results[1])
	}
	if resp.Results[2].Result == nil {
		t.Errorf("third query lost: %+v", resp.Results[2])
	}
}

func TestPredictBatchValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Invalid JSON", `{"queries": [`},
		{"Empty Batch", `{"queries": []}`},
		{"Invalid Item", `{"queries": [{"player": "", "opponent": "NYJ"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestHandler(&MockPredictionService{}, nil), "POST", "/api/predict/batch", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestPredictBatchTooLarge(t *testing.T) {
	h := New(Config{Prediction: &MockPredictionService{}, MaxBatchSize: 2})
	body := `{"queries":[{"player":"A","opponent":"B"},{"player":"C","opponent":"D"},{"player":"E","opponent":"F"}]}`
	if w := serve(h, "POST", "/api/predict/batch", body, nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListPlayers(t *testing.T) {
	var gotRole models.Role
	svc := &MockPredictionService{
		ListKnownPlayersFunc: func(role models.Role) []models.KnownPlayer {
			gotRole = role
			return []models.KnownPlayer{{Key: "j.allen", Name: "J.Allen", Roles: []models.Role{models.RolePasser}}}
		},
	}
	h := newTestHandler(svc, nil)

	w := serve(h, "GET", "/api/players?role=QB", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotRole != models.RolePasser {
		t.Errorf("role = %q, want passer", gotRole)
	}

	if w := serve(h, "GET", "/api/players?role=kicker", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown role status = %d, want 400", w.Code)
	}
}

func TestListPlayersEmptyIsArray(t *testing.T) {
	w := serve(newTestHandler(&MockPredictionService{}, nil), "GET", "/api/players", "", nil)
	if !strings.Contains(w.Body.String(), `"players":[]`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSearchPlayers(t *testing.T) {
	var gotLimit int
	svc := &MockPredictionService{
		SearchPlayersFunc: func(query string, limit int) []models.KnownPlayer {
			gotLimit = limit
			return []models.KnownPlayer{{Key: "j.allen", Name: "J.Allen"}}
		},
	}
	h := newTestHandler(svc, nil)

	tests := []struct {
		target    string
		status    int
		wantLimit int
	}{
		{"/api/players/search?query=allen", http.StatusOK, 0},
		{"/api/players/search?query=allen&limit=5", http.StatusOK, 5},
		{"/api/players/search?query=allen&limit=500", http.StatusOK, maxSearchLimit},
		{"/api/players/search?query=allen&limit=-1", http.StatusBadRequest, 0},
		{"/api/players/search", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		gotLimit = 0
		w := serve(h, "GET", tt.target, "", nil)
		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.target, w.Code, tt.status)
		}
		if gotLimit != tt.wantLimit {
			t.Errorf("%s: limit = %d, want %d", tt.target, gotLimit, tt.wantLimit)
		}
	}
}

func TestListTeams(t *testing.T) {
	svc := &MockPredictionService{ListKnownTeamsFunc: func() []string { return []string{"BUF", "NYJ"} }}
	w := serve(newTestHandler(svc, nil), "GET", "/api/teams", "", nil)

	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body["teams"]) != 2 {
		t.Errorf("teams = %v", body["teams"])
	}
}

func TestReloadSnapshot_TableDriven(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		queueFull      bool
		expectedStatus int
	}{
		{"Missing Token", nil, false, http.StatusUnauthorized},
		{"Wrong Token", map[string]string{"X-Admin-Token": "nope"}, false, http.StatusUnauthorized},
		{"Header Token", map[string]string{"X-Admin-Token": "secret"}, false, http.StatusAccepted},
		{"Bearer Token", map[string]string{"Authorization": "Bearer secret"}, false, http.StatusAccepted},
		{"Queue Full", map[string]string{"X-Admin-Token": "secret"}, true, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &MockReloadQueue{
				EnqueueFunc: func(reason string) (string, bool) { return "req-1", !tt.queueFull },
			}
			w := serve(newTestHandler(&MockPredictionService{}, queue), "POST", "/api/system/reload", "", tt.headers)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusAccepted {
				var resp models.ReloadResponse
				json.Unmarshal(w.Body.Bytes(), &resp)
				if !resp.Queued || resp.RequestID != "req-1" {
					t.Errorf("response = %+v", resp)
				}
				if len(queue.Reasons) != 1 || queue.Reasons[0] != "api" {
					t.Errorf("reasons = %v", queue.Reasons)
				}
			}
		})
	}
}

func TestReloadDisabledWithoutAdminToken(t *testing.T) {
	h := New(Config{Prediction: &MockPredictionService{}, Reloads: &MockReloadQueue{}})
	w := serve(h, "POST", "/api/system/reload", "", map[string]string{"X-Admin-Token": ""})
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestHealthAndReady(t *testing.T) {
	h := newTestHandler(&MockPredictionService{}, &MockReloadQueue{})

	if w := serve(h, "GET", "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
	if w := serve(h, "GET", "/ready", "", nil); w.Code != http.StatusOK {
		t.Errorf("ready status = %d", w.Code)
	}

	notReady := newTestHandler(&MockPredictionService{
		SnapshotInfoFunc: func() models.SnapshotInfo { return models.SnapshotInfo{} },
	}, nil)
	if w := serve(notReady, "GET", "/ready", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready without snapshot = %d, want 503", w.Code)
	}
}

func TestIndexListsEndpoints(t *testing.T) {
	w := serve(newTestHandler(&MockPredictionService{}, nil), "GET", "/api/", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/predict/player") {
		t.Errorf("index = %d %s", w.Code, w.Body.String())
	}
}

func TestPredictionErrorCanceled(t *testing.T) {
	h := newTestHandler(&MockPredictionService{}, nil)
	status, _ := h.predictionError(context.Canceled, models.PredictRequest{})
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	status, _ = h.predictionError(errors.New("boom"), models.PredictRequest{})
	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestHandler(&MockPredictionService{}, nil)

	w := serve(h, "GET", "/health", "", nil)
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("response is missing X-Request-Id")
	}

	w = serve(h, "GET", "/health", "", map[string]string{"X-Request-Id": "client-42"})
	if got := w.Header().Get("X-Request-Id"); got != "client-42" {
		t.Errorf("X-Request-Id = %q, want client-42", got)
	}
}
